package types

import (
	"fmt"
	"strings"
)

type SolverType uint8

const (
	SOLVER_Direct SolverType = iota
	SOLVER_Jacobi
	SOLVER_GaussSeidel
	SOLVER_SOR
)

var SolverNameMap = map[string]SolverType{
	"direct":       SOLVER_Direct,
	"gauss":        SOLVER_Direct,
	"elimination":  SOLVER_Direct,
	"jacobi":       SOLVER_Jacobi,
	"gauss-jacobi": SOLVER_Jacobi,
	"gj":           SOLVER_Jacobi,
	"gauss-seidel": SOLVER_GaussSeidel,
	"seidel":       SOLVER_GaussSeidel,
	"gs":           SOLVER_GaussSeidel,
	"sor":          SOLVER_SOR,
}

// AllSolvers lists the methods in the order they are reported by compare runs
var AllSolvers = []SolverType{SOLVER_Direct, SOLVER_Jacobi, SOLVER_GaussSeidel, SOLVER_SOR}

var solverPrintNames = []string{"Gaussian-Elimination", "Gauss-Jacobi", "Gauss-Seidel", "SOR"}

func NewSolverType(label string) (st SolverType, err error) {
	var (
		ok bool
	)
	if st, ok = SolverNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = &ConfigurationError{
			Field:  "solver",
			Reason: fmt.Sprintf("unknown solver %q, want one of direct, jacobi, gauss-seidel, sor", label),
		}
	}
	return
}

func (st SolverType) String() string {
	if int(st) < len(solverPrintNames) {
		return solverPrintNames[st]
	}
	return fmt.Sprintf("SolverType(%d)", st)
}

func (st SolverType) IsIterative() bool {
	return st != SOLVER_Direct
}
