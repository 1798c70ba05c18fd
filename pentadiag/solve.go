package pentadiag

import (
	"context"
	"fmt"
	"time"

	"github.com/notargets/reservoir/types"
)

const (
	DefaultTolerance        = 1.e-6
	DefaultOmega            = 0.5
	DefaultMaxDenseUnknowns = 4096 // About 128 MiB for the augmented matrix
)

// Settings holds the options of a solve. Zero values select the defaults.
type Settings struct {
	// X0 is the initial guess for the iterative methods, nil means the zero vector
	X0 []float64
	// Iteration stops once max|x_new - x_old| <= Tolerance, zero selects DefaultTolerance.
	// An exact fixed point needs a small positive value such as 1e-300.
	Tolerance float64
	// MaxIterations of zero leaves the iteration unbounded, cancel through the context instead
	MaxIterations int
	// Omega is the SOR relaxation factor, 0 < Omega < 2
	Omega float64
	// MaxDenseUnknowns bounds the size of the dense expansion used by the direct solver
	MaxDenseUnknowns int
	// Observer, if set, is called after every sweep of an iterative method
	Observer func(p Progress)
}

type Progress struct {
	Method    types.SolverType
	Iteration int
	Delta     float64 // max|x_new - x_old| of this sweep
}

type Stats struct {
	Iterations    int     // Sweeps for iterative methods, pivot columns visited for the direct method
	Delta         float64 // Final max|x_new - x_old|
	SkippedPivots int     // Columns skipped by elimination because every candidate pivot was zero
	ResidualNorm  float64 // ||b - A*x||_2 of the returned solution
	StartTime     time.Time
	Runtime       time.Duration
}

type Result struct {
	X     []float64
	Stats Stats
}

func (s *Settings) setDefaults() {
	if s.Tolerance == 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.Omega == 0 {
		s.Omega = DefaultOmega
	}
	if s.MaxDenseUnknowns == 0 {
		s.MaxDenseUnknowns = DefaultMaxDenseUnknowns
	}
}

func (s *Settings) check(method types.SolverType, NN int) (err error) {
	switch {
	case s.Tolerance < 0:
		err = &types.ConfigurationError{Field: "tolerance", Reason: fmt.Sprintf("%g is negative", s.Tolerance)}
	case method == types.SOLVER_SOR && (s.Omega <= 0 || s.Omega >= 2):
		err = &types.ConfigurationError{Field: "omega", Reason: fmt.Sprintf("%g is outside (0,2)", s.Omega)}
	case s.MaxIterations < 0:
		err = &types.ConfigurationError{Field: "maxIterations", Reason: fmt.Sprintf("%d is negative", s.MaxIterations)}
	case s.X0 != nil && len(s.X0) != NN:
		err = &types.ConfigurationError{Field: "x0", Reason: fmt.Sprintf("length %d, want %d", len(s.X0), NN)}
	}
	return
}

// Solve dispatches to the method selected by st
func Solve(ctx context.Context, sys *System, st types.SolverType, s Settings) (Result, error) {
	switch st {
	case types.SOLVER_Direct:
		return Direct(sys, s)
	case types.SOLVER_Jacobi:
		return Jacobi(ctx, sys, s)
	case types.SOLVER_GaussSeidel:
		return GaussSeidel(ctx, sys, s)
	case types.SOLVER_SOR:
		return SOR(ctx, sys, s)
	default:
		return Result{}, &types.ConfigurationError{Field: "solver", Reason: fmt.Sprintf("unknown method %s", st)}
	}
}
