package Reservoir2D

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/reservoir/pentadiag"
	"github.com/notargets/reservoir/types"
)

const (
	DefaultTolerance = 1.e-5
)

type Reservoir struct {
	*Model
	Wells    []Well
	Method   types.SolverType
	Settings pentadiag.Settings
	verbose  bool
}

// Field is a solved pressure grid, P.At(row, col)
type Field struct {
	Method types.SolverType
	P      *mat.Dense
	Stats  pentadiag.Stats
}

func NewReservoir(n int, wells []Well, method types.SolverType, settings pentadiag.Settings, verbose bool) (r *Reservoir, err error) {
	var (
		m *Model
	)
	if m, err = NewModel(n); err != nil {
		return
	}
	if err = m.CheckWells(wells); err != nil {
		return
	}
	if settings.Tolerance == 0 {
		settings.Tolerance = DefaultTolerance
	}
	r = &Reservoir{
		Model:    m,
		Wells:    wells,
		Method:   method,
		Settings: settings,
		verbose:  verbose,
	}
	if verbose {
		fmt.Printf("Reservoir pressure in 2 Dimensions\n")
		fmt.Printf("Grid %d x %d, Dx = %8.5f, Re = %8.5f, Rw = %8.5f\n", n, n, m.Dx, m.Re, m.Rw)
		for _, w := range wells {
			fmt.Printf("Well %s\n", w)
		}
		fmt.Printf("Algorithm: %s\n", method)
	}
	return
}

// Solve assembles a fresh system and solves it with the configured method
func (r *Reservoir) Solve(ctx context.Context) (f *Field, err error) {
	return r.SolveWith(ctx, r.Method)
}

// SolveWith solves with method instead of the configured one, the receiver is not modified
func (r *Reservoir) SolveWith(ctx context.Context, method types.SolverType) (f *Field, err error) {
	var (
		sys *pentadiag.System
		res pentadiag.Result
	)
	if sys, err = r.Assemble(r.Wells...); err != nil {
		return
	}
	res, err = pentadiag.Solve(ctx, sys, method, r.Settings)
	if err != nil {
		return
	}
	f = &Field{
		Method: method,
		P:      pentadiag.Reshape(res.X, r.N),
		Stats:  res.Stats,
	}
	if r.verbose {
		fmt.Printf("%s: %d iterations, residual = %8.3e, runtime = %v\n",
			method, res.Stats.Iterations, res.Stats.ResidualNorm, res.Stats.Runtime)
		if res.Stats.SkippedPivots != 0 {
			fmt.Printf("%s: %d zero pivots skipped, solution is not unique\n", method, res.Stats.SkippedPivots)
		}
	}
	return
}

func (f *Field) MinMax() (pMin, pMax float64) {
	return mat.Min(f.P), mat.Max(f.P)
}
