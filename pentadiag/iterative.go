package pentadiag

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/reservoir/types"
)

// Jacobi reads every neighbor from the previous iterate
func Jacobi(ctx context.Context, sys *System, s Settings) (Result, error) {
	return iterate(ctx, sys, types.SOLVER_Jacobi, s)
}

// GaussSeidel reads the -n and -1 neighbors from the current sweep and the +1 and +n neighbors from the previous iterate
func GaussSeidel(ctx context.Context, sys *System, s Settings) (Result, error) {
	return iterate(ctx, sys, types.SOLVER_GaussSeidel, s)
}

// SOR blends each Gauss-Seidel value with the previous one: x = (1-Omega)*x_old + Omega*x_gs
func SOR(ctx context.Context, sys *System, s Settings) (Result, error) {
	return iterate(ctx, sys, types.SOLVER_SOR, s)
}

func iterate(ctx context.Context, sys *System, method types.SolverType, s Settings) (res Result, err error) {
	var (
		NN         = sys.Unknowns()
		xOld, xNew = make([]float64, NN), make([]float64, NN)
	)
	sys.mustValidate()
	s.setDefaults()
	if err = s.check(method, NN); err != nil {
		return
	}
	res.Stats.StartTime = time.Now()
	if s.X0 != nil {
		copy(xOld, s.X0)
	}
	for {
		if err = ctx.Err(); err != nil {
			err = fmt.Errorf("%s cancelled after %d iterations: %w", method, res.Stats.Iterations, err)
			break
		}
		sys.sweep(method, s.Omega, xOld, xNew)
		res.Stats.Iterations++
		res.Stats.Delta = floats.Distance(xNew, xOld, math.Inf(1))
		if s.Observer != nil {
			s.Observer(Progress{Method: method, Iteration: res.Stats.Iterations, Delta: res.Stats.Delta})
		}
		xOld, xNew = xNew, xOld
		if res.Stats.Delta <= s.Tolerance {
			break
		}
		if s.MaxIterations > 0 && res.Stats.Iterations >= s.MaxIterations {
			err = &types.ConvergenceError{
				Method:     method,
				Iterations: res.Stats.Iterations,
				Delta:      res.Stats.Delta,
				Tolerance:  s.Tolerance,
			}
			break
		}
	}
	res.X = xOld
	res.Stats.ResidualNorm = sys.ResidualNorm(res.X)
	res.Stats.Runtime = time.Since(res.Stats.StartTime)
	return
}

/*
	sweep computes one new iterate into xNew, visiting rows in increasing order.

		i < n          no -n neighbor
		i == 0         no -1 neighbor
		i == N-1       no +1 neighbor
		i >= N-n       no +n neighbor

	Neighbors below i come from xNew except for Jacobi, neighbors above i always come
	from xOld.
*/
func (s *System) sweep(method types.SolverType, omega float64, xOld, xNew []float64) {
	var (
		n, NN = s.N, s.Unknowns()
		lower = xNew
	)
	if method == types.SOLVER_Jacobi {
		lower = xOld
	}
	for i := 0; i < NN; i++ {
		sum := s.B[i]
		if i >= n {
			sum -= s.D1[i-n] * lower[i-n]
		}
		if i >= 1 {
			sum -= s.D2[i-1] * lower[i-1]
		}
		if i < NN-1 {
			sum -= s.D4[i] * xOld[i+1]
		}
		if i < NN-n {
			sum -= s.D5[i] * xOld[i+n]
		}
		xNew[i] = sum / s.D3[i]
		if method == types.SOLVER_SOR {
			xNew[i] = (1-omega)*xOld[i] + omega*xNew[i]
		}
	}
}
