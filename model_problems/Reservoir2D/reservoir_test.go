package Reservoir2D

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/reservoir/pentadiag"
	"github.com/notargets/reservoir/types"
)

func solveField(t *testing.T, n int, wells []Well, method types.SolverType, s pentadiag.Settings) *Field {
	r, err := NewReservoir(n, wells, method, s, testing.Verbose())
	require.NoError(t, err)
	f, err := r.Solve(context.Background())
	require.NoError(t, err)
	return f
}

func TestZeroRatesGiveZeroField(t *testing.T) {
	for _, n := range []int{2, 3, 7} {
		inj, prod := DefaultWells(n)
		inj.Rate, prod.Rate = 0, 0
		for _, st := range types.AllSolvers {
			f := solveField(t, n, []Well{inj, prod}, st, pentadiag.Settings{})
			pMin, pMax := f.MinMax()
			assert.Zero(t, pMin, "%s n = %d", st, n)
			assert.Zero(t, pMax, "%s n = %d", st, n)
		}
	}
}

func TestSignSwapNegatesField(t *testing.T) {
	var (
		n       = 6
		wells   = []Well{{Row: 1, Col: 1, Rate: 1}, {Row: 4, Col: 3, Rate: -1}}
		swapped = []Well{{Row: 1, Col: 1, Rate: -1}, {Row: 4, Col: 3, Rate: 1}}
	)
	for _, st := range []types.SolverType{types.SOLVER_Direct, types.SOLVER_GaussSeidel} {
		f := solveField(t, n, wells, st, pentadiag.Settings{Tolerance: 1.e-10})
		g := solveField(t, n, swapped, st, pentadiag.Settings{Tolerance: 1.e-10})
		var sum mat.Dense
		sum.Add(f.P, g.P)
		assert.InDelta(t, 0, mat.Norm(&sum, math.Inf(1)), 1.e-12, st.String())
		assert.NotZero(t, mat.Norm(f.P, math.Inf(1)))
	}
}

func TestIterativeMatchesDirect(t *testing.T) {
	var (
		n          = 5
		inj, prod  = DefaultWells(n)
		wells      = []Well{inj, prod}
		settings   = pentadiag.Settings{Tolerance: 1.e-11, Omega: 1}
		direct     = solveField(t, n, wells, types.SOLVER_Direct, settings)
		directData = direct.P.RawMatrix().Data
	)
	for _, st := range []types.SolverType{types.SOLVER_Jacobi, types.SOLVER_GaussSeidel, types.SOLVER_SOR} {
		f := solveField(t, n, wells, st, settings)
		assert.InDeltaSlice(t, directData, f.P.RawMatrix().Data, 1.e-8, st.String())
	}
}

func TestGaussSeidelNeedsFewerIterationsThanJacobi(t *testing.T) {
	var (
		n     = 5
		wells = []Well{{Row: 0, Col: 0, Rate: 1}, {Row: 4, Col: 4, Rate: 0.5}}
	)
	for _, tol := range []float64{1.e-8, 1.e-10} {
		s := pentadiag.Settings{Tolerance: tol}
		j := solveField(t, n, wells, types.SOLVER_Jacobi, s)
		g := solveField(t, n, wells, types.SOLVER_GaussSeidel, s)
		assert.Less(t, g.Stats.Iterations, j.Stats.Iterations, "tol = %g", tol)
	}
}

func TestBalancedWellsJacobiStopsFirst(t *testing.T) {
	// Zero net rate from a zero start leaves the slowest Jacobi mode, the
	// constant field, unexcited, Gauss-Seidel excites it
	for _, tc := range []struct {
		n   int
		tol float64
	}{
		{3, 1.e-5},
		{5, 1.e-8},
	} {
		inj, prod := DefaultWells(tc.n)
		s := pentadiag.Settings{Tolerance: tc.tol}
		j := solveField(t, tc.n, []Well{inj, prod}, types.SOLVER_Jacobi, s)
		g := solveField(t, tc.n, []Well{inj, prod}, types.SOLVER_GaussSeidel, s)
		assert.Greater(t, g.Stats.Iterations, j.Stats.Iterations, "n = %d, tol = %g", tc.n, tc.tol)
	}
}

func TestThreeByThreeScenario(t *testing.T) {
	var (
		wells = []Well{{Row: 0, Col: 0, Rate: 1}, {Row: 2, Col: 2, Rate: -1}}
		s     = pentadiag.Settings{Tolerance: 1.e-6}
	)
	direct := solveField(t, 3, wells, types.SOLVER_Direct, s)
	gs := solveField(t, 3, wells, types.SOLVER_GaussSeidel, s)
	assert.InDeltaSlice(t, direct.P.RawMatrix().Data, gs.P.RawMatrix().Data, 1.e-5)
	assert.Greater(t, direct.P.At(0, 0), direct.P.At(2, 2))
	assert.Greater(t, gs.P.At(0, 0), gs.P.At(2, 2))
	assert.Greater(t, direct.P.At(0, 0), 0.)
	assert.Less(t, direct.P.At(2, 2), 0.)
}

func TestReservoirErrors(t *testing.T) {
	_, err := NewReservoir(1, nil, types.SOLVER_Direct, pentadiag.Settings{}, false)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
	_, err = NewReservoir(4, []Well{{Row: 4, Col: 0}}, types.SOLVER_Direct, pentadiag.Settings{}, false)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))

	inj, prod := DefaultWells(10)
	r, err := NewReservoir(10, []Well{inj, prod}, types.SOLVER_Direct, pentadiag.Settings{MaxDenseUnknowns: 50}, false)
	require.NoError(t, err)
	_, err = r.Solve(context.Background())
	assert.True(t, errors.Is(err, types.ErrInsufficientMemory))
	// No automatic fallback, an iterative method must be requested explicitly
	f, err := r.SolveWith(context.Background(), types.SOLVER_GaussSeidel)
	require.NoError(t, err)
	assert.Equal(t, types.SOLVER_GaussSeidel, f.Method)
	assert.Equal(t, types.SOLVER_Direct, r.Method)

	r.Settings.MaxIterations = 2
	_, err = r.SolveWith(context.Background(), types.SOLVER_Jacobi)
	assert.True(t, errors.Is(err, types.ErrConvergence))
}

func TestReservoirDefaults(t *testing.T) {
	inj, prod := DefaultWells(10)
	r, err := NewReservoir(10, []Well{inj, prod}, types.SOLVER_SOR, pentadiag.Settings{}, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultTolerance, r.Settings.Tolerance)
	f, err := r.Solve(context.Background())
	require.NoError(t, err)
	nr, nc := f.P.Dims()
	assert.Equal(t, 10, nr)
	assert.Equal(t, 10, nc)
	assert.Greater(t, f.P.At(2, 2), f.P.At(7, 7))
	assert.Greater(t, f.Stats.Iterations, 1)
}

func TestWriteTable(t *testing.T) {
	f := &Field{
		Method: types.SOLVER_GaussSeidel,
		P:      pentadiag.Reshape([]float64{1, -2, 0.5, 3.25}, 2),
	}
	var buf bytes.Buffer
	require.NoError(t, f.WriteTable(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Method: Gauss-Seidel", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, ` i\j            0            1`, lines[2])
	assert.Equal(t, " 0      1.0000000   -2.0000000", lines[3])
	assert.Equal(t, " 1      0.5000000    3.2500000", lines[4])

	dir := t.TempDir()
	fileName, err := f.SaveTable(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Gauss-Seidel.txt"), fileName)
	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestSaveField(t *testing.T) {
	var (
		values   = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
		f        = &Field{Method: types.SOLVER_Direct, P: pentadiag.Reshape(values, 3)}
		fileName = filepath.Join(t.TempDir(), "p.bin")
	)
	require.NoError(t, f.SaveField(fileName))
	P, n, err := ReadField(fileName)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, values, P)
	info, err := os.Stat(fileName)
	require.NoError(t, err)
	assert.Equal(t, int64(8+9*8), info.Size())
}

func TestReadFieldRejectsBadHeader(t *testing.T) {
	var (
		dir   = t.TempDir()
		write = func(name string, n int64, values int) string {
			var buf bytes.Buffer
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, n))
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, make([]float64, values)))
			fileName := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(fileName, buf.Bytes(), 0644))
			return fileName
		}
	)
	for _, fileName := range []string{
		write("huge.bin", 1<<40, 4),
		write("overflow.bin", math.MaxInt64, 4),
		write("negative.bin", -2, 4),
		write("zero.bin", 0, 0),
		write("truncated.bin", 3, 8),
		write("long.bin", 2, 5),
	} {
		assert.NotPanics(t, func() {
			P, _, err := ReadField(fileName)
			assert.Error(t, err, fileName)
			assert.Nil(t, P)
		})
	}
	fileName := filepath.Join(dir, "odd.bin")
	require.NoError(t, os.WriteFile(fileName, append(make([]byte, 8), 1, 2, 3), 0644))
	_, _, err := ReadField(fileName)
	assert.Error(t, err)
}
