package pentadiag

import (
	"time"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/reservoir/types"
)

/*
	Direct solves A*x = b by Gaussian elimination with partial pivoting on the dense
	augmented matrix [A | b], then back-substitution.

	Each pivot row is normalized so the eliminated matrix carries a unit diagonal. When
	every candidate pivot in a column is exactly zero the column is skipped and
	elimination moves to the next column with the same pivot row. No error is raised in
	that case; the count is reported in Stats.SkippedPivots and the returned x solves
	the system only if SkippedPivots is zero.
*/
func Direct(sys *System, s Settings) (res Result, err error) {
	var (
		NN = sys.Unknowns()
		nc = NN + 1
		C  mat.Dense
	)
	sys.mustValidate()
	s.setDefaults()
	res.Stats.StartTime = time.Now()
	if NN > s.MaxDenseUnknowns {
		err = &types.InsufficientMemoryError{
			Unknowns: NN,
			Bytes:    int64(NN) * int64(nc) * 8,
			Limit:    s.MaxDenseUnknowns,
		}
		return
	}
	b := make([]float64, NN)
	copy(b, sys.B)
	C.Augment(sys.Dense(), mat.NewVecDense(NN, b))

	var (
		raw    = C.RawMatrix()
		stride = raw.Stride
		rowVec = func(i, j int) blas64.Vector { // Row i from column j to the right hand side
			return blas64.Vector{N: nc - j, Inc: 1, Data: raw.Data[i*stride+j : i*stride+nc]}
		}
		i int
	)
	for j := 0; j < NN && i < NN; j++ {
		res.Stats.Iterations++
		col := blas64.Vector{N: NN - i, Inc: stride, Data: raw.Data[i*stride+j:]}
		maxi := i + blas64.Iamax(col)
		pivot := raw.Data[maxi*stride+j]
		if pivot == 0 {
			res.Stats.SkippedPivots++
			continue
		}
		if maxi != i {
			blas64.Swap(rowVec(i, 0), rowVec(maxi, 0))
		}
		blas64.Scal(1./pivot, rowVec(i, j))
		for u := i + 1; u < NN; u++ {
			if f := raw.Data[u*stride+j]; f != 0 {
				blas64.Axpy(-f, rowVec(i, j), rowVec(u, j))
			}
		}
		i++
	}

	x := make([]float64, NN)
	for k := NN - 1; k >= 0; k-- {
		rk := raw.Data[k*stride : k*stride+nc]
		x[k] = rk[NN]
		if k < NN-1 {
			x[k] -= blas64.Dot(
				blas64.Vector{N: NN - k - 1, Inc: 1, Data: rk[k+1 : NN]},
				blas64.Vector{N: NN - k - 1, Inc: 1, Data: x[k+1:]},
			)
		}
	}
	res.X = x
	res.Stats.ResidualNorm = sys.ResidualNorm(x)
	res.Stats.Runtime = time.Since(res.Stats.StartTime)
	return
}
