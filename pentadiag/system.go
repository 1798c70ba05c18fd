package pentadiag

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
	System stores the five non-zero bands of the coefficient matrix produced by a
	five point stencil on an n x n grid, plus the right hand side:

		row i:  D1[i-n]*x[i-n] + D2[i-1]*x[i-1] + D3[i]*x[i] + D4[i]*x[i+1] + D5[i]*x[i+n] = B[i]

	Terms whose index falls outside [0,N) do not exist. Coefficients that would
	connect the last column of one grid row to the first column of the next are
	expected to be zero.
*/
type System struct {
	N      int       // Grid edge length, the system has N*N unknowns
	D1, D5 []float64 // Coefficients of x[i-n] and x[i+n], length N*N-N
	D2, D4 []float64 // Coefficients of x[i-1] and x[i+1], length N*N-1
	D3     []float64 // Main diagonal, length N*N
	B      []float64 // Right hand side, length N*N
}

// NewSystem allocates a zeroed system for an n x n grid
func NewSystem(n int) (s *System) {
	var (
		NN = n * n
	)
	s = &System{
		N:  n,
		D1: make([]float64, NN-n),
		D2: make([]float64, NN-1),
		D3: make([]float64, NN),
		D4: make([]float64, NN-1),
		D5: make([]float64, NN-n),
		B:  make([]float64, NN),
	}
	return
}

func (s *System) Unknowns() int { return s.N * s.N }

// Validate checks the band lengths against the grid size
func (s *System) Validate() (err error) {
	var (
		n, NN = s.N, s.N * s.N
	)
	switch {
	case n < 2:
		err = fmt.Errorf("pentadiag: grid edge %d is less than 2", n)
	case len(s.D3) != NN || len(s.B) != NN:
		err = fmt.Errorf("pentadiag: len(D3), len(B) = %d, %d, want %d", len(s.D3), len(s.B), NN)
	case len(s.D2) != NN-1 || len(s.D4) != NN-1:
		err = fmt.Errorf("pentadiag: len(D2), len(D4) = %d, %d, want %d", len(s.D2), len(s.D4), NN-1)
	case len(s.D1) != NN-n || len(s.D5) != NN-n:
		err = fmt.Errorf("pentadiag: len(D1), len(D5) = %d, %d, want %d", len(s.D1), len(s.D5), NN-n)
	}
	return
}

func (s *System) mustValidate() {
	if err := s.Validate(); err != nil {
		panic(err)
	}
}

// Dense places each band at its offset (-n, -1, 0, +1, +n) in an NN x NN matrix
func (s *System) Dense() (A *mat.Dense) {
	var (
		n, NN = s.N, s.Unknowns()
	)
	s.mustValidate()
	A = mat.NewDense(NN, NN, nil)
	for i := 0; i < NN; i++ {
		if i >= n {
			A.Set(i, i-n, s.D1[i-n])
		}
		if i >= 1 {
			A.Set(i, i-1, s.D2[i-1])
		}
		A.Set(i, i, s.D3[i])
		if i < NN-1 {
			A.Set(i, i+1, s.D4[i])
		}
		if i < NN-n {
			A.Set(i, i+n, s.D5[i])
		}
	}
	return
}

// FromDense extracts the five bands of A for an n x n grid. Entries of A off the five bands are ignored.
func FromDense(A mat.Matrix, b []float64, n int) (s *System, err error) {
	var (
		nr, nc = A.Dims()
		NN     = n * n
	)
	if nr != NN || nc != NN || len(b) != NN {
		err = fmt.Errorf("pentadiag: matrix is %dx%d with len(b) = %d, want %dx%d for n = %d",
			nr, nc, len(b), NN, NN, n)
		return
	}
	s = NewSystem(n)
	for i := 0; i < NN; i++ {
		if i >= n {
			s.D1[i-n] = A.At(i, i-n)
		}
		if i >= 1 {
			s.D2[i-1] = A.At(i, i-1)
		}
		s.D3[i] = A.At(i, i)
		if i < NN-1 {
			s.D4[i] = A.At(i, i+1)
		}
		if i < NN-n {
			s.D5[i] = A.At(i, i+n)
		}
	}
	copy(s.B, b)
	return
}

// Sparse returns the coefficient matrix in compressed sparse row form, zero band entries are not stored
func (s *System) Sparse() (C *sparse.CSR) {
	var (
		n, NN = s.N, s.Unknowns()
		dok   = sparse.NewDOK(NN, NN)
		set   = func(i, j int, val float64) {
			if val != 0 {
				dok.Set(i, j, val)
			}
		}
	)
	s.mustValidate()
	for i := 0; i < NN; i++ {
		if i >= n {
			set(i, i-n, s.D1[i-n])
		}
		if i >= 1 {
			set(i, i-1, s.D2[i-1])
		}
		set(i, i, s.D3[i])
		if i < NN-1 {
			set(i, i+1, s.D4[i])
		}
		if i < NN-n {
			set(i, i+n, s.D5[i])
		}
	}
	return dok.ToCSR()
}

// ResidualNorm returns ||B - A*x||_2 computed over the non-zeros of the sparse form
func (s *System) ResidualNorm(x []float64) float64 {
	var (
		r = make([]float64, s.Unknowns())
	)
	copy(r, s.B)
	s.Sparse().DoNonZero(func(i, j int, v float64) {
		r[i] -= v * x[j]
	})
	return floats.Norm(r, 2)
}

// RowSum returns the sum of all coefficients stored for row i
func (s *System) RowSum(i int) (sum float64) {
	var (
		n, NN = s.N, s.Unknowns()
	)
	sum = s.D3[i]
	if i >= n {
		sum += s.D1[i-n]
	}
	if i >= 1 {
		sum += s.D2[i-1]
	}
	if i < NN-1 {
		sum += s.D4[i]
	}
	if i < NN-n {
		sum += s.D5[i]
	}
	return
}

// Reshape copies a solution vector row-major into an n x n grid
func Reshape(x []float64, n int) (P *mat.Dense) {
	var (
		data = make([]float64, n*n)
	)
	copy(data, x)
	P = mat.NewDense(n, n, data)
	return
}
