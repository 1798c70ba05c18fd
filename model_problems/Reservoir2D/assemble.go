package Reservoir2D

import (
	"fmt"
	"math"

	"github.com/notargets/reservoir/pentadiag"
	"github.com/notargets/reservoir/types"
)

/*
	The reservoir occupies the unit square, divided into N x N blocks. Pressure obeys

		d2p/dx2 + d2p/dy2 = -2*pi/ln(Re/Rw) * (p_well - p)

	with dp/dx = dp/dy = 0 on the four outer edges. Wells follow the Peaceman model:
	Re is the external radius of the square, Rw = 0.2*Dx is the equivalent well radius.
*/
type Model struct {
	N        int
	Dx       float64 // Block size, 1/N
	Re, Rw   float64 // External and well radii
	Coupling float64 // 2*Dx^2*pi/ln(Re/Rw), folded into the main diagonal and scaling each well rate
}

type Well struct {
	Row  int     `json:"Row"`
	Col  int     `json:"Col"`
	Rate float64 `json:"Rate"` // Positive injects, negative produces
}

func (w Well) String() string {
	return fmt.Sprintf("(%d,%d) rate %8.5f", w.Row, w.Col, w.Rate)
}

func NewModel(n int) (m *Model, err error) {
	if n < 2 {
		err = &types.ConfigurationError{Field: "n", Reason: fmt.Sprintf("grid size %d leaves no interior points, need n >= 2", n)}
		return
	}
	dx := 1. / float64(n)
	m = &Model{
		N:  n,
		Dx: dx,
		Re: math.Pow(2, -0.5),
		Rw: 0.2 * dx,
	}
	m.Coupling = 2. * dx * dx * math.Pi / math.Log(m.Re/m.Rw)
	return
}

// DefaultWells places an injector near (n/5, n/5) and a producer near (7n/10, 7n/10), both with unit rate
func DefaultWells(n int) (injector, producer Well) {
	injector = Well{Row: n / 5, Col: n / 5, Rate: 1}
	producer = Well{Row: 7 * n / 10, Col: 7 * n / 10, Rate: -1}
	return
}

// CheckWells rejects wells outside the grid and wells sharing a block
func (m *Model) CheckWells(wells []Well) (err error) {
	var (
		seen = make(map[int]int, len(wells))
	)
	for iw, w := range wells {
		if w.Row < 0 || w.Row >= m.N || w.Col < 0 || w.Col >= m.N {
			return &types.OutOfRangeError{Row: w.Row, Col: w.Col, N: m.N}
		}
		ind := w.Row*m.N + w.Col
		if prev, dup := seen[ind]; dup {
			return &types.ConfigurationError{
				Field:  "wells",
				Reason: fmt.Sprintf("wells %d and %d both sit in block (%d,%d)", prev, iw, w.Row, w.Col),
			}
		}
		seen[ind] = iw
	}
	return
}

// Assemble builds the five band system for the model and the given wells
func (m *Model) Assemble(wells ...Well) (sys *pentadiag.System, err error) {
	var (
		n = m.N
	)
	if err = m.CheckWells(wells); err != nil {
		return
	}
	sys = pentadiag.NewSystem(n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			i := row*n + col
			sys.D3[i] = -4. - m.Coupling
			// A missing neighbor is reflected onto the opposite one, which doubles its coefficient
			if row > 0 {
				sys.D1[i-n] = reflect(row == n-1)
			}
			if row < n-1 {
				sys.D5[i] = reflect(row == 0)
			}
			// D2 at column 0 and D4 at column n-1 would couple adjacent grid rows, they stay zero
			if col > 0 {
				sys.D2[i-1] = reflect(col == n-1)
			}
			if col < n-1 {
				sys.D4[i] = reflect(col == 0)
			}
		}
	}
	for _, w := range wells {
		sys.B[w.Row*n+w.Col] -= w.Rate * m.Coupling
	}
	return
}

func reflect(onBoundary bool) float64 {
	if onBoundary {
		return 2
	}
	return 1
}
