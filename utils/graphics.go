package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	"github.com/notargets/avs/screen"
	utils2 "github.com/notargets/avs/utils"
	"gonum.org/v1/gonum/mat"
)

// MakePlotMesh triangulates the n x n block centers on the unit square,
// vertex row*n+col sits at (col/(n-1), row/(n-1)), two triangles per cell
func MakePlotMesh(n int) (gm geometry.TriMesh) {
	var (
		h = 1. / float64(n-1)
		K = 2 * (n - 1) * (n - 1)
	)
	if n < 2 {
		panic(fmt.Errorf("plot mesh needs at least 2 points per side, have %d", n))
	}
	gm = geometry.TriMesh{
		XY:       make([]float32, 2*n*n),
		TriVerts: make([][3]int64, 0, K),
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			i := row*n + col
			gm.XY[2*i] = float32(float64(col) * h)
			gm.XY[2*i+1] = float32(float64(row) * h)
		}
	}
	for row := 0; row < n-1; row++ {
		for col := 0; col < n-1; col++ {
			var (
				v0 = int64(row*n + col)
				v1 = v0 + 1
				v2 = v0 + int64(n) + 1
				v3 = v0 + int64(n)
			)
			// Counter clockwise
			gm.TriVerts = append(gm.TriVerts, [3]int64{v0, v1, v2}, [3]int64{v0, v2, v3})
		}
	}
	return
}

// PressureValues converts the grid to float32 vertex values in mesh order
func PressureValues(P *mat.Dense) (field []float32) {
	var (
		n, _ = P.Dims()
	)
	field = make([]float32, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			field[row*n+col] = float32(P.At(row, col))
		}
	}
	return
}

// FieldRange returns the plotting range of P, widened when the field is constant
func FieldRange(P *mat.Dense) (fMin, fMax float64) {
	fMin, fMax = mat.Min(P), mat.Max(P)
	if fMax == fMin {
		fMin, fMax = fMin-0.5, fMax+0.5
	}
	return
}

var (
	chart     *chart2d.Chart2D
	chartOnce sync.Once
)

// All plots share one screen, its default window shows the grid
func getChart(gm geometry.TriMesh) *chart2d.Chart2D {
	chartOnce.Do(func() {
		chart = chart2d.NewChart2D(0, 1, 0, 1, 1024, 1024, utils2.WHITE, utils2.BLACK)
		chart.AddTriMesh(gm)
	})
	return chart
}

func vertexScalar(P *mat.Dense) (gm geometry.TriMesh, vs geometry.VertexScalar) {
	var (
		n, _ = P.Dims()
	)
	gm = MakePlotMesh(n)
	vs = geometry.VertexScalar{
		TMesh:       &gm,
		FieldValues: PressureValues(P),
	}
	return
}

// PlotPressure shades the field over its mesh in a new window titled title.
// A zero range is replaced by FieldRange.
func PlotPressure(P *mat.Dense, title string, FMin, FMax float64) {
	gm, vs := vertexScalar(P)
	if FMin == 0 && FMax == 0 {
		FMin, FMax = FieldRange(P)
	}
	ch := getChart(gm)
	ch.NewWindow(title, 0.9, screen.AUTO)
	ch.AddShadedVertexScalar(&vs, float32(FMin), float32(FMax))
	ch.AddTriMesh(gm)
}

// PlotContour draws numContours iso-pressure lines in a new window titled title
func PlotContour(P *mat.Dense, title string, numContours int) {
	gm, vs := vertexScalar(P)
	fMin, fMax := FieldRange(P)
	ch := getChart(gm)
	ch.NewWindow(title, 0.9, screen.AUTO)
	ch.AddContourVertexScalar(&vs, float32(fMin), float32(fMax), numContours)
}

// Hold keeps the windows open, zero blocks forever
func Hold(hold time.Duration) {
	if hold == 0 {
		select {}
	}
	time.Sleep(hold)
}
