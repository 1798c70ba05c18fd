/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/reservoir/InputParameters"
	"github.com/notargets/reservoir/model_problems/Reservoir2D"
	"github.com/notargets/reservoir/pentadiag"
	"github.com/notargets/reservoir/utils"
)

const (
	NumContours = 20
)

type RunConfig struct {
	Params           InputParameters.ReservoirParameters
	MaxDenseUnknowns int
	OutputDir        string
	Graph            bool
	Verbose          bool
	Report           int // Sweeps between progress lines when verbose
	Parallel         bool
}

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve for the reservoir pressure with one method",
	Long: `
Assembles the reservoir system for an n x n grid and solves it with the chosen method,
printing the pressure table. Wells default to an injector at (n/5, n/5) and a producer
at (7n/10, 7n/10), or can be given as row,col,rate.

reservoir solve -n 10 -m gauss-seidel --injector 2,2,1 --producer 7,7,-1`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			rc *RunConfig
		)
		if rc, err = loadRunConfig(viper.GetViper(), "solve"); err != nil {
			return
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		f, err := RunSolve(ctx, rc, cmd.OutOrStdout())
		if err != nil {
			return
		}
		if rc.Graph {
			PlotField(f)
			utils.Hold(0)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("method", "m", "direct", "solver: direct, jacobi, gauss-seidel or sor")
	addReservoirFlags(SolveCmd, "solve")
	bindFlags(SolveCmd, "solve", "method")
}

func addReservoirFlags(c *cobra.Command, key string) {
	c.Flags().IntP("n", "n", 10, "number of blocks along each side of the reservoir")
	c.Flags().Float64P("tolerance", "t", Reservoir2D.DefaultTolerance, "iterative convergence tolerance on max|x_new - x_old|")
	c.Flags().Float64P("omega", "w", pentadiag.DefaultOmega, "SOR relaxation factor, 0 < omega < 2")
	c.Flags().Int("maxIterations", 0, "iteration limit for the iterative methods, 0 is unbounded")
	c.Flags().Int("maxDenseUnknowns", pentadiag.DefaultMaxDenseUnknowns, "largest n*n the direct method will expand to a dense matrix")
	c.Flags().String("injector", "", "injector well as row,col,rate")
	c.Flags().String("producer", "", "producer well as row,col,rate")
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML file with GridSize, Solver, Tolerance, Omega, MaxIterations, InitialPressure and Wells")
	c.Flags().StringP("outputDir", "o", "", "directory for the <method>.txt tables and <method>.bin fields")
	c.Flags().BoolP("verbose", "v", false, "print the model and progress of the iterations")
	c.Flags().Int("report", 100, "sweeps between progress lines in verbose mode")
	c.Flags().BoolP("graph", "g", false, "display the shaded pressure and its contours for each method when done")
	bindFlags(c, key, "n", "tolerance", "omega", "maxIterations", "maxDenseUnknowns",
		"injector", "producer", "inputConditionsFile", "outputDir", "verbose", "report", "graph")
}

func bindFlags(c *cobra.Command, key string, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(key+"."+name, c.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadRunConfig collects flags, config file and environment under key. An input file
// overrides them, wells given in the file replace the injector and producer flags.
func loadRunConfig(v *viper.Viper, key string) (rc *RunConfig, err error) {
	var (
		get = func(name string) string { return key + "." + name }
	)
	rc = &RunConfig{
		Params: InputParameters.ReservoirParameters{
			GridSize:      v.GetInt(get("n")),
			Solver:        v.GetString(get("method")),
			Tolerance:     v.GetFloat64(get("tolerance")),
			Omega:         v.GetFloat64(get("omega")),
			MaxIterations: v.GetInt(get("maxIterations")),
		},
		MaxDenseUnknowns: v.GetInt(get("maxDenseUnknowns")),
		OutputDir:        v.GetString(get("outputDir")),
		Graph:            v.GetBool(get("graph")),
		Verbose:          v.GetBool(get("verbose")),
		Report:           v.GetInt(get("report")),
		Parallel:         v.GetBool(get("parallel")),
	}
	if fileName := v.GetString(get("inputConditionsFile")); fileName != "" {
		var data []byte
		if data, err = os.ReadFile(fileName); err != nil {
			return
		}
		if err = rc.Params.Parse(data); err != nil {
			err = fmt.Errorf("reading %s: %w", fileName, err)
			return
		}
	}
	if len(rc.Params.Wells) != 0 {
		return
	}
	inj, prod := Reservoir2D.DefaultWells(rc.Params.GridSize)
	if s := v.GetString(get("injector")); s != "" {
		if inj, err = ParseWell(s); err != nil {
			return
		}
	}
	if s := v.GetString(get("producer")); s != "" {
		if prod, err = ParseWell(s); err != nil {
			return
		}
	}
	rc.Params.Wells = []Reservoir2D.Well{inj, prod}
	return
}

// ParseWell reads a well given as row,col,rate
func ParseWell(s string) (w Reservoir2D.Well, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		err = fmt.Errorf("well %q must be row,col,rate", s)
		return
	}
	if w.Row, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		return
	}
	if w.Col, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return
	}
	w.Rate, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	return
}

// newReservoir builds the model, verbose progress lines go to out
func (rc *RunConfig) newReservoir(out io.Writer) (r *Reservoir2D.Reservoir, err error) {
	var (
		ip = &rc.Params
		s  = ip.Settings()
	)
	st, _ := ip.SolverType()
	s.MaxDenseUnknowns = rc.MaxDenseUnknowns
	if rc.Verbose && rc.Report > 0 {
		s.Observer = func(p pentadiag.Progress) {
			if p.Iteration%rc.Report == 0 {
				fmt.Fprintf(out, "%s: iteration %d, delta = %8.3e\n", p.Method, p.Iteration, p.Delta)
			}
		}
	}
	return Reservoir2D.NewReservoir(ip.GridSize, ip.Wells, st, s, rc.Verbose)
}

func RunSolve(ctx context.Context, rc *RunConfig, out io.Writer) (f *Reservoir2D.Field, err error) {
	var (
		r *Reservoir2D.Reservoir
	)
	if _, err = rc.Params.SolverType(); err != nil {
		return
	}
	if rc.Verbose {
		rc.Params.Print()
	}
	if r, err = rc.newReservoir(out); err != nil {
		return
	}
	if f, err = r.Solve(ctx); err != nil {
		return
	}
	if err = f.WriteTable(out); err != nil {
		return
	}
	err = rc.save(f)
	return
}

func (rc *RunConfig) save(f *Reservoir2D.Field) (err error) {
	if rc.OutputDir == "" {
		return
	}
	if err = os.MkdirAll(rc.OutputDir, 0755); err != nil {
		return
	}
	if _, err = f.SaveTable(rc.OutputDir); err != nil {
		return
	}
	return f.SaveField(filepath.Join(rc.OutputDir, f.Method.String()+".bin"))
}

// PlotField opens a shaded pressure window and a contour window for f
func PlotField(f *Reservoir2D.Field) {
	utils.PlotPressure(f.P, f.Method.String()+": pressure", 0, 0)
	utils.PlotContour(f.P, f.Method.String()+": pressure contours", NumContours)
}
