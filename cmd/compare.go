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
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/reservoir/model_problems/Reservoir2D"
	"github.com/notargets/reservoir/types"
	"github.com/notargets/reservoir/utils"
)

// CompareCmd represents the compare command
var CompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Solve the same reservoir with every method and compare cost",
	Long: `
Solves one reservoir with Gaussian elimination, Gauss-Jacobi, Gauss-Seidel and SOR,
reporting the wall time and iteration count of each and the largest difference
from the direct solution.

reservoir compare -n 20 --parallel -o results`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			rc *RunConfig
		)
		if rc, err = loadRunConfig(viper.GetViper(), "compare"); err != nil {
			return
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		results, err := RunCompare(ctx, rc, cmd.OutOrStdout())
		if rc.Graph {
			var plotted bool
			for _, c := range results {
				if c.Err == nil {
					PlotField(c.Field)
					plotted = true
				}
			}
			if plotted {
				utils.Hold(0)
			}
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(CompareCmd)
	CompareCmd.Flags().Bool("parallel", false, "run the methods concurrently")
	addReservoirFlags(CompareCmd, "compare")
	bindFlags(CompareCmd, "compare", "parallel")
}

type Comparison struct {
	Method  types.SolverType
	Field   *Reservoir2D.Field
	Elapsed time.Duration
	Err     error
}

// RunCompare solves with all methods, each on its own freshly assembled system
func RunCompare(ctx context.Context, rc *RunConfig, out io.Writer) (results []Comparison, err error) {
	var (
		r  *Reservoir2D.Reservoir
		wg sync.WaitGroup
	)
	out = &lockedWriter{w: out}
	if r, err = rc.newReservoir(out); err != nil {
		return
	}
	results = make([]Comparison, len(types.AllSolvers))
	run := func(i int) {
		st := types.AllSolvers[i]
		start := time.Now()
		results[i].Method = st
		results[i].Field, results[i].Err = r.SolveWith(ctx, st)
		results[i].Elapsed = time.Since(start)
	}
	for i := range types.AllSolvers {
		if rc.Parallel {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				run(i)
			}(i)
		} else {
			run(i)
		}
	}
	wg.Wait()

	var (
		errs   []error
		direct *Reservoir2D.Field
	)
	if results[0].Err == nil {
		direct = results[0].Field
	}
	fmt.Fprintf(out, "Grid %d x %d\n", r.N, r.N)
	for _, c := range results {
		if c.Err != nil {
			fmt.Fprintf(out, "%-22s failed: %v\n", c.Method, c.Err)
			errs = append(errs, c.Err)
			continue
		}
		fmt.Fprintf(out, "%-22s %12v %8d iterations", c.Method, c.Elapsed, c.Field.Stats.Iterations)
		if direct != nil {
			fmt.Fprintf(out, ", max|p - p_direct| = %8.3e", MaxDifference(c.Field, direct))
		}
		fmt.Fprintln(out)
		if err = rc.save(c.Field); err != nil {
			return
		}
	}
	err = errors.Join(errs...)
	return
}

func MaxDifference(f, g *Reservoir2D.Field) float64 {
	return floats.Distance(f.P.RawMatrix().Data, g.P.RawMatrix().Data, math.Inf(1))
}

// lockedWriter serializes progress lines from concurrent solves
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
