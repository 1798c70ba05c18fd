package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/reservoir/model_problems/Reservoir2D"
	"github.com/notargets/reservoir/pentadiag"
	"github.com/notargets/reservoir/types"
)

// Parameters obtained from the YAML input file
type ReservoirParameters struct {
	Title           string             `json:"Title"`
	GridSize        int                `json:"GridSize"`
	Solver          string             `json:"Solver"`
	Tolerance       float64            `json:"Tolerance"`
	Omega           float64            `json:"Omega"`
	MaxIterations   int                `json:"MaxIterations"`
	InitialPressure float64            `json:"InitialPressure"` // Uniform starting guess for the iterative solvers
	Wells           []Reservoir2D.Well `json:"Wells"`
}

func (ip *ReservoirParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *ReservoirParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Grid Size\n", ip.GridSize)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("%8.5f\t\t= Omega\n", ip.Omega)
	fmt.Printf("[%d]\t\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("%8.5f\t\t= Initial Pressure\n", ip.InitialPressure)
	for i, w := range ip.Wells {
		fmt.Printf("Wells[%d] = %s\n", i, w)
	}
}

func (ip *ReservoirParameters) SolverType() (types.SolverType, error) {
	return types.NewSolverType(ip.Solver)
}

// Settings converts the solver controls, a nonzero InitialPressure becomes a uniform X0
func (ip *ReservoirParameters) Settings() (s pentadiag.Settings) {
	s = pentadiag.Settings{
		Tolerance:     ip.Tolerance,
		Omega:         ip.Omega,
		MaxIterations: ip.MaxIterations,
	}
	if ip.InitialPressure != 0 && ip.GridSize > 0 {
		s.X0 = make([]float64, ip.GridSize*ip.GridSize)
		for i := range s.X0 {
			s.X0[i] = ip.InitialPressure
		}
	}
	return
}
