package valuation

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	apperrors "nysecli/internal/errors"
)

// Simulation is the outcome of a Monte Carlo revenue run
type Simulation struct {
	Mean        float64
	Std         float64 // population standard deviation of the history
	Target      float64
	Probability float64 // share of draws above Target
	Draws       []float64
}

// MonteCarlo draws n revenues from a normal distribution fitted to history
// and reports the share of draws above target. The same seed always yields
// the same draws.
func MonteCarlo(history []float64, n int, seed uint64, target float64) (*Simulation, error) {
	if len(history) == 0 {
		return nil, apperrors.NewInsufficientDataError("monte carlo needs a revenue history", nil)
	}
	if n < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one draw, got %d", n)
	}

	mean, std := stat.PopMeanStdDev(history, nil)
	rng := rand.New(rand.NewPCG(seed, 0))

	sim := &Simulation{Mean: mean, Std: std, Target: target, Draws: make([]float64, n)}
	above := 0
	for i := range sim.Draws {
		sim.Draws[i] = rng.NormFloat64()*std + mean
		if sim.Draws[i] > target {
			above++
		}
	}
	sim.Probability = float64(above) / float64(n)
	return sim, nil
}
