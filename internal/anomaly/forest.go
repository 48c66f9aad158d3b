package anomaly

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	"nysecli/internal/config"
)

// eulerGamma is the Euler-Mascheroni constant used by the harmonic estimate
const eulerGamma = 0.5772156649

// IsolationForest isolates points with random axis-aligned splits. Points
// with short average path lengths are easier to isolate and score higher.
type IsolationForest struct {
	Trees         int
	MaxSamples    int
	Contamination float64
	Seed          uint64
}

// NewIsolationForest creates a forest from the anomaly configuration
func NewIsolationForest(cfg config.AnomalyConfig) *IsolationForest {
	return &IsolationForest{
		Trees:         cfg.Trees,
		MaxSamples:    cfg.MaxSamples,
		Contamination: cfg.Contamination,
		Seed:          cfg.Seed,
	}
}

// Name implements Detector
func (f *IsolationForest) Name() string { return "isolation_forest" }

type node struct {
	feature     int
	split       float64
	left, right *node
	size        int // leaf only
}

func (n *node) leaf() bool { return n.left == nil }

// FitPredict fits the forest on X and labels every row. The score of a
// point is 2^(-E[h(x)]/c(psi)); the offset is the contamination percentile
// of the negated scores and rows whose negated score is below it are
// anomalous.
func (f *IsolationForest) FitPredict(ctx context.Context, X [][]float64) (*Prediction, error) {
	n := len(X)
	if n == 0 {
		return &Prediction{}, nil
	}
	if f.Trees < 1 {
		return nil, errors.New("isolation forest needs at least one tree")
	}
	if f.Contamination <= 0 || f.Contamination > 0.5 {
		return nil, errors.New("contamination must be in (0, 0.5]")
	}

	psi := min(f.MaxSamples, n)
	if psi < 1 {
		psi = n
	}
	limit := int(math.Ceil(math.Log2(float64(max(psi, 2)))))
	rng := rand.New(rand.NewPCG(f.Seed, 0))

	trees := make([]*node, f.Trees)
	for t := range trees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sample := rng.Perm(n)[:psi]
		trees[t] = grow(X, sample, 0, limit, rng)
	}

	norm := averagePathLength(psi)
	pred := &Prediction{
		Scores:    make([]float64, n),
		Anomalous: make([]bool, n),
	}
	negated := make([]float64, n)
	for i, x := range X {
		var total float64
		for _, tree := range trees {
			total += pathLength(tree, x, 0)
		}
		if norm > 0 {
			pred.Scores[i] = math.Pow(2, -(total/float64(len(trees)))/norm)
		} else {
			pred.Scores[i] = 0.5
		}
		negated[i] = -pred.Scores[i]
	}

	offset := Percentile(negated, 100*f.Contamination)
	for i := range negated {
		pred.Anomalous[i] = negated[i] < offset
	}
	return pred, nil
}

// grow builds an isolation tree over the rows in idx
func grow(X [][]float64, idx []int, depth, limit int, rng *rand.Rand) *node {
	if depth >= limit || len(idx) <= 1 {
		return &node{size: len(idx)}
	}

	// Only features that still vary can split
	dims := len(X[idx[0]])
	lo := make([]float64, dims)
	hi := make([]float64, dims)
	copy(lo, X[idx[0]])
	copy(hi, X[idx[0]])
	for _, i := range idx[1:] {
		for d, v := range X[i] {
			lo[d] = math.Min(lo[d], v)
			hi[d] = math.Max(hi[d], v)
		}
	}
	var candidates []int
	for d := 0; d < dims; d++ {
		if hi[d] > lo[d] {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return &node{size: len(idx)}
	}

	feature := candidates[rng.IntN(len(candidates))]
	split := lo[feature] + rng.Float64()*(hi[feature]-lo[feature])

	var left, right []int
	for _, i := range idx {
		if X[i][feature] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature: feature,
		split:   split,
		left:    grow(X, left, depth+1, limit, rng),
		right:   grow(X, right, depth+1, limit, rng),
	}
}

// pathLength returns the depth at which x is isolated, adjusted at the leaf
// for the points the height limit left unseparated
func pathLength(n *node, x []float64, depth int) float64 {
	for !n.leaf() {
		if x[n.feature] < n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}

// averagePathLength is c(n), the average path length of an unsuccessful
// search in a binary search tree of n points
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}
