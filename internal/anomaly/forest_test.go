package anomaly

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nysecli/internal/config"
)

func newForest() *IsolationForest {
	return NewIsolationForest(config.Default().Anomaly)
}

func cluster(n int, seed uint64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, 1))
	X := make([][]float64, n)
	for i := range X {
		X[i] = []float64{rng.NormFloat64() * 0.1, rng.NormFloat64() * 0.1, rng.NormFloat64() * 0.1}
	}
	return X
}

func TestAveragePathLength(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2*(0.6931471805599453+eulerGamma) - 4.0/3},
		{256, 10.244770920116851},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, averagePathLength(tt.n), 1e-6, "n=%d", tt.n)
	}
}

func TestIsolationForest_FlagsOutlier(t *testing.T) {
	X := append(cluster(100, 7), []float64{10, 10, 10})

	pred, err := newForest().FitPredict(context.Background(), X)
	require.NoError(t, err)
	require.Len(t, pred.Scores, 101)

	assert.True(t, pred.Anomalous[100], "far point is anomalous")
	for i := 0; i < 100; i++ {
		assert.Less(t, pred.Scores[i], pred.Scores[100])
	}
}

func TestIsolationForest_Deterministic(t *testing.T) {
	X := cluster(300, 3)

	first, err := newForest().FitPredict(context.Background(), X)
	require.NoError(t, err)
	second, err := newForest().FitPredict(context.Background(), X)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := newForest()
	other.Seed = 7
	third, err := other.FitPredict(context.Background(), X)
	require.NoError(t, err)
	assert.NotEqual(t, first.Scores, third.Scores)
}

func TestIsolationForest_ContaminationShare(t *testing.T) {
	X := cluster(400, 11)

	pred, err := newForest().FitPredict(context.Background(), X)
	require.NoError(t, err)

	flagged := 0
	for _, a := range pred.Anomalous {
		if a {
			flagged++
		}
	}
	assert.InDelta(t, 20, flagged, 2, "about 5%% of 400 rows")
}

func TestIsolationForest_Edges(t *testing.T) {
	f := newForest()

	pred, err := f.FitPredict(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pred.Scores)

	pred, err = f.FitPredict(context.Background(), [][]float64{{1, 2}})
	require.NoError(t, err)
	assert.False(t, pred.Anomalous[0])

	// Identical rows cannot be split
	pred, err = f.FitPredict(context.Background(), [][]float64{{1, 1}, {1, 1}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false}, pred.Anomalous)

	f.Contamination = 0
	_, err = f.FitPredict(context.Background(), [][]float64{{1, 2}, {3, 4}})
	assert.Error(t, err)
}

func TestIsolationForest_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newForest().FitPredict(ctx, cluster(10, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercentile(t *testing.T) {
	values := []float64{4, 1, 3, 2, 5}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{100, 5},
		{5, 1.2},
		{25, 2},
		{90, 4.6},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(values, tt.p), 1e-12, "p=%v", tt.p)
	}
	assert.Equal(t, []float64{4, 1, 3, 2, 5}, values, "input is not sorted in place")
	assert.True(t, Percentile(nil, 50) != Percentile(nil, 50), "empty input is NaN")
}
