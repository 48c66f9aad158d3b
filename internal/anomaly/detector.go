package anomaly

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"nysecli/internal/ratios"
	"nysecli/pkg/contracts/domain"
)

// MinFeatures is the number of features that must carry values
const MinFeatures = 2

// Detector is an outlier model fit and applied to one feature matrix
type Detector interface {
	Name() string
	FitPredict(ctx context.Context, X [][]float64) (*Prediction, error)
}

// Prediction is aligned with the rows of the fitted matrix
type Prediction struct {
	Scores    []float64
	Anomalous []bool
}

// Result is aligned with the periods passed to Detect
type Result struct {
	Model    string
	Features []string // features that carried values and were used
	Labels   []domain.AnomalyLabel
	Scores   []sql.NullFloat64
	Scored   int
	Flagged  int
}

// Detect labels every period with det, using the named ratio features.
// Features without a single defined value are dropped; when fewer than
// MinFeatures remain every row is Unscored. Rows missing any used feature
// are excluded from fitting and reported as Unscored.
func Detect(ctx context.Context, periods []domain.CompanyPeriod, features []string, det Detector, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, name := range features {
		if !domain.IsRatioName(name) {
			return nil, fmt.Errorf("unknown anomaly feature %q", name)
		}
	}

	res := &Result{
		Model:  det.Name(),
		Labels: make([]domain.AnomalyLabel, len(periods)),
		Scores: make([]sql.NullFloat64, len(periods)),
	}

	res.Features = availableFeatures(periods, features)
	if len(res.Features) < MinFeatures {
		logger.WarnContext(ctx, "Not enough features for anomaly detection",
			slog.Any("available", res.Features),
			slog.Int("required", MinFeatures))
		return res, nil
	}

	var X [][]float64
	var rows []int
	for i := range periods {
		if x, ok := featureRow(periods[i].Ratios, res.Features); ok {
			X = append(X, x)
			rows = append(rows, i)
		}
	}
	if len(X) == 0 {
		return res, nil
	}

	pred, err := det.FitPredict(ctx, X)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", det.Name(), err)
	}

	for k, i := range rows {
		res.Scores[i] = sql.NullFloat64{Float64: pred.Scores[k], Valid: true}
		if pred.Anomalous[k] {
			res.Labels[i] = domain.AnomalyAnomalous
			res.Flagged++
		} else {
			res.Labels[i] = domain.AnomalyNormal
		}
	}
	res.Scored = len(rows)

	logger.InfoContext(ctx, "Anomaly detection complete",
		slog.String("model", res.Model),
		slog.Any("features", res.Features),
		slog.Int("scored", res.Scored),
		slog.Int("unscored", len(periods)-res.Scored),
		slog.Int("anomalies", res.Flagged))

	return res, nil
}

func availableFeatures(periods []domain.CompanyPeriod, features []string) []string {
	var out []string
	for _, name := range features {
		for i := range periods {
			if v, _ := ratios.Lookup(periods[i].Ratios, name); v.Valid {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func featureRow(r domain.DerivedRatios, features []string) ([]float64, bool) {
	x := make([]float64, len(features))
	for j, name := range features {
		v, _ := ratios.Lookup(r, name)
		if !v.Valid {
			return nil, false
		}
		x[j] = v.Float64
	}
	return x, true
}
