package risk

import (
	"context"
	"database/sql"
	"log/slog"

	"nysecli/internal/anomaly"
	"nysecli/internal/config"
	"nysecli/pkg/contracts/domain"
)

// Scorer combines the distress, leverage and anomaly rules into a score
type Scorer struct {
	cfg    config.RiskConfig
	logger *slog.Logger
}

// NewScorer creates a scorer with the given weights, thresholds and bins
func NewScorer(cfg config.RiskConfig, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{cfg: cfg, logger: logger}
}

// Summary counts assessments per tier
type Summary struct {
	Total  int
	ByTier map[domain.RiskTier]int
}

// Assess scores one period. An undefined Altman Z or Debt-to-Equity never
// triggers its rule; an Unscored anomaly label contributes nothing.
func (s *Scorer) Assess(p *domain.CompanyPeriod, label domain.AnomalyLabel, anomalyScore sql.NullFloat64) domain.RiskAssessment {
	a := domain.RiskAssessment{
		Ticker:       p.Record.Ticker,
		PeriodEnding: p.Record.PeriodEnding,
		Distressed:   p.Ratios.AltmanZ.Valid && p.Ratios.AltmanZ.Float64 < s.cfg.AltmanThreshold,
		HighLeverage: p.Ratios.DebtToEquity.Valid && p.Ratios.DebtToEquity.Float64 > s.cfg.LeverageThreshold,
		Anomaly:      label,
		AnomalyScore: anomalyScore,
	}

	if a.Distressed {
		a.Score += s.cfg.AltmanWeight
	}
	if a.HighLeverage {
		a.Score += s.cfg.LeverageWeight
	}
	if label.IsAnomalous() {
		a.Score += s.cfg.AnomalyWeight
	}
	a.Tier = s.Tier(a.Score)
	return a
}

// Tier bins a score: (-1, LowMax] Low, (LowMax, MediumMax] Medium and
// anything above MediumMax High. Scores at or below -1 fall outside every
// bin.
func (s *Scorer) Tier(score int) domain.RiskTier {
	v := float64(score)
	switch {
	case v <= -1:
		return domain.RiskTierUndefined
	case v <= s.cfg.LowMax:
		return domain.RiskTierLow
	case v <= s.cfg.MediumMax:
		return domain.RiskTierMedium
	default:
		return domain.RiskTierHigh
	}
}

// ScoreAll assesses every period in place. res may be nil when anomaly
// detection did not run, leaving every row Unscored.
func (s *Scorer) ScoreAll(ctx context.Context, periods []domain.CompanyPeriod, res *anomaly.Result) Summary {
	sum := Summary{Total: len(periods), ByTier: make(map[domain.RiskTier]int)}
	for i := range periods {
		label := domain.AnomalyUnscored
		var score sql.NullFloat64
		if res != nil && i < len(res.Labels) {
			label = res.Labels[i]
			score = res.Scores[i]
		}
		a := s.Assess(&periods[i], label, score)
		periods[i].Risk = &a
		sum.ByTier[a.Tier]++
	}

	s.logger.InfoContext(ctx, "Risk assessment complete",
		slog.Int("records", sum.Total),
		slog.Int("low", sum.ByTier[domain.RiskTierLow]),
		slog.Int("medium", sum.ByTier[domain.RiskTierMedium]),
		slog.Int("high", sum.ByTier[domain.RiskTierHigh]))

	return sum
}
