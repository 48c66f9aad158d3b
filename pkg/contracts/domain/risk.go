package domain

import (
	"database/sql"
	"time"
)

// RiskTier is the categorical bin of a risk score
type RiskTier string

const (
	RiskTierLow       RiskTier = "Low"
	RiskTierMedium    RiskTier = "Medium"
	RiskTierHigh      RiskTier = "High"
	RiskTierUndefined RiskTier = ""
)

// AnomalyLabel is the outcome of the outlier model for one row
type AnomalyLabel int

const (
	// AnomalyUnscored marks rows excluded because a feature was missing
	AnomalyUnscored AnomalyLabel = iota
	AnomalyNormal
	AnomalyAnomalous
)

// String returns the label name
func (l AnomalyLabel) String() string {
	switch l {
	case AnomalyNormal:
		return "Normal"
	case AnomalyAnomalous:
		return "Anomalous"
	default:
		return "Unscored"
	}
}

// IsAnomalous reports whether the row was flagged by the model
func (l AnomalyLabel) IsAnomalous() bool {
	return l == AnomalyAnomalous
}

// RiskAssessment is the scored outcome for one ticker-period
type RiskAssessment struct {
	Ticker       string          `json:"ticker"`
	PeriodEnding time.Time       `json:"period_ending"`
	Distressed   bool            `json:"distressed"`    // Altman Z below the distress threshold
	HighLeverage bool            `json:"high_leverage"` // Debt-to-Equity above the leverage threshold
	Anomaly      AnomalyLabel    `json:"anomaly"`
	AnomalyScore sql.NullFloat64 `json:"anomaly_score"`
	Score        int             `json:"risk_score"`
	Tier         RiskTier        `json:"risk_level"`
}
