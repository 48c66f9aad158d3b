package operations

import (
	"sync"
	"time"

	"nysecli/internal/anomaly"
	"nysecli/internal/forecast"
	"nysecli/internal/loader"
	"nysecli/internal/risk"
	"nysecli/internal/sector"
	"nysecli/internal/valuation"
	"nysecli/pkg/contracts/domain"
)

// State carries the data produced by the steps of one run. Steps run one
// at a time, so the data fields are accessed without locking; mu guards
// the step states only.
type State struct {
	mu sync.RWMutex

	RunID     string
	Command   string
	StartTime time.Time
	Steps     map[string]*StepState

	// Inputs
	Dataset     *loader.Dataset
	CleanReport *loader.CleanReport

	// Analysis results
	Periods     []domain.CompanyPeriod
	Anomalies   *anomaly.Result
	RiskSummary *risk.Summary
	Sectors     []sector.Summary
	Ranking     []sector.CompanyRank

	Forecast  *forecast.RevenueForecast
	Expenses  *forecast.ExpenseProjection
	Scenarios *forecast.ScenarioAnalysis

	Multiples    []valuation.Multiple
	Valuable     []valuation.Multiple
	PresentValue *float64
	Simulation   *valuation.Simulation

	// Counts collected for the run summary
	Counts map[string]int
}

// NewState creates the state of a new run
func NewState(runID, command string) *State {
	return &State{
		RunID:     runID,
		Command:   command,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Counts:    make(map[string]int),
	}
}

// Header returns the fundamentals header, or nil before loading
func (s *State) Header() []string {
	if s.Dataset == nil || s.Dataset.Fundamentals == nil {
		return nil
	}
	return s.Dataset.Fundamentals.Header
}

// Rows is the number of fundamentals rows in flight
func (s *State) Rows() int {
	if s.Periods != nil {
		return len(s.Periods)
	}
	if s.Dataset != nil {
		return s.Dataset.Fundamentals.Len()
	}
	return 0
}

// GetStep returns the state of a specific Step
func (s *State) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[id]
}

// SetStep updates the state of a specific Step
func (s *State) SetStep(id string, st *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps[id] = st
}

// Duration returns the time since the run started
func (s *State) Duration() time.Duration {
	return time.Since(s.StartTime)
}
