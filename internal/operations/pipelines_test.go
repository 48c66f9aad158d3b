package operations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nysecli/internal/config"
	apperrors "nysecli/internal/errors"
	"nysecli/internal/testutil"
)

func newTestEnv(t *testing.T, charts bool) *Env {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteDataset(t, filepath.Join(dir, "data"))

	cfg := config.Default()
	cfg.Paths.BaseDir = dir
	cfg.Report.Charts = charts
	paths, err := cfg.GetPaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	return NewEnv(&cfg, paths, nil, nil)
}

func runCommand(t *testing.T, env *Env, command string, opts Options) *State {
	t.Helper()
	reg, err := NewPipeline(command, env, opts)
	require.NoError(t, err)

	state := NewState("run-test", command)
	env.Reporter.Begin(command, state.RunID, "test")
	require.NoError(t, NewRunner(reg, nil, env.Logger).Run(context.Background(), state))
	_, err = env.Reporter.Finish(context.Background())
	require.NoError(t, err)
	return state
}

func assertOutputs(t *testing.T, env *Env, names ...string) {
	t.Helper()
	for _, name := range names {
		assert.FileExists(t, env.Paths.GetOutputPath(name))
	}
}

func TestNewPipeline_StepOrder(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		command string
		opts    Options
		want    []string
	}{
		{CommandMerge, Options{}, []string{StepLoad, StepMerge, StepReport}},
		{CommandMerge, Options{Clean: true, JoinPrices: true}, []string{StepLoad, StepClean, StepMerge, StepJoinPrices, StepReport}},
		{CommandRatios, Options{}, []string{StepLoad, StepMerge, StepRatios, StepReport}},
		{CommandRisk, Options{}, []string{StepLoad, StepMerge, StepRatios, StepGrowth, StepAnomalies, StepRisk, StepReport}},
		{CommandStore, Options{}, []string{StepLoad, StepMerge, StepStore}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			reg, err := NewPipeline(tt.command, env, tt.opts)
			require.NoError(t, err)
			order, err := reg.GetDependencyOrder()
			require.NoError(t, err)
			assert.Equal(t, tt.want, stepIDs(order))
		})
	}

	_, err := NewPipeline("unknown", env, Options{})
	assert.Error(t, err)
	assert.Len(t, Commands(), 7)
}

func TestPipeline_Merge(t *testing.T) {
	env := newTestEnv(t, false)
	state := runCommand(t, env, CommandMerge, Options{Clean: true, JoinPrices: true})

	assertOutputs(t, env, config.MergedCSVFileName, config.MergedPricesCSVFileName, config.RunSummaryFileName)
	assert.Equal(t, 1, state.Counts["dropped_prices"])
	assert.Equal(t, 7, state.Counts["securities_matched"])
	assert.Equal(t, 1, state.Counts["prices_matched"])
}

func TestPipeline_Ratios(t *testing.T) {
	env := newTestEnv(t, false)
	runCommand(t, env, CommandRatios, Options{})
	assertOutputs(t, env, config.RatiosCSVFileName)
}

func TestPipeline_RiskReport(t *testing.T) {
	env := newTestEnv(t, true)
	state := runCommand(t, env, CommandRisk, Options{})

	assertOutputs(t, env,
		config.RiskScoresCSVFileName, config.HighRiskCSVFileName, config.DebtRisksCSVFileName,
		config.HighDebtCSVFileName, config.IncomeDropsCSVFileName, config.InventoryRisksCSVFileName,
		config.CashFlowIssuesCSVFileName, config.AnomaliesCSVFileName)

	require.NotNil(t, state.RiskSummary)
	assert.Equal(t, 8, state.RiskSummary.Total)
	for i := range state.Periods {
		require.NotNil(t, state.Periods[i].Risk)
	}
	assert.Equal(t, 2, state.Counts["flag_high_debt"], "both BADCO years carry D/E above 2")
}

func TestPipeline_SectorReport(t *testing.T) {
	env := newTestEnv(t, true)
	state := runCommand(t, env, CommandSectors, Options{})

	assertOutputs(t, env, config.SectorCSVFileName, config.SectorDetailCSVFileName, config.SectorWorkbookFileName)
	assert.Len(t, state.Sectors, 2)
	assert.FileExists(t, filepath.Join(env.Paths.ChartsDir, "median_net_margin_by_sector.png"))
}

func TestPipeline_Valuation(t *testing.T) {
	env := newTestEnv(t, false)
	state := runCommand(t, env, CommandValuation, Options{})

	assertOutputs(t, env, config.ValuationCSVFileName)
	require.NotNil(t, state.PresentValue)
	assert.InDelta(t, 101137.22, *state.PresentValue, 0.01)
	require.NotNil(t, state.Simulation)
	assert.Len(t, state.Simulation.Draws, env.Config.Valuation.Simulations)
	for _, m := range state.Valuable {
		assert.Less(t, m.PE.Float64, env.Config.Valuation.MaxPE)
		assert.Less(t, m.PB.Float64, env.Config.Valuation.MaxPB)
	}
}

func TestPipeline_Forecast(t *testing.T) {
	env := newTestEnv(t, false)
	state := runCommand(t, env, CommandForecast, Options{})

	assertOutputs(t, env, config.RevenueForecastFileName, config.ExpenseProjectionFileName, config.ScenarioFileName)
	require.NotNil(t, state.Forecast)
	assert.Len(t, state.Forecast.Linear, env.Config.Forecast.Periods)
}

func TestPipeline_Store(t *testing.T) {
	env := newTestEnv(t, false)
	state := runCommand(t, env, CommandStore, Options{})

	assert.FileExists(t, env.Paths.DatabaseFile)
	assert.Equal(t, 8, state.Counts["db_fundamentals"])
	assert.Equal(t, 3, state.Counts["db_securities"])
}

func TestPipeline_MissingInput(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, os.Remove(env.Paths.SecuritiesCSV))

	reg, err := NewPipeline(CommandRatios, env, Options{})
	require.NoError(t, err)

	err = NewRunner(reg, nil, nil).Run(context.Background(), NewState("run-test", CommandRatios))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingFile))
	assert.NoFileExists(t, env.Paths.GetOutputPath(config.RatiosCSVFileName))
}
