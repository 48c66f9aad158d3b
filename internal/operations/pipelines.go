package operations

import (
	"fmt"
	"sort"

	"nysecli/internal/loader"
	"nysecli/pkg/contracts/domain"
)

// Command names
const (
	CommandMerge     = "merge"
	CommandRatios    = "ratios"
	CommandSectors   = "sector-report"
	CommandRisk      = "risk-report"
	CommandValuation = "valuation"
	CommandForecast  = "forecast"
	CommandStore     = "store"
)

// StepReport is the ID of the final report step of every command
const StepReport = "report"

// Options are the command line switches shared by the commands
type Options struct {
	Clean      bool // drop incomplete rows and unlisted prices first
	JoinPrices bool // merge only: also write the price join
}

// ratioColumns are needed by every command that derives ratios
var ratioColumns = []string{domain.ColTotalRevenue, domain.ColNetIncome}

type pipeline struct {
	fundamentals []string
	securities   []string
	prices       func(env *Env) string
	build        func(env *Env, opts Options) []Step
}

func splitPrices(env *Env) string { return env.Paths.PricesSplitCSV }

var pipelines = map[string]pipeline{
	CommandMerge: {
		prices: func(env *Env) string { return env.Paths.PricesCSV },
		build: func(env *Env, opts Options) []Step {
			writers := []ReportWriter{WriteMerged}
			deps := []string{StepMerge}
			var steps []Step
			if opts.JoinPrices {
				steps = append(steps, NewJoinPricesStep(env))
				writers = append(writers, WritePrices)
				deps = []string{StepJoinPrices}
			}
			return append(steps, NewReportStep(env, StepReport, "Write Merged Tables", deps, writers...))
		},
	},
	CommandRatios: {
		fundamentals: ratioColumns,
		build: func(env *Env, opts Options) []Step {
			return []Step{
				NewRatiosStep(env),
				NewReportStep(env, StepReport, "Write Ratios", []string{StepRatios}, WriteRatios),
			}
		},
	},
	CommandSectors: {
		fundamentals: ratioColumns,
		securities:   []string{domain.ColGICSSector},
		build: func(env *Env, opts Options) []Step {
			return []Step{
				NewRatiosStep(env),
				NewSectorStep(env),
				NewReportStep(env, StepReport, "Write Sector Reports", []string{StepSectors}, WriteSectors, WriteSectorCharts),
			}
		},
	},
	CommandRisk: {
		fundamentals: ratioColumns,
		build: func(env *Env, opts Options) []Step {
			return []Step{
				NewRatiosStep(env),
				NewGrowthStep(env),
				NewAnomalyStep(env),
				NewRiskStep(env),
				NewReportStep(env, StepReport, "Write Risk Reports", []string{StepRisk, StepGrowth}, WriteRisk, WriteRiskCharts),
			}
		},
	},
	CommandValuation: {
		fundamentals: []string{domain.ColEPS, domain.ColTotalEquity, domain.ColSharesOutstanding, domain.ColTotalRevenue},
		prices:       splitPrices,
		build: func(env *Env, opts Options) []Step {
			return []Step{
				NewValuationStep(env),
				NewReportStep(env, StepReport, "Write Valuation", []string{StepValuation}, WriteValuation, WriteValuationCharts),
			}
		},
	},
	CommandForecast: {
		fundamentals: []string{domain.ColTotalRevenue},
		build: func(env *Env, opts Options) []Step {
			return []Step{
				NewForecastStep(env),
				NewReportStep(env, StepReport, "Write Forecasts", []string{StepForecast}, WriteForecast, WriteForecastChart),
			}
		},
	},
	CommandStore: {
		fundamentals: ratioColumns,
		prices:       splitPrices,
		build: func(env *Env, opts Options) []Step {
			return []Step{NewStoreStep(env)}
		},
	},
}

// Commands lists the command names
func Commands() []string {
	names := make([]string, 0, len(pipelines))
	for name := range pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources returns the input files a command reads
func Sources(command string, env *Env) (loader.Sources, error) {
	p, ok := pipelines[command]
	if !ok {
		return loader.Sources{}, fmt.Errorf("unknown command %q", command)
	}
	src := loader.Sources{
		Fundamentals:        env.Paths.FundamentalsCSV,
		Securities:          env.Paths.SecuritiesCSV,
		FundamentalsColumns: p.fundamentals,
		SecuritiesColumns:   p.securities,
	}
	if p.prices != nil {
		src.Prices = p.prices(env)
	}
	return src, nil
}

// NewPipeline registers the steps of command
func NewPipeline(command string, env *Env, opts Options) (*Registry, error) {
	p, ok := pipelines[command]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", command)
	}
	src, err := Sources(command, env)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	steps := []Step{NewLoadStep(env, src)}
	var merge Step = NewMergeStep(env)
	if opts.Clean {
		steps = append(steps, NewCleanStep(env))
		merge = After(merge, StepClean)
	}
	steps = append(steps, merge)
	steps = append(steps, p.build(env, opts)...)

	for _, s := range steps {
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	if err := reg.ValidateDependencies(); err != nil {
		return nil, err
	}
	return reg, nil
}
