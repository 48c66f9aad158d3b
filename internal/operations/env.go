package operations

import (
	"log/slog"

	"nysecli/internal/charts"
	"nysecli/internal/config"
	"nysecli/internal/infrastructure"
	"nysecli/internal/report"
)

// Env holds the shared dependencies of the steps of one command
type Env struct {
	Config   *config.Config
	Paths    *config.Paths
	Logger   *slog.Logger
	Metrics  *infrastructure.PipelineMetrics
	Reporter *report.Reporter
	Charts   *charts.Renderer // nil disables charts
}

// NewEnv wires the reporter and, when enabled, the chart renderer
func NewEnv(cfg *config.Config, paths *config.Paths, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	env := &Env{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		Metrics:  metrics,
		Reporter: report.NewReporter(paths, cfg.Report, logger),
	}
	env.Reporter.SetRecorder(metrics.RecordOutput)
	if cfg.Report.Charts {
		env.Charts = charts.NewRenderer(paths, logger)
	}
	return env
}
