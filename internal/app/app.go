package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"nysecli/internal/config"
	apperrors "nysecli/internal/errors"
	"nysecli/internal/infrastructure"
	"nysecli/internal/operations"
	"nysecli/internal/report"
	"nysecli/internal/validation"
	"nysecli/pkg/contracts"
)

// shutdownTimeout bounds flushing telemetry after a run
const shutdownTimeout = 5 * time.Second

// Exit codes returned by Main
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Application is one command run with its wired dependencies
type Application struct {
	Command       string
	RunID         string
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	Env           *operations.Env
}

// NewApplication loads the configuration, applies the flags and
// initializes logging, telemetry and the output directories
func NewApplication(ctx context.Context, command string, flags *Flags) (*Application, error) {
	if flags == nil {
		flags = &Flags{}
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	flags.Apply(command, cfg)

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Log and trace files live under the base directory unless absolute
	cfg.Logging.FilePath = underBase(paths.BaseDir, cfg.Logging.FilePath)
	cfg.Telemetry.TraceFile = underBase(paths.BaseDir, cfg.Telemetry.TraceFile)
	if cfg.Telemetry.MetricsFile != "" {
		cfg.Telemetry.MetricsFile = underBase(paths.BaseDir, cfg.Telemetry.MetricsFile)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	runID := uuid.NewString()
	ctx = infrastructure.WithTraceID(ctx, runID)
	logger = infrastructure.WithComponent(logger, command)

	logger.InfoContext(ctx, "Command starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()),
		slog.String("command", command),
		slog.Any("build", contracts.GetVersionInfo()))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(ctx, cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &Application{
		Command:       command,
		RunID:         runID,
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Env:           operations.NewEnv(cfg, paths, metrics, logger),
	}, nil
}

// Run executes the command pipeline and writes the run summary. A failed
// run writes no summary.
func (a *Application) Run(ctx context.Context, opts operations.Options) (*report.RunSummary, error) {
	ctx = infrastructure.WithTraceID(ctx, a.RunID)

	if err := a.preflight(); err != nil {
		return nil, err
	}

	reg, err := operations.NewPipeline(a.Command, a.Env, opts)
	if err != nil {
		return nil, err
	}

	state := operations.NewState(a.RunID, a.Command)
	a.Env.Reporter.Begin(a.Command, a.RunID, contracts.Version)

	if err := operations.NewRunner(reg, a.Metrics, a.Logger).Run(ctx, state); err != nil {
		return nil, err
	}

	for name, n := range state.Counts {
		a.Env.Reporter.Count(name, n)
	}
	return a.Env.Reporter.Finish(ctx)
}

// preflight checks the data directory, every input file of the command and
// that the output directory accepts writes
func (a *Application) preflight() error {
	v := validation.NewFileValidator(a.Logger)
	if err := v.ValidateInputDirectory(a.Paths.DataDir); err != nil {
		return err
	}
	src, err := operations.Sources(a.Command, a.Env)
	if err != nil {
		return err
	}
	if err := v.ValidateSources(src); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(a.Paths.OutputDir)
}

// Stop flushes telemetry and closes the log file
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Main runs command with the given arguments and returns the process exit
// code. It is the whole body of every command binary.
func Main(command string, args []string) int {
	flags, err := ParseFlags(command, args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := NewApplication(ctx, command, flags)
	if err != nil {
		slog.Error("Failed to initialize",
			slog.String("command", command),
			slog.String("error", err.Error()))
		return ExitError
	}
	defer func() {
		if err := application.Stop(context.Background()); err != nil {
			slog.Error("Shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx = infrastructure.WithTraceID(ctx, application.RunID)
	start := time.Now()

	summary, err := application.Run(ctx, flags.Options())
	if err != nil {
		if operations.IsCancellationError(err) {
			application.Logger.WarnContext(ctx, "Command cancelled",
				slog.String("command", command),
				slog.String("error", err.Error()))
			return ExitError
		}
		infrastructure.WithError(application.Logger, err).ErrorContext(ctx, "Command failed",
			slog.String("command", command),
			slog.String("failure", failureKind(err)),
			slog.Bool("fatal", apperrors.IsFatal(err)))
		return ExitError
	}

	application.Logger.InfoContext(ctx, "Command finished",
		slog.String("command", command),
		slog.Int("outputs", len(summary.Outputs)),
		slog.Duration("duration", time.Since(start)))
	return ExitOK
}

func underBase(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// failureKind classifies a failed run for the exit log
func failureKind(err error) string {
	switch {
	case operations.IsCancellationError(err):
		return "cancelled"
	case operations.IsValidationError(err):
		return "validation"
	case operations.IsDependencyError(err):
		return "dependency"
	case apperrors.IsFatal(err):
		return "input"
	default:
		return "execution"
	}
}
