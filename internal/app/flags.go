package app

import (
	"flag"
	"io"

	"nysecli/internal/config"
	"nysecli/internal/loader"
	"nysecli/internal/operations"
)

// Flags are the command line switches of a command binary
type Flags struct {
	ConfigFile string
	DataDir    string
	OutputDir  string
	Clean      bool
	JoinPrices bool
	Ticker     string
}

// tickerCommands accept -ticker
var tickerCommands = map[string]bool{
	operations.CommandForecast:  true,
	operations.CommandValuation: true,
	operations.CommandStore:     true,
}

// ParseFlags parses args for command. Switches that don't apply to the
// command are not registered, so passing them is a usage error.
func ParseFlags(command string, args []string, output io.Writer) (*Flags, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(output)

	var f Flags
	fs.StringVar(&f.ConfigFile, "config", "", "YAML config file (default $"+config.ConfigFileEnv+" or "+config.DefaultConfigFile+")")
	fs.StringVar(&f.DataDir, "data", "", "directory holding the input CSV files")
	fs.StringVar(&f.OutputDir, "out", "", "directory for reports and charts")
	fs.BoolVar(&f.Clean, "clean", false, "drop incomplete fundamentals and unlisted prices before the analysis")
	if command == operations.CommandMerge {
		fs.BoolVar(&f.JoinPrices, "prices", false, "also join the close price on each period end date")
	}
	if tickerCommands[command] {
		fs.StringVar(&f.Ticker, "ticker", "", "ticker to analyze")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &f, nil
}

// Options returns the pipeline options selected by the flags
func (f *Flags) Options() operations.Options {
	return operations.Options{Clean: f.Clean, JoinPrices: f.JoinPrices}
}

// Apply overlays the flags onto cfg. Flags win over file and environment.
func (f *Flags) Apply(command string, cfg *config.Config) {
	if f.DataDir != "" {
		cfg.Paths.DataDir = f.DataDir
	}
	if f.OutputDir != "" {
		cfg.Paths.OutputDir = f.OutputDir
	}
	ticker := loader.NormalizeTicker(f.Ticker)
	if ticker == "" {
		return
	}
	switch command {
	case operations.CommandForecast:
		cfg.Forecast.Ticker = ticker
	case operations.CommandValuation:
		cfg.Valuation.Ticker = ticker
	case operations.CommandStore:
		cfg.Store.QueryTicker = ticker
	}
}
