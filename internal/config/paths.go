package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	ChartsDir string
	LogsDir   string

	// Input files
	FundamentalsCSV string
	SecuritiesCSV   string
	PricesCSV       string
	PricesSplitCSV  string

	// Well-known output files
	DatabaseFile string
}

// GetPaths resolves the configured directories and file names into absolute
// paths. Relative entries are taken relative to BaseDir, which itself
// defaults to the current working directory.
func (c *Config) GetPaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(dir, p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	dataDir := resolve(base, c.Paths.DataDir)
	outputDir := resolve(base, c.Paths.OutputDir)
	chartsDir := filepath.Join(outputDir, ChartsDirName)
	if c.Paths.ChartsDir != "" {
		chartsDir = resolve(base, c.Paths.ChartsDir)
	}

	return &Paths{
		BaseDir:   base,
		DataDir:   dataDir,
		OutputDir: outputDir,
		ChartsDir: chartsDir,
		LogsDir:   resolve(base, c.Paths.LogsDir),

		FundamentalsCSV: resolve(dataDir, c.Paths.FundamentalsFile),
		SecuritiesCSV:   resolve(dataDir, c.Paths.SecuritiesFile),
		PricesCSV:       resolve(dataDir, c.Paths.PricesFile),
		PricesSplitCSV:  resolve(dataDir, c.Paths.PricesSplitFile),

		DatabaseFile: resolve(outputDir, c.Store.DatabaseFile),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is input only and is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.ChartsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetOutputPath returns the path of a file in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetChartPath returns the path of a chart image
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// FileExists reports whether path exists and is a regular file, not a
// directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("charts", p.ChartsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("input_files",
			slog.String("fundamentals", p.FundamentalsCSV),
			slog.String("securities", p.SecuritiesCSV),
			slog.String("prices", p.PricesCSV),
			slog.String("prices_split", p.PricesSplitCSV),
		))
}
