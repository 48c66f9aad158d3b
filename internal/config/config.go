package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"nysecli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Risk      RiskConfig      `yaml:"risk" envconfig:"RISK"`
	Flags     FlagsConfig     `yaml:"flags" envconfig:"FLAGS"`
	Anomaly   AnomalyConfig   `yaml:"anomaly" envconfig:"ANOMALY"`
	Forecast  ForecastConfig  `yaml:"forecast" envconfig:"FORECAST"`
	Valuation ValuationConfig `yaml:"valuation" envconfig:"VALUATION"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Store     StoreConfig     `yaml:"store" envconfig:"STORE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Output file,required_if=Output both"`
}

// PathsConfig contains file system paths configuration.
// Relative directories resolve against BaseDir, or the working directory
// when BaseDir is empty.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	ChartsDir string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`

	FundamentalsFile string `yaml:"fundamentals_file" envconfig:"FUNDAMENTALS_FILE" validate:"required"`
	SecuritiesFile   string `yaml:"securities_file" envconfig:"SECURITIES_FILE" validate:"required"`
	PricesFile       string `yaml:"prices_file" envconfig:"PRICES_FILE" validate:"required"`
	PricesSplitFile  string `yaml:"prices_split_file" envconfig:"PRICES_SPLIT_FILE" validate:"required"`
}

// RiskConfig holds the scoring rules and tier bins
type RiskConfig struct {
	AltmanThreshold   float64 `yaml:"altman_threshold" envconfig:"ALTMAN_THRESHOLD"`
	LeverageThreshold float64 `yaml:"leverage_threshold" envconfig:"LEVERAGE_THRESHOLD"`
	AltmanWeight      int     `yaml:"altman_weight" envconfig:"ALTMAN_WEIGHT" validate:"gte=0"`
	LeverageWeight    int     `yaml:"leverage_weight" envconfig:"LEVERAGE_WEIGHT" validate:"gte=0"`
	AnomalyWeight     int     `yaml:"anomaly_weight" envconfig:"ANOMALY_WEIGHT" validate:"gte=0"`
	// Scores in (-1, LowMax] are Low, (LowMax, MediumMax] Medium, above High
	LowMax    float64 `yaml:"low_max" envconfig:"LOW_MAX" validate:"gte=0"`
	MediumMax float64 `yaml:"medium_max" envconfig:"MEDIUM_MAX" validate:"gtfield=LowMax"`
}

// FlagsConfig holds thresholds for the operational risk subsets
type FlagsConfig struct {
	InterestCoverageMin float64 `yaml:"interest_coverage_min" envconfig:"INTEREST_COVERAGE_MIN"`
	IncomeDropMax       float64 `yaml:"income_drop_max" envconfig:"INCOME_DROP_MAX" validate:"lt=0"`
	InventoryGrowthMin  float64 `yaml:"inventory_growth_min" envconfig:"INVENTORY_GROWTH_MIN"`
	RevenueGrowthMax    float64 `yaml:"revenue_growth_max" envconfig:"REVENUE_GROWTH_MAX"`
}

// AnomalyConfig configures the isolation forest
type AnomalyConfig struct {
	Trees         int      `yaml:"trees" envconfig:"TREES" validate:"gte=1"`
	MaxSamples    int      `yaml:"max_samples" envconfig:"MAX_SAMPLES" validate:"gte=2"`
	Contamination float64  `yaml:"contamination" envconfig:"CONTAMINATION" validate:"gt=0,lte=0.5"`
	Seed          uint64   `yaml:"seed" envconfig:"SEED"`
	Features      []string `yaml:"features" envconfig:"FEATURES" validate:"min=2,unique"`
}

// ForecastConfig configures revenue forecasting, expense projection and scenarios
type ForecastConfig struct {
	Ticker            string    `yaml:"ticker" envconfig:"TICKER" validate:"required"`
	Periods           int       `yaml:"periods" envconfig:"PERIODS" validate:"gte=1"`
	COGSRatio         float64   `yaml:"cogs_ratio" envconfig:"COGS_RATIO" validate:"gte=0,lte=1"`
	RDRatio           float64   `yaml:"rd_ratio" envconfig:"RD_RATIO" validate:"gte=0,lte=1"`
	OpexRatio         float64   `yaml:"opex_ratio" envconfig:"OPEX_RATIO" validate:"gte=0,lte=1"`
	RDTrendPeriods    int       `yaml:"rd_trend_periods" envconfig:"RD_TREND_PERIODS" validate:"gte=1"`
	FixedCosts        float64   `yaml:"fixed_costs" envconfig:"FIXED_COSTS" validate:"gte=0"`
	VariableCostRatio float64   `yaml:"variable_cost_ratio" envconfig:"VARIABLE_COST_RATIO" validate:"gte=0"`
	CostIncrease      float64   `yaml:"cost_increase" envconfig:"COST_INCREASE"`
	Scenarios         []float64 `yaml:"scenarios" envconfig:"SCENARIOS" validate:"min=1"`
}

// ValuationConfig configures multiples filtering, DCF and Monte Carlo
type ValuationConfig struct {
	Ticker        string    `yaml:"ticker" envconfig:"TICKER" validate:"required"`
	MaxPE         float64   `yaml:"max_pe" envconfig:"MAX_PE" validate:"gt=0"`
	MaxPB         float64   `yaml:"max_pb" envconfig:"MAX_PB" validate:"gt=0"`
	DiscountRate  float64   `yaml:"discount_rate" envconfig:"DISCOUNT_RATE" validate:"gt=-1"`
	CashFlows     []float64 `yaml:"cash_flows" envconfig:"CASH_FLOWS" validate:"min=1"`
	Simulations   int       `yaml:"simulations" envconfig:"SIMULATIONS" validate:"gte=1"`
	Seed          uint64    `yaml:"seed" envconfig:"SEED"`
	RevenueTarget float64   `yaml:"revenue_target" envconfig:"REVENUE_TARGET"`
}

// ReportConfig controls report sinks
type ReportConfig struct {
	BOMPrefix bool `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
	Charts    bool `yaml:"charts" envconfig:"CHARTS"`
	Workbook  bool `yaml:"workbook" envconfig:"WORKBOOK"`
	TopN      int  `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1"`
}

// StoreConfig controls the SQLite export
type StoreConfig struct {
	DatabaseFile string `yaml:"database_file" envconfig:"DATABASE_FILE" validate:"required"`
	QueryTicker  string `yaml:"query_ticker" envconfig:"QUERY_TICKER" validate:"required"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns the configuration used when no file or environment
// overrides are present
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/nysecli.log",
		},
		Paths: PathsConfig{
			DataDir:          "data",
			OutputDir:        "output",
			LogsDir:          "logs",
			FundamentalsFile: FundamentalsFileName,
			SecuritiesFile:   SecuritiesFileName,
			PricesFile:       PricesFileName,
			PricesSplitFile:  PricesSplitFileName,
		},
		Risk: RiskConfig{
			AltmanThreshold:   1.8,
			LeverageThreshold: 2.0,
			AltmanWeight:      10,
			LeverageWeight:    7,
			AnomalyWeight:     5,
			LowMax:            3,
			MediumMax:         7,
		},
		Flags: FlagsConfig{
			InterestCoverageMin: 2.0,
			IncomeDropMax:       -0.3,
			InventoryGrowthMin:  0.3,
			RevenueGrowthMax:    0.1,
		},
		Anomaly: AnomalyConfig{
			Trees:         100,
			MaxSamples:    256,
			Contamination: 0.05,
			Seed:          42,
			Features:      []string{domain.RatioNetMargin, domain.RatioCurrentRatio, domain.RatioDebtToEquity},
		},
		Forecast: ForecastConfig{
			Ticker:            "AAPL",
			Periods:           4,
			COGSRatio:         0.58,
			RDRatio:           0.06,
			OpexRatio:         0.12,
			RDTrendPeriods:    3,
			FixedCosts:        120000,
			VariableCostRatio: 0.65,
			CostIncrease:      0.10,
			Scenarios:         []float64{500000, 550000, 600000},
		},
		Valuation: ValuationConfig{
			Ticker:        "AAPL",
			MaxPE:         100,
			MaxPB:         20,
			DiscountRate:  0.10,
			CashFlows:     []float64{25000, 30000, 35000, 40000},
			Simulations:   1000,
			Seed:          42,
			RevenueTarget: 600000,
		},
		Report: ReportConfig{
			Charts:   true,
			Workbook: true,
			TopN:     10,
		},
		Store: StoreConfig{
			DatabaseFile: DatabaseFileName,
			QueryTicker:  "AAPL",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "development",
			TraceExporter: "none",
			TraceFile:     "logs/traces.json",
			SampleRatio:   1.0,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file and NYSE_* environment variables, in that order of
// increasing precedence. An empty path falls back to $NYSE_CONFIG and then
// config.yaml in the working directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	if FileExists(DotEnvFile) {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
		}
	}

	configFile, explicit := getConfigFilePath(path)
	if FileExists(configFile) {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s does not exist", configFile)
	}

	// Only variables that are set override; unset ones keep file or default values
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the config path and whether it was requested
// explicitly
func getConfigFilePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv(ConfigFileEnv); env != "" {
		return env, true
	}
	return DefaultConfigFile, false
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}

	for _, f := range c.Anomaly.Features {
		if !domain.IsRatioName(f) {
			return fmt.Errorf("anomaly feature %q is not a known ratio", f)
		}
	}

	return nil
}

