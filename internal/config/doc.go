// Package config provides centralized configuration management for the
// NYSE analysis commands. It handles loading configuration from multiple
// sources, validation, and path resolution.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables with the NYSE_ prefix (highest priority)
//  2. A .env file in the working directory
//  3. A YAML file (-config flag, $NYSE_CONFIG, or config.yaml)
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// Variables follow the pattern NYSE_<SECTION>_<FIELD>:
//
//	NYSE_LOGGING_LEVEL=debug
//	NYSE_PATHS_DATA_DIR=/srv/nyse
//	NYSE_ANOMALY_CONTAMINATION=0.05
//	NYSE_RISK_ALTMAN_THRESHOLD=1.8
//	NYSE_ANOMALY_FEATURES="Net Margin,Current Ratio,Debt-to-Equity"
//
// # Path Management
//
// Paths are resolved once per run. Relative directories are taken from the
// working directory so each command behaves like a script run in place:
//
//	paths, err := cfg.GetPaths()
//	if err := paths.EnsureDirectories(); err != nil { ... }
//	out := paths.GetOutputPath(config.RatiosCSVFileName)
package config
