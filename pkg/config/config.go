// Package config provides configuration management for cfgrepair.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Repair: file, report_format
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Repair.DryRun
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use CFGREPAIR_ prefix with underscores for nesting:
//
//	CFGREPAIR_REPAIR_FILE=appwrite.config.json
//	CFGREPAIR_REPAIR_REPORT_FORMAT=json
//	CFGREPAIR_LOG_LEVEL=info
//	CFGREPAIR_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete cfgrepair configuration.
type Config struct {
	// Repair contains settings of the repair pass.
	Repair RepairConfig `mapstructure:"repair" yaml:"repair"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of files repaired concurrently when several
	// paths are given. Default value is the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// RepairConfig contains settings of the repair pass.
type RepairConfig struct {
	// File is the configuration document repaired when no paths are given
	// on the command line. Relative paths resolve against the working
	// directory.
	File string `mapstructure:"file" yaml:"file"`

	// ReportFormat is the format of the final report.
	// Valid values: "text", "json", "yaml".
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"`

	// DryRun reports what would be removed without writing files.
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be STDERR, STDOUT or a log file (to default place)
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Repair: RepairConfig{
			File:         DefaultDocument,
			ReportFormat: "text",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// a log file is opt-in, a run leaves nothing behind but the
			// repaired documents
			Destination: "stderr",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
