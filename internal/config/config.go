package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wsicheck"

	// DefaultMaxDirectories bounds the IFD chain walk.
	DefaultMaxDirectories = 4096

	// DefaultMaxProblems is how many tiles the text report lists per file.
	DefaultMaxProblems = 50
)

// Config holds all configuration options for the wsicheck CLI.
// It is populated from defaults, the config file and flags, in that order.
type Config struct {
	// Workers is the number of tile validation workers per file.
	// Zero means one per CPU.
	Workers int

	// FirstDirectoryOnly validates only the full-resolution level (IFD 0).
	FirstDirectoryOnly bool

	// Strict turns the first container warning into a failure.
	Strict bool

	// IgnoreWarnings drops container warnings from reports.
	IgnoreWarnings bool

	// MaxDirectories bounds how many IFDs are followed.
	MaxDirectories int

	// Verbose enables debug logging and lists every tile in text reports.
	Verbose bool

	// MaxProblems caps the problem tiles listed per file in text reports.
	// Zero lists all of them.
	MaxProblems int

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// NoHistory disables the run history database.
	NoHistory bool

	// SkipUnchanged skips files whose fingerprint matches a previous
	// clean run.
	SkipUnchanged bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string

	// Targets are the files to validate.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxDirectories: DefaultMaxDirectories,
		MaxProblems:    DefaultMaxProblems,
		DBDir:          XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for wsicheck.
// On Linux: ~/.local/share/wsicheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wsicheck.
// On Linux: ~/.config/wsicheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.MaxDirectories < 0 {
		return ErrInvalidMaxDirectories
	}

	if c.MaxProblems < 0 {
		return ErrInvalidMaxProblems
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Strict && c.IgnoreWarnings {
		return ErrConflictingWarningPolicy
	}

	if c.SkipUnchanged && c.NoHistory {
		return ErrSkipWithoutHistory
	}

	return nil
}
