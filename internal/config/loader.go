package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wsicheck.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

//go:embed template.yaml
var template []byte

// Template returns the commented configuration file written by
// "wsicheck init".
func Template() []byte {
	return template
}

// File is the on-disk configuration. Pointer fields distinguish "unset"
// from an explicit zero or false.
type File struct {
	Workers            *int    `yaml:"workers,omitempty"`
	FirstDirectoryOnly *bool   `yaml:"first_directory_only,omitempty"`
	Strict             *bool   `yaml:"strict,omitempty"`
	IgnoreWarnings     *bool   `yaml:"ignore_warnings,omitempty"`
	MaxDirectories     *int    `yaml:"max_directories,omitempty"`
	MaxProblems        *int    `yaml:"max_problems,omitempty"`
	Format             string  `yaml:"format,omitempty"`
	History            *bool   `yaml:"history,omitempty"`
	SkipUnchanged      *bool   `yaml:"skip_unchanged,omitempty"`
	DBDir              *string `yaml:"db_dir,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	switch cf.Format {
	case "", "text", "json", "markdown":
	default:
		return nil, fmt.Errorf("parse %s: unknown format %q", path, cf.Format)
	}

	return &cf, nil
}

// Apply copies every value set in the file onto c.
func (f *File) Apply(c *Config) {
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
	if f.FirstDirectoryOnly != nil {
		c.FirstDirectoryOnly = *f.FirstDirectoryOnly
	}
	if f.Strict != nil {
		c.Strict = *f.Strict
	}
	if f.IgnoreWarnings != nil {
		c.IgnoreWarnings = *f.IgnoreWarnings
	}
	if f.MaxDirectories != nil {
		c.MaxDirectories = *f.MaxDirectories
	}
	if f.MaxProblems != nil {
		c.MaxProblems = *f.MaxProblems
	}
	switch f.Format {
	case "json":
		c.JSONReport, c.MarkdownReport = true, false
	case "markdown":
		c.JSONReport, c.MarkdownReport = false, true
	case "text":
		c.JSONReport, c.MarkdownReport = false, false
	}
	if f.History != nil {
		c.NoHistory = !*f.History
	}
	if f.SkipUnchanged != nil {
		c.SkipUnchanged = *f.SkipUnchanged
	}
	if f.DBDir != nil {
		c.DBDir = *f.DBDir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. .wsicheck.yaml in the current directory
// 3. config.yaml in the XDG config directory
// 4. .wsicheck.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
