package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".acsharvest"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file schema. Every field is optional;
// zero values leave the corresponding Config field untouched.
type File struct {
	// BaseURL overrides the wiki root.
	BaseURL string `yaml:"base_url"`

	// OutputDir overrides where JSON artifacts are written.
	OutputDir string `yaml:"output_dir"`

	// UserAgent overrides the HTTP User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// RequestsPerSecond overrides the outbound request pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Timeout overrides the per-request timeout ("90s", "2m", ...).
	Timeout time.Duration `yaml:"timeout"`

	// MaxBacklinkPages overrides the pagination bound.
	MaxBacklinkPages int `yaml:"max_backlink_pages"`
}

// LoadFile loads overrides from a YAML file. If the file does not exist it
// returns ErrConfigNotFound; callers decide whether that matters based on
// whether the user named the file explicitly.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply merges file overrides into the config. Only non-zero file fields
// take effect.
func (f *File) Apply(c *Config) {
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.RequestsPerSecond > 0 {
		c.RequestsPerSecond = f.RequestsPerSecond
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.MaxBacklinkPages > 0 {
		c.MaxBacklinkPages = f.MaxBacklinkPages
	}
}

// FindConfigFile searches for the configuration file:
//  1. If configPath is specified, use it directly
//  2. Look for .acsharvest in the current directory
//  3. Look for .acsharvest in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
