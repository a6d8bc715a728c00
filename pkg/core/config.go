// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/debstrap/pkg/diagnostics"
)

// Config holds debstrap's bootstrap configuration, loadable from a YAML
// file and mergeable with CLI/environment overrides.
type Config struct {
	Suite         string   `yaml:"suite"`
	Variant       string   `yaml:"variant"`
	Components    []string `yaml:"components"`
	Architectures []string `yaml:"architectures"`
	Mirrors       []string `yaml:"mirrors"`

	OutputFormat string `yaml:"output_format"` // "tarball" or "directory"
	OutputPath   string `yaml:"output_path"`
	Directory    string `yaml:"directory"` // workspace override

	SourcesPath string `yaml:"sources_path"`

	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	Prohibit []string `yaml:"prohibit"`

	ExtractBackend        string `yaml:"extract_backend"` // "ar" or "dpkg-deb"
	ExtractOnlyEssentials bool   `yaml:"extract_only_essentials"`
	ConsiderRecommends    bool   `yaml:"consider_recommends"`

	Hooks map[string][]string `yaml:"hooks"` // kind -> shell fragments

	TargetActionsToSkip []string `yaml:"target_actions_to_skip"`

	Color bool `yaml:"color"`
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns debstrap's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Variant:               "important",
		Components:            []string{"main"},
		OutputFormat:          "directory",
		SourcesPath:           defaultSourcesPath(),
		ExtractBackend:        "ar",
		ExtractOnlyEssentials: true,
		Hooks:                 make(map[string][]string),
		Color:                 true,
	}
}

// LoadConfig loads configuration from file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		var fromFile Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		if err := mergo.Merge(cfg, fromFile, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// SaveConfig saves configuration to file.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = defaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// applyEnvOverrides merges the DEBSTRAP_* environment variables over cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DEBSTRAP_DIRECTORY"); v != "" {
		cfg.Directory = v
	}
	if v := os.Getenv("DEBSTRAP_SOURCES"); v != "" {
		cfg.SourcesPath = v
	}
	if v := os.Getenv("DEBSTRAP_DEBUG"); v != "" {
		cfg.Debug = parseBool(v, cfg.Debug)
	}
	if v := os.Getenv("DEBSTRAP_COLOR"); v != "" || os.Getenv("NO_COLOR") != "" {
		cfg.Color = diagnostics.ResolveColor(strings.ToLower(v), os.Getenv("NO_COLOR"))
	}
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(v) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	default:
		return fallback
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/debstrap/config.yaml"
	}
	return filepath.Join(home, ".config", "debstrap", "config.yaml")
}

func defaultSourcesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/debstrap/sources"
	}
	return filepath.Join(home, ".config", "debstrap", "sources")
}
