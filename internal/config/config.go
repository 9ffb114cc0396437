// Package config loads project configuration from .driftwatch.yaml at the
// project root. A missing file yields defaults; a malformed file is a
// configuration error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up at the root.
const FileName = ".driftwatch.yaml"

// Config is the resolved run configuration.
type Config struct {
	// Scanners lists the dialect scanners to run, by registry name.
	Scanners []string `yaml:"scanners"`

	// IncludePaths / ExcludePaths are doublestar globs applied to
	// root-relative paths during file discovery.
	IncludePaths []string `yaml:"include_paths"`
	ExcludePaths []string `yaml:"exclude_paths"`

	// MinOccurrences is the repetition threshold for pattern analysis.
	MinOccurrences int `yaml:"min_occurrences"`

	// CachePath is the scan cache location, relative to the project root
	// unless absolute.
	CachePath string `yaml:"cache_path"`

	// Concurrency bounds parallel file parsing. Zero means one worker
	// per CPU.
	Concurrency int `yaml:"concurrency"`

	// WatchDebounceMS is the quiet period watch mode waits after a file
	// event before rescanning.
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultScanners is the scanner set used when the config names none.
var DefaultScanners = []string{
	"react", "solid", "vue", "svelte", "storybook",
	"css", "tailwind-config", "figma",
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scanners:        append([]string(nil), DefaultScanners...),
		MinOccurrences:  3,
		CachePath:       filepath.Join(".driftwatch", "cache.json"),
		Concurrency:     0,
		WatchDebounceMS: 300,
	}
}

// Load reads .driftwatch.yaml from projectRoot, overriding defaults with
// whatever the file sets.
func Load(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := Default()
	if len(file.Scanners) > 0 {
		cfg.Scanners = file.Scanners
	}
	if len(file.IncludePaths) > 0 {
		cfg.IncludePaths = file.IncludePaths
	}
	if len(file.ExcludePaths) > 0 {
		cfg.ExcludePaths = file.ExcludePaths
	}
	if file.MinOccurrences > 0 {
		cfg.MinOccurrences = file.MinOccurrences
	}
	if file.CachePath != "" {
		cfg.CachePath = file.CachePath
	}
	if file.Concurrency > 0 {
		cfg.Concurrency = file.Concurrency
	}
	if file.WatchDebounceMS > 0 {
		cfg.WatchDebounceMS = file.WatchDebounceMS
	}
	return cfg, nil
}

// Validate checks the configuration against the set of registered scanner
// names. An empty scanner list and unknown names are configuration errors;
// scanning must not proceed on either.
func (c *Config) Validate(knownScanners []string) error {
	if len(c.Scanners) == 0 {
		return fmt.Errorf("config: no scanners enabled")
	}
	known := make(map[string]struct{}, len(knownScanners))
	for _, name := range knownScanners {
		known[name] = struct{}{}
	}
	for _, name := range c.Scanners {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("config: unknown scanner %q", name)
		}
	}
	if c.MinOccurrences < 1 {
		return fmt.Errorf("config: min_occurrences must be at least 1")
	}
	return nil
}
