package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the site configuration
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the site configuration. A missing file yields the defaults.
func (l *Loader) Load() (*SiteConfig, error) {
	if l.path == "" {
		return DefaultSiteConfig(), nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Site configuration not found, using defaults", "path", l.path)
			return DefaultSiteConfig(), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SiteConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	slog.Info("Loaded site configuration", "path", l.path, "presets", len(config.Presets))

	return &config, nil
}

func (l *Loader) setDefaults(config *SiteConfig) {
	if len(config.Presets) == 0 {
		config.Presets = append([]int(nil), defaultPresets...)
	}
	if config.ItemLimit == 0 {
		config.ItemLimit = defaultItemLimit
	}
}

func (l *Loader) validate(config *SiteConfig) error {
	for i, preset := range config.Presets {
		if preset < 1 {
			return fmt.Errorf("invalid preset at index %d: %d", i, preset)
		}
	}
	if config.ItemLimit < 0 {
		return fmt.Errorf("item limit must be non-negative")
	}
	return nil
}
