package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hbenali/pfeplan/core/metrics"
)

// Config aggregates every section of a scheduling job.
type Config struct {
	Window  WindowConfig   `json:"window"`
	Rooms   RoomsConfig    `json:"rooms"`
	IO      IOConfig       `json:"io"`
	Logging LoggingConfig  `json:"logging"`
	Metrics metrics.Config `json:"metrics"`
}

// Load reads a YAML or JSON configuration file, applies PFE_-prefixed
// environment overrides, then defaults and validation per section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PFE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pfe_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Rooms.SetDefaults()
	cfg.IO.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Rooms.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
