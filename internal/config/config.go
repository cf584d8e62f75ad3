package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "VETNUTRITION_CONFIG"
	logLevelEnv   = "VETNUTRITION_LOG_LEVEL"
	httpAddrEnv   = "VETNUTRITION_HTTP_ADDR"
	catalogDirEnv = "VETNUTRITION_CATALOG_DIR"
)

// File names looked up inside VETNUTRITION_CATALOG_DIR.
const (
	LegacyFileName     = "legacy_foods.yaml"
	CommercialFileName = "commercial_foods.yaml"
	FactorsFileName    = "physiological_states.yaml"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Importer ImporterConfig `yaml:"importer"`
}

// LoggingConfig selects the slog level (error, warn, info, debug).
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig describes the JSON API listener.
type HTTPConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"readTimeout"`
}

// CatalogConfig points at YAML overrides for the embedded tables. Empty
// paths use the data compiled into the binary.
type CatalogConfig struct {
	LegacyPath     string `yaml:"legacyPath"`
	CommercialPath string `yaml:"commercialPath"`
	FactorsPath    string `yaml:"factorsPath"`
	MemoSize       int    `yaml:"memoSize"`
}

// ImporterConfig tunes the guaranteed-analysis page importer.
type ImporterConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
	Sites     []SiteConfig  `yaml:"sites"`
}

// SiteConfig binds a retailer host to its scanner strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Host    string            `yaml:"host"`
	Scanner string            `yaml:"scanner"`
	Options map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Importer.Sites) == 0 {
		cfg.Importer.Sites = defaultConfig().Importer.Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}

	if dir := os.Getenv(catalogDirEnv); dir != "" {
		c.Catalog.LegacyPath = existing(filepath.Join(dir, LegacyFileName), c.Catalog.LegacyPath)
		c.Catalog.CommercialPath = existing(filepath.Join(dir, CommercialFileName), c.Catalog.CommercialPath)
		c.Catalog.FactorsPath = existing(filepath.Join(dir, FactorsFileName), c.Catalog.FactorsPath)
	}
}

func existing(path, fallback string) string {
	if _, err := os.Stat(path); err != nil {
		log.Printf("config: %s not found, keeping %q", path, fallback)
		return fallback
	}
	return path
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	if override.HTTP.ReadTimeout > 0 {
		base.HTTP.ReadTimeout = override.HTTP.ReadTimeout
	}

	if override.Catalog.LegacyPath != "" {
		base.Catalog.LegacyPath = override.Catalog.LegacyPath
	}
	if override.Catalog.CommercialPath != "" {
		base.Catalog.CommercialPath = override.Catalog.CommercialPath
	}
	if override.Catalog.FactorsPath != "" {
		base.Catalog.FactorsPath = override.Catalog.FactorsPath
	}
	if override.Catalog.MemoSize > 0 {
		base.Catalog.MemoSize = override.Catalog.MemoSize
	}

	if override.Importer.Timeout > 0 {
		base.Importer.Timeout = override.Importer.Timeout
	}
	if override.Importer.UserAgent != "" {
		base.Importer.UserAgent = override.Importer.UserAgent
	}
	if len(override.Importer.Sites) > 0 {
		base.Importer.Sites = override.Importer.Sites
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		HTTP:    HTTPConfig{Addr: ":8080", ReadTimeout: 10 * time.Second},
		Catalog: CatalogConfig{MemoSize: 64},
		Importer: ImporterConfig{
			Timeout:   20 * time.Second,
			UserAgent: "VetNutrition/1.0",
			Sites: []SiteConfig{
				{Name: "petz", Host: "www.petz.com.br", Scanner: "guarantee-table"},
				{Name: "cobasi", Host: "www.cobasi.com.br", Scanner: "guarantee-table"},
			},
		},
	}
}
