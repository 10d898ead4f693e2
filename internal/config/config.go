package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Hermes     HermesConfig     `yaml:"hermes"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Allocation AllocationConfig `yaml:"allocation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AdminToken        string `yaml:"admin_token"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// Catalog sources.
const (
	CatalogBuiltin  = "builtin"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
	CatalogHTTP     = "http"
)

type CatalogConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
}

type AllocationConfig struct {
	UrgencyWeights UrgencyWeights `yaml:"urgency_weights"`
	SliderStep     int            `yaml:"slider_step"`
}

type UrgencyWeights struct {
	High       int `yaml:"high"`
	MediumHigh int `yaml:"medium_high"`
	Medium     int `yaml:"medium"`
	Low        int `yaml:"low"`
	Default    int `yaml:"default"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Weights converts the configured urgency weights for the allocator.
func (c *Config) Weights() allocation.UrgencyWeights {
	w := c.Allocation.UrgencyWeights
	return allocation.UrgencyWeights{
		High:       w.High,
		MediumHigh: w.MediumHigh,
		Medium:     w.Medium,
		Low:        w.Low,
		Default:    w.Default,
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("allocation.urgency_weights: %w", err)
	}
	if c.Allocation.SliderStep < 1 || c.Allocation.SliderStep > allocation.Total {
		return fmt.Errorf("allocation.slider_step must be between 1 and 100, got %d", c.Allocation.SliderStep)
	}
	switch c.Catalog.Source {
	case CatalogBuiltin:
	case CatalogFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path required for file source")
		}
	case CatalogPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url required for postgres catalog source")
		}
	case CatalogHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("catalog.url required for http source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	return nil
}

func Load(path string) (*Config, error) {
	defaults := allocation.DefaultUrgencyWeights()
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RequestsPerMinute: 600,
		},
		Catalog: CatalogConfig{
			Source: CatalogBuiltin,
		},
		Allocation: AllocationConfig{
			UrgencyWeights: UrgencyWeights{
				High:       defaults.High,
				MediumHigh: defaults.MediumHigh,
				Medium:     defaults.Medium,
				Low:        defaults.Low,
				Default:    defaults.Default,
			},
			SliderStep: allocation.DefaultStep,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLEDGE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PLEDGE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PLEDGE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PLEDGE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PLEDGE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("PLEDGE_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("PLEDGE_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("PLEDGE_CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("PLEDGE_CATALOG_TOKEN"); v != "" {
		cfg.Catalog.Token = v
	}
	if v := os.Getenv("PLEDGE_SLIDER_STEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Allocation.SliderStep = n
		}
	}
	if v := os.Getenv("PLEDGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PLEDGE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
