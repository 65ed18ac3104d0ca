package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// SYMBOLSTATS_REDIS_ADDR.
const EnvPrefix = "SYMBOLSTATS"

// Config holds all application configuration. Environment overrides are
// read only under EnvPrefix; nested keys join with underscores.
type Config struct {
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Registry struct {
		SymbolsFile string `yaml:"symbols_file" split_words:"true"`
	} `yaml:"registry"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" split_words:"true"`
	} `yaml:"schedule"`
	Engine struct {
		Workers      int           `yaml:"workers"`
		QueryTimeout time.Duration `yaml:"query_timeout" split_words:"true"`
	} `yaml:"engine"`
	Database struct {
		// Path is the SQLite file; empty disables the recorder.
		Path string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Feed struct {
		Addr string `yaml:"addr"`
	} `yaml:"feed"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Registry.SymbolsFile == "" {
		c.Registry.SymbolsFile = "configs/symbols.json"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "5 * * * * *"
	}
	if c.Engine.Workers == 0 {
		c.Engine.Workers = 8
	}
	if c.Engine.QueryTimeout == 0 {
		c.Engine.QueryTimeout = 10 * time.Second
	}
	if c.Feed.Addr == "" {
		c.Feed.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Registry.SymbolsFile == "" {
		return fmt.Errorf("registry.symbols_file is required")
	}
	if c.Schedule.RefreshCron == "" {
		return fmt.Errorf("schedule.refresh_cron is required")
	}
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("engine.workers must be positive")
	}
	if c.Engine.QueryTimeout < 0 {
		return fmt.Errorf("engine.query_timeout must not be negative")
	}
	return nil
}
