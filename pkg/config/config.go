package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StockPulse/pkg/util"
)

const (
	MinSymbolLimit = 25
	MaxSymbolLimit = 2000
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`

	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Massive struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url"`
		SymbolLimit  int           `yaml:"symbol_limit" default:"250"`
		RateInterval time.Duration `yaml:"rate_interval" default:"250ms"`
		MaxRetries   int           `yaml:"max_retries" default:"3" validate:"min=1,max=10"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"7s"`
	} `yaml:"massive"`

	Screener struct {
		Symbols          []string `yaml:"symbols"`
		Period           string   `yaml:"period" default:"1y" validate:"oneof=1m 3m 6m 1y 3y 5y max"`
		RefreshCron      string   `yaml:"refresh_cron" default:"@every 5m"`
		FetchConcurrency int      `yaml:"fetch_concurrency" default:"5" validate:"min=1,max=64"`
		BatchSize        int      `yaml:"batch_size"`
		MinScore         int      `yaml:"min_score" validate:"min=0,max=100"`
		Sectors          []string `yaml:"sectors"`
		MaxVolatility    float64  `yaml:"max_volatility" validate:"min=0"`
	} `yaml:"screener"`

	Cache struct {
		MemorySize int `yaml:"memory_size" default:"1000" validate:"min=16"`

		Persistent struct {
			Type string `yaml:"type" default:"sqlite" validate:"oneof=none sqlite redis"`
			Path string `yaml:"path" default:"stockpulse-cache.db"`

			Redis struct {
				Addr     string `yaml:"addr" default:"localhost:6379"`
				Password string `yaml:"password"`
				DB       int    `yaml:"db"`
				Prefix   string `yaml:"prefix" default:"stockpulse"`
			} `yaml:"redis"`
		} `yaml:"persistent"`

		TTL struct {
			Quote        time.Duration `yaml:"quote" default:"30s"`
			History      time.Duration `yaml:"history" default:"24h"`
			Fundamentals time.Duration `yaml:"fundamentals" default:"24h"`
			Search       time.Duration `yaml:"search" default:"1h"`
			Summary      time.Duration `yaml:"summary" default:"1m"`
		} `yaml:"ttl"`
	} `yaml:"cache"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port" default:"9187" validate:"min=0,max=65535"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
}

// Load reads the YAML file at path on top of the built-in defaults. An empty
// path yields a pure default configuration.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	c.clamp()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("MASSIVE_API_KEY"); v != "" {
		c.Massive.APIKey = v
	}
	if v := os.Getenv("MASSIVE_BASE_URL"); v != "" {
		c.Massive.BaseURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Screener.Symbols = strings.Split(v, ",")
	}
	c.Massive.SymbolLimit = util.ParseIntDefault(os.Getenv("SYMBOL_LIMIT"), c.Massive.SymbolLimit)
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Persistent.Type = "redis"
		c.Cache.Persistent.Redis.Addr = v
	}
	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.Cache.Persistent.Path = v
	}

	c.clamp()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// clamp forces tunables into safe operating ranges.
func (c *Config) clamp() {
	if c.Massive.SymbolLimit < MinSymbolLimit {
		c.Massive.SymbolLimit = MinSymbolLimit
	}
	if c.Massive.SymbolLimit > MaxSymbolLimit {
		c.Massive.SymbolLimit = MaxSymbolLimit
	}
	for i, s := range c.Screener.Symbols {
		c.Screener.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
