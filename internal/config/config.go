package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port              int    `yaml:"port"`
		APIKey            string `yaml:"api_key"`
		RateLimitPerSec   int    `yaml:"rate_limit_per_sec"`
		RateLimitBurst    int    `yaml:"rate_limit_burst"`
		ShutdownTimeoutMS int    `yaml:"shutdown_timeout_ms"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Enabled         bool   `yaml:"enabled"`
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Sweeper struct {
		Enabled         bool `yaml:"enabled"`
		IntervalMinutes int  `yaml:"interval_minutes"`
	} `yaml:"sweeper"`

	Calendar struct {
		StartHour    int `yaml:"start_hour"`
		VisibleHours int `yaml:"visible_hours"`
	} `yaml:"calendar"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/velamar.db"
	}
	if cfg.Calendar.StartHour == 0 && cfg.Calendar.VisibleHours == 0 {
		cfg.Calendar.StartHour = 8
		cfg.Calendar.VisibleHours = 14
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	if c.Sweeper.IntervalMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Sweeper.IntervalMinutes) * time.Minute
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.ShutdownTimeoutMS) * time.Millisecond
}
