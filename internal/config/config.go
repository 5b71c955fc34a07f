package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type APIKey struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
	Role string `yaml:"role"`
}

type DBConfig struct {
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
}

type EvaluationConfig struct {
	// StrictComparison makes validation report comparisons outside the
	// vocabulary of their input type.
	StrictComparison bool `yaml:"strict_comparison"`
}

type Config struct {
	ListenAddr string           `yaml:"listen_addr"`
	DBDSN      string           `yaml:"db_dsn"`
	LogLevel   string           `yaml:"log_level"`
	APIKeys    []APIKey         `yaml:"api_keys"`
	DB         DBConfig         `yaml:"db"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DB.MaxConns == 0 {
		c.DB.MaxConns = 20
	}
	if c.DB.MinConns == 0 {
		c.DB.MinConns = 5
	}
	if c.DB.MaxConnLifetime == 0 {
		c.DB.MaxConnLifetime = 30 * time.Minute
	}
}

func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
