package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

type AppConfig struct {
	StoreBackend string `yaml:"store_backend"`
	RedisURL     string `yaml:"redis_url"`
	BadgerDir    string `yaml:"badger_dir"`
	DatabaseURL  string `yaml:"database_url"`

	SessionTTLSec int    `yaml:"session_ttl"`
	MessagesDir   string `yaml:"messages_dir"`
	HistoryLimit  int    `yaml:"history_limit"`
}

// SessionTTL returns the session TTL as a duration.
func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

// Load builds the configuration from defaults, then the YAML file named by
// CHESS_CONFIG_FILE (if any), then environment variables.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StoreBackend:  BackendMemory,
		SessionTTLSec: 86400,
		HistoryLimit:  10,
	}

	if path := strings.TrimSpace(os.Getenv("CHESS_CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("STORE_BACKEND")); v != "" {
		cfg.StoreBackend = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BADGER_DIR")); v != "" {
		cfg.BadgerDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGES_DIR")); v != "" {
		cfg.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("HISTORY_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis store")
		}
	case BackendBadger:
		if c.BadgerDir == "" {
			return errors.New("BADGER_DIR is required for the badger store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.SessionTTLSec <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 10
	}
	return nil
}
