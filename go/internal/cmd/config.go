package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// TickInterval returns the countdown tick interval as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Clock.TickSeconds) * time.Second
}

// Config is the engine configuration, loaded from YAML with environment
// variable overrides applied on top.
type Config struct {
	Store struct {
		// Backend is "memory" or "redis".
		Backend   string `yaml:"backend"`
		KeyPrefix string `yaml:"key_prefix"`
		Redis     struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"store"`

	Notifier struct {
		// Backend is "memory" or "nats".
		Backend       string `yaml:"backend"`
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"notifier"`

	Clock struct {
		TickSeconds     int `yaml:"tick_seconds"`
		MaxReadFailures int `yaml:"max_read_failures"`
	} `yaml:"clock"`

	HealthAddr string `yaml:"health_addr"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	config.applyEnv()
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyEnv() {
	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.KeyPrefix = getEnv("STORE_KEY_PREFIX", c.Store.KeyPrefix)
	c.Store.Redis.Addr = getEnv("REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = getEnv("REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.DB = getEnvAsInt("REDIS_DB", c.Store.Redis.DB)

	c.Notifier.Backend = getEnv("NOTIFIER_BACKEND", c.Notifier.Backend)
	c.Notifier.URL = getEnv("NATS_URL", c.Notifier.URL)
	c.Notifier.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", c.Notifier.SubjectPrefix)

	c.Clock.TickSeconds = getEnvAsInt("CLOCK_TICK_SECONDS", c.Clock.TickSeconds)
	c.HealthAddr = getEnv("HEALTH_ADDR", c.HealthAddr)
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "auction:"
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Notifier.Backend == "" {
		c.Notifier.Backend = "memory"
	}
	if c.Clock.TickSeconds <= 0 {
		c.Clock.TickSeconds = 1
	}
	if c.Clock.MaxReadFailures <= 0 {
		c.Clock.MaxReadFailures = 5
	}
	if c.HealthAddr == "" {
		c.HealthAddr = ":8082"
	}
}
