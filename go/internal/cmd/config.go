package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML application config. Anything not set here
// falls back to environment variables and defaults.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Outbox struct {
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
		BatchSize           int `yaml:"batch_size"`
		MaxRetries          int `yaml:"max_retries"`
	} `yaml:"outbox"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

func (c *Config) serverPort() string {
	if c.Server.Port != "" {
		return c.Server.Port
	}
	return getEnv("PORT", "8080")
}

func (c *Config) natsURL() string {
	if c.NATS.URL != "" {
		return c.NATS.URL
	}
	return getEnv("NATS_URL", "nats://localhost:4222")
}

func (c *Config) outboxConfig() (pollInterval time.Duration, batchSize int32, maxRetries int) {
	pollInterval = 5 * time.Second
	if c.Outbox.PollIntervalSeconds > 0 {
		pollInterval = time.Duration(c.Outbox.PollIntervalSeconds) * time.Second
	}
	batchSize = 100
	if c.Outbox.BatchSize > 0 {
		batchSize = int32(c.Outbox.BatchSize)
	}
	maxRetries = 3
	if c.Outbox.MaxRetries > 0 {
		maxRetries = c.Outbox.MaxRetries
	}
	return pollInterval, batchSize, maxRetries
}
