// Package config loads service configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	HTTPAddr     string        `yaml:"http_addr"`
	DatabaseURL  string        `yaml:"database_url"`
	TickInterval time.Duration `yaml:"tick_interval"`
	// FrontendURL restricts the websocket origin; empty allows any.
	FrontendURL string     `yaml:"frontend_url"`
	MQTT        MQTTConfig `yaml:"mqtt"`
	// InMemory runs against in-memory stores instead of Postgres, for
	// demos without a database.
	InMemory bool `yaml:"in_memory"`
}

// MQTTConfig holds the optional side-publish broker settings.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	ClientID    string `yaml:"client_id,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// Load reads the config file at path, then applies env overrides. A
// missing file is not an error; env and defaults take over.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTPAddr:     ":8080",
		TickInterval: 30 * time.Second,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 30 * time.Second
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getenvDefault("HTTP_ADDR", c.HTTPAddr)
	c.DatabaseURL = getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", c.DatabaseURL))
	c.FrontendURL = getenvDefault("FRONTEND_URL", c.FrontendURL)
	if raw := os.Getenv("TICK_INTERVAL"); raw != "" {
		if interval, err := time.ParseDuration(raw); err == nil && interval > 0 {
			c.TickInterval = interval
		}
	}
	if raw := os.Getenv("IN_MEMORY"); raw != "" {
		if inMemory, err := strconv.ParseBool(raw); err == nil {
			c.InMemory = inMemory
		}
	}
	c.MQTT.Broker = getenvDefault("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.TopicPrefix = getenvDefault("MQTT_TOPIC_PREFIX", c.MQTT.TopicPrefix)
	if raw := os.Getenv("MQTT_ENABLED"); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			c.MQTT.Enabled = enabled
		}
	}
}

// Validate checks the parts of the config boot cannot proceed without.
func (c *Config) Validate() error {
	if !c.InMemory && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or PG_DSN is required unless in_memory is set")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt.enabled is set")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
