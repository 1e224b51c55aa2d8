package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.TickInterval != 30*time.Second {
		t.Errorf("tick interval = %v, want 30s", cfg.TickInterval)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr = %q, want default", cfg.HTTPAddr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
http_addr: ":9090"
tick_interval: 5s
in_memory: true
mqtt:
  enabled: true
  broker: tcp://localhost:1883
  topic_prefix: home/energy
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.TickInterval != 5*time.Second {
		t.Errorf("tick interval = %v", cfg.TickInterval)
	}
	if !cfg.InMemory {
		t.Error("in_memory not set")
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "tcp://localhost:1883" || cfg.MQTT.TopicPrefix != "home/energy" {
		t.Errorf("mqtt = %+v", cfg.MQTT)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http_addr: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("TICK_INTERVAL", "2s")
	t.Setenv("IN_MEMORY", "true")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.DatabaseURL != "postgres://env/db" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.TickInterval != 2*time.Second {
		t.Errorf("tick interval = %v", cfg.TickInterval)
	}
	if !cfg.InMemory || !cfg.MQTT.Enabled || cfg.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestPGDSNFallback(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://dsn/db")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://dsn/db" {
		t.Errorf("database url = %q, want PG_DSN fallback", cfg.DatabaseURL)
	}
}

func TestBadTickIntervalIgnored(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "soon")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickInterval != 30*time.Second {
		t.Errorf("tick interval = %v, want default kept", cfg.TickInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"postgres mode requires url", Config{}, true},
		{"in-memory needs no url", Config{InMemory: true}, false},
		{"postgres with url", Config{DatabaseURL: "postgres://x/y"}, false},
		{"mqtt without broker", Config{InMemory: true, MQTT: MQTTConfig{Enabled: true}}, true},
		{"mqtt with broker", Config{InMemory: true, MQTT: MQTTConfig{Enabled: true, Broker: "tcp://b:1883"}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
