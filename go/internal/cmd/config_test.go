package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tgrail/draftroom/go/internal/outbox"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	workerCfg := outbox.DefaultConfig()
	workerCfg.PollInterval, workerCfg.BatchSize, workerCfg.MaxRetries = config.outboxConfig()

	if workerCfg.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %v, want 5s", workerCfg.PollInterval)
	}
	if workerCfg.BatchSize != 100 {
		t.Errorf("batch size = %d, want 100", workerCfg.BatchSize)
	}
	if workerCfg.MaxRetries != 3 {
		t.Errorf("max retries = %d, want 3", workerCfg.MaxRetries)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
outbox:
  poll_interval_seconds: 2
  batch_size: 25
  max_retries: 7
nats:
  url: nats://broker:4222
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if got := config.serverPort(); got != "9090" {
		t.Errorf("server port = %s, want 9090", got)
	}
	if got := config.natsURL(); got != "nats://broker:4222" {
		t.Errorf("nats url = %s", got)
	}

	workerCfg := outbox.DefaultConfig()
	workerCfg.PollInterval, workerCfg.BatchSize, workerCfg.MaxRetries = config.outboxConfig()
	if workerCfg.PollInterval != 2*time.Second {
		t.Errorf("poll interval = %v, want 2s", workerCfg.PollInterval)
	}
	if workerCfg.BatchSize != 25 {
		t.Errorf("batch size = %d, want 25", workerCfg.BatchSize)
	}
	if workerCfg.MaxRetries != 7 {
		t.Errorf("max retries = %d, want 7", workerCfg.MaxRetries)
	}
}
