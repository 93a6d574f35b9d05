package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftsh/driftsh/internal/network"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}
	if cfg.Network.Port != 0 {
		t.Errorf("expected port 0 (sweep the range), got %d", cfg.Network.Port)
	}
	if cfg.Network.PortRangeLow != network.PortRangeLow {
		t.Errorf("expected port range low %d, got %d", network.PortRangeLow, cfg.Network.PortRangeLow)
	}
	if cfg.Network.PortRangeHigh != network.PortRangeHigh {
		t.Errorf("expected port range high %d, got %d", network.PortRangeHigh, cfg.Network.PortRangeHigh)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftsh.toml")
	data := `
[network]
ip = "192.0.2.1"
port = 60100
port_range_low = 61001
port_range_high = 61099

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Network.IP != "192.0.2.1" {
		t.Errorf("expected ip 192.0.2.1, got %s", cfg.Network.IP)
	}
	if cfg.Network.Port != 60100 {
		t.Errorf("expected port 60100, got %d", cfg.Network.Port)
	}
	if cfg.Network.PortRangeLow != 61001 {
		t.Errorf("expected port range low 61001, got %d", cfg.Network.PortRangeLow)
	}
	if cfg.Network.PortRangeHigh != 61099 {
		t.Errorf("expected port range high 61099, got %d", cfg.Network.PortRangeHigh)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/driftsh.toml"); err == nil {
		t.Error("expected error for a missing file")
	}
}
