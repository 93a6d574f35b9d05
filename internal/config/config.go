// Package config holds the daemon configuration, loadable from a TOML file
// and overridable by flags in the commands.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/driftsh/driftsh/internal/network"
)

// Config stores the server command's settings. The client command takes
// flags only and does not load it.
type Config struct {
	Network NetworkConfig `toml:"network"`
	Log     LogConfig     `toml:"log"`
}

// NetworkConfig configures the datagram transport.
type NetworkConfig struct {
	// IP is the server bind address (empty means any local interface).
	IP string `toml:"ip"`
	// Port is the server bind port (0 means sweep the port range).
	Port int `toml:"port"`
	// PortRangeLow and PortRangeHigh bound the bind sweep used when no
	// explicit port is requested.
	PortRangeLow  int `toml:"port_range_low"`
	PortRangeHigh int `toml:"port_range_high"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Network: NetworkConfig{
			PortRangeLow:  network.PortRangeLow,
			PortRangeHigh: network.PortRangeHigh,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
