package client

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the host-side connection configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Request RequestConfig `yaml:"request"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
	// BootDelay is waited after opening the port. Boards that reset on
	// DTR need it before they will answer anything.
	BootDelay time.Duration `yaml:"boot_delay"`
}

// RequestConfig contains per-command timing.
type RequestConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns sensible defaults matching the device firmware.
func DefaultConfig() Config {
	return Config{
		Serial: SerialConfig{
			Port:      "/dev/ttyACM0",
			Baud:      115200,
			BootDelay: 2200 * time.Millisecond,
		},
		Request: RequestConfig{
			Timeout: time.Second,
		},
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Serial.Baud <= 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Request.Timeout <= 0 {
		cfg.Request.Timeout = time.Second
	}
	return cfg, nil
}
