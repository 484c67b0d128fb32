package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/oscpack/internal/protocol/frame"
)

// Output formats.
const (
	formatHex = "hex"
	formatRaw = "raw"
)

// framingNone writes or reads bare packets.
const framingNone = "none"

type settings struct {
	Format   string
	Framing  string
	Limits   frame.Limits
	LogLevel string
	Metrics  bool
}

type fileConfig struct {
	Format         string `toml:"format"`
	Framing        string `toml:"framing"`
	MaxPacketBytes int    `toml:"max_packet_bytes"`
	LogLevel       string `toml:"log_level"`
	Metrics        bool   `toml:"metrics"`
}

func defaultSettings() settings {
	return settings{
		Format:  formatHex,
		Framing: framingNone,
		Limits:  frame.DefaultLimits(),
	}
}

func loadSettings(path string) (settings, error) {
	cfg := defaultSettings()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return settings{}, fmt.Errorf("load settings: %w", err)
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("framing") {
		cfg.Framing = strings.ToLower(strings.TrimSpace(raw.Framing))
	}
	if meta.IsDefined("max_packet_bytes") {
		cfg.Limits.MaxPacketBytes = raw.MaxPacketBytes
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}

	if err := validateSettings(cfg); err != nil {
		return settings{}, err
	}
	return cfg, nil
}

func validateSettings(cfg settings) error {
	switch cfg.Format {
	case formatHex, formatRaw:
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.Framing != framingNone {
		if _, err := frame.ParseMode(cfg.Framing); err != nil {
			return err
		}
	}
	if cfg.Limits.MaxPacketBytes <= 0 {
		return fmt.Errorf("max_packet_bytes must be positive")
	}
	return nil
}
