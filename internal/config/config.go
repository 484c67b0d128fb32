package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// PacketFile describes packets to encode. Messages are emitted before bundles.
type PacketFile struct {
	Messages []MessageConfig `toml:"messages" yaml:"messages"`
	Bundles  []BundleConfig  `toml:"bundles" yaml:"bundles"`
}

type MessageConfig struct {
	Address string      `toml:"address" yaml:"address"`
	Args    []ArgConfig `toml:"args" yaml:"args"`
}

// ArgConfig is one argument. Type is a tag ("i", "f", "[" ...) or its long
// name ("int32", "float32", "array" ...). Items holds array elements.
type ArgConfig struct {
	Type  string      `toml:"type" yaml:"type"`
	Value any         `toml:"value" yaml:"value"`
	Items []ArgConfig `toml:"items" yaml:"items"`
}

// BundleConfig is a bundle. Time is "immediately" (or empty) or RFC 3339.
type BundleConfig struct {
	Time     string          `toml:"time" yaml:"time"`
	Messages []MessageConfig `toml:"messages" yaml:"messages"`
	Bundles  []BundleConfig  `toml:"bundles" yaml:"bundles"`
}

// Format names a description file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the syntax from the file extension; TOML is the default.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func LoadPacketFile(path string) (PacketFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PacketFile{}, fmt.Errorf("packet file load failed (%s): %w", path, err)
	}
	f, err := ParsePacketFile(data, FormatForPath(path))
	if err != nil {
		return PacketFile{}, fmt.Errorf("packet file parse failed (%s): %w", path, err)
	}
	return f, nil
}

func ParsePacketFile(data []byte, format Format) (PacketFile, error) {
	var f PacketFile
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return PacketFile{}, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return PacketFile{}, err
		}
	default:
		return PacketFile{}, fmt.Errorf("unknown packet file format: %s", format)
	}
	if err := ValidatePacketFile(f); err != nil {
		return PacketFile{}, err
	}
	return f, nil
}

// ValidatePacketFile checks the description is complete enough to convert.
// Addresses are not checked against any pattern.
func ValidatePacketFile(f PacketFile) error {
	if len(f.Messages) == 0 && len(f.Bundles) == 0 {
		return fmt.Errorf("packet file defines no messages or bundles")
	}
	for i, b := range f.Bundles {
		if err := validateBundle(b); err != nil {
			return fmt.Errorf("bundles[%d] invalid: %w", i, err)
		}
	}
	return nil
}

func validateBundle(b BundleConfig) error {
	if _, err := ParseTimeTag(b.Time); err != nil {
		return err
	}
	for i, nested := range b.Bundles {
		if err := validateBundle(nested); err != nil {
			return fmt.Errorf("bundles[%d] invalid: %w", i, err)
		}
	}
	return nil
}
