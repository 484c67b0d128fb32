package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "packets":
		return packetsTemplate, nil
	case "settings":
		return settingsTemplate, nil
	default:
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const packetsTemplate = `[[messages]]
address = "/mixer/channel/1/fader"
args = [
  { type = "f", value = 0.75 },
]

[[messages]]
address = "/mixer/channel/1/name"
args = [
  { type = "s", value = "vocals" },
  { type = "T" },
]

[[bundles]]
time = "immediately"

[[bundles.messages]]
address = "/transport/play"

[[bundles.messages]]
address = "/scene/recall"
args = [
  { type = "i", value = 3 },
  { type = "[", items = [ { type = "s", value = "a" }, { type = "F" } ] },
]
`

const settingsTemplate = `format = "hex"
framing = "none"
max_packet_bytes = 65536
log_level = "info"
metrics = false
`
