package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/oscpack/internal/observability"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "OSCPACK_LOG_LEVEL"
	EnvLogTimestamp = "OSCPACK_LOG_TIMESTAMP"
	EnvLogNoColor   = "OSCPACK_LOG_NOCOLOR"
	EnvLogBypass    = "OSCPACK_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		opts := defaultOptions(profile)
		applyEnvOverrides(&opts)
		observability.InitLogger("oscpack", opts)
	})
}

// SetLevel overrides the level chosen at configure time.
func SetLevel(raw string) bool {
	lvl, ok := ParseLevel(raw)
	if !ok {
		return false
	}
	zerolog.SetGlobalLevel(lvl)
	return true
}

func defaultOptions(profile Profile) observability.LoggerOptions {
	opts := observability.DefaultLoggerOptions()
	switch profile {
	case ProfileTest:
		opts.Level = zerolog.DebugLevel
		opts.Timestamp = false
	default:
		opts.Level = zerolog.InfoLevel
		opts.Timestamp = true
	}
	return opts
}

func applyEnvOverrides(opts *observability.LoggerOptions) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		opts.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		opts.Bypass = v
	}
}

// ParseLevel maps a level name onto a zerolog level. Empty and unknown names
// report false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
