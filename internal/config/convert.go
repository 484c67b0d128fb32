package config

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/danmuck/oscpack/internal/protocol"
	"github.com/danmuck/oscpack/internal/protocol/arg"
)

// Packets converts a description into packets, messages first.
func Packets(f PacketFile) ([]protocol.Packet, error) {
	out := make([]protocol.Packet, 0, len(f.Messages)+len(f.Bundles))
	for i, m := range f.Messages {
		msg, err := Message(m)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		out = append(out, msg)
	}
	for i, b := range f.Bundles {
		bundle, err := Bundle(b)
		if err != nil {
			return nil, fmt.Errorf("bundles[%d]: %w", i, err)
		}
		out = append(out, bundle)
	}
	return out, nil
}

func Message(cfg MessageConfig) (*protocol.Message, error) {
	msg := protocol.NewMessage(cfg.Address)
	for i, a := range cfg.Args {
		v, err := Arg(a)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		msg.Add(v)
	}
	return msg, nil
}

func Bundle(cfg BundleConfig) (*protocol.Bundle, error) {
	tt, err := ParseTimeTag(cfg.Time)
	if err != nil {
		return nil, err
	}
	bundle := protocol.NewBundle(tt)
	for i, m := range cfg.Messages {
		msg, err := Message(m)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		bundle.AddPacket(msg)
	}
	for i, b := range cfg.Bundles {
		nested, err := Bundle(b)
		if err != nil {
			return nil, fmt.Errorf("bundles[%d]: %w", i, err)
		}
		bundle.AddPacket(nested)
	}
	return bundle, nil
}

// ParseTimeTag accepts "", "immediately" or an RFC 3339 timestamp.
func ParseTimeTag(raw string) (protocol.TimeTag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "immediately") {
		return protocol.Immediately, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return protocol.NewTimeTag(t), nil
}

// Arg converts one argument description.
func Arg(cfg ArgConfig) (arg.Value, error) {
	switch strings.TrimSpace(cfg.Type) {
	case "i", "int32", "int":
		n, ok := toInt64(cfg.Value)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, valueError(cfg)
		}
		return arg.Int32(n), nil
	case "h", "int64":
		return int64Arg(cfg)
	case "f", "float32", "float":
		x, ok := toFloat64(cfg.Value)
		if !ok {
			return nil, valueError(cfg)
		}
		return arg.Float32(x), nil
	case "d", "float64", "double":
		x, ok := toFloat64(cfg.Value)
		if !ok {
			return nil, valueError(cfg)
		}
		return arg.Float64(x), nil
	case "s", "string":
		s, ok := cfg.Value.(string)
		if !ok {
			return nil, valueError(cfg)
		}
		return arg.String(s), nil
	case "b", "blob":
		return blobArg(cfg)
	case "c", "char":
		s, ok := cfg.Value.(string)
		if !ok || len(s) != 1 {
			return nil, valueError(cfg)
		}
		return arg.Char(s[0]), nil
	case "T", "true":
		return arg.Bool(true), nil
	case "F", "false":
		return arg.Bool(false), nil
	case "bool":
		b, ok := cfg.Value.(bool)
		if !ok {
			return nil, valueError(cfg)
		}
		return arg.Bool(b), nil
	case "N", "nil":
		return arg.Nil{}, nil
	case "[", "array":
		out := make(arg.Array, 0, len(cfg.Items))
		for i, item := range cfg.Items {
			v, err := Arg(item)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown argument type %q", cfg.Type)
	}
}

// int64Arg accepts an integer or a decimal string; strings may exceed 64 bits.
func int64Arg(cfg ArgConfig) (arg.Value, error) {
	if n, ok := toInt64(cfg.Value); ok {
		return arg.Int64(n), nil
	}
	s, ok := cfg.Value.(string)
	if !ok {
		return nil, valueError(cfg)
	}
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, valueError(cfg)
	}
	return arg.BigInt{Int: b}, nil
}

// blobArg accepts a hex string (optional 0x prefix) or a list of byte values.
func blobArg(cfg ArgConfig) (arg.Value, error) {
	switch v := cfg.Value.(type) {
	case nil:
		return arg.Blob{}, nil
	case string:
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(v), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", valueError(cfg), err)
		}
		return arg.Blob(b), nil
	case []any:
		out := make(arg.Blob, 0, len(v))
		for _, e := range v {
			n, ok := toInt64(e)
			if !ok || n < 0 || n > math.MaxUint8 {
				return nil, valueError(cfg)
			}
			out = append(out, byte(n))
		}
		return out, nil
	default:
		return nil, valueError(cfg)
	}
}

func valueError(cfg ArgConfig) error {
	return fmt.Errorf("invalid value %v (%T) for argument type %q", cfg.Value, cfg.Value, cfg.Type)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
