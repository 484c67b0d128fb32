package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/oscpack/internal/config"
	"github.com/danmuck/oscpack/internal/logging"
	"github.com/danmuck/oscpack/internal/observability"
	"github.com/danmuck/oscpack/internal/protocol"
	"github.com/danmuck/oscpack/internal/protocol/frame"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const usage = "usage: oscpack [-config settings.toml] encode|decode|template [flags]"

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	global := flag.NewFlagSet("oscpack", flag.ContinueOnError)
	configPath := global.String("config", "", "settings file (toml)")
	if err := global.Parse(args); err != nil {
		return err
	}
	cfg, err := loadSettings(*configPath)
	if err != nil {
		return err
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	rest := global.Args()
	if len(rest) == 0 {
		return errors.New(usage)
	}
	switch rest[0] {
	case "encode":
		err = runEncode(rest[1:], &cfg, stdout)
	case "decode":
		err = runDecode(rest[1:], &cfg, stdin, stdout)
	case "template":
		return runTemplate(rest[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", rest[0], usage)
	}
	if err != nil {
		return err
	}
	if cfg.Metrics {
		return logMetrics()
	}
	return nil
}

func commandFlags(name string, cfg *settings) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Format, "format", cfg.Format, "hex|raw")
	fs.StringVar(&cfg.Framing, "framing", cfg.Framing, "none|size|slip")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "log codec counters on exit")
	return fs
}

func runEncode(args []string, cfg *settings, stdout io.Writer) error {
	fs := commandFlags("encode", cfg)
	input := fs.String("input", "", "packet description file (.toml, .yaml, .yml)")
	output := fs.String("output", "-", "output path, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateSettings(*cfg); err != nil {
		return err
	}
	if strings.TrimSpace(*input) == "" {
		return errors.New("encode: -input is required")
	}

	f, err := config.LoadPacketFile(*input)
	if err != nil {
		return err
	}
	packets, err := config.Packets(f)
	if err != nil {
		return fmt.Errorf("encode %s: %w", *input, err)
	}

	encoded := make([][]byte, 0, len(packets))
	for i, p := range packets {
		b, err := p.Bytes()
		observability.RecordEncode(packetKind(p), len(b), err)
		if err != nil {
			return fmt.Errorf("encode packet %d: %w", i, err)
		}
		log.Debug().Int("index", i).Int("bytes", len(b)).Str("packet", p.String()).Msg("packet encoded")
		encoded = append(encoded, b)
	}

	w, err := openOutput(*output, stdout)
	if err != nil {
		return err
	}
	if err := writePackets(w, encoded, *cfg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", *output, err)
	}
	log.Info().
		Int("packets", len(encoded)).
		Str("format", cfg.Format).
		Str("framing", cfg.Framing).
		Str("output", *output).
		Msg("encode complete")
	return nil
}

func writePackets(w io.Writer, packets [][]byte, cfg settings) error {
	if cfg.Framing == framingNone {
		for _, p := range packets {
			if len(p) > cfg.Limits.MaxPacketBytes {
				return frame.ErrPacketTooLarge
			}
		}
		switch cfg.Format {
		case formatHex:
			for _, p := range packets {
				if _, err := fmt.Fprintln(w, hex.EncodeToString(p)); err != nil {
					return err
				}
			}
			return nil
		default:
			if len(packets) != 1 {
				return fmt.Errorf("raw output without framing needs exactly one packet, have %d", len(packets))
			}
			_, err := w.Write(packets[0])
			return err
		}
	}

	mode, err := frame.ParseMode(cfg.Framing)
	if err != nil {
		return err
	}
	var stream bytes.Buffer
	for _, p := range packets {
		if err := frame.WritePacket(&stream, p, mode, cfg.Limits); err != nil {
			return err
		}
	}
	if cfg.Format == formatHex {
		_, err = fmt.Fprintln(w, hex.EncodeToString(stream.Bytes()))
		return err
	}
	_, err = w.Write(stream.Bytes())
	return err
}

func runDecode(args []string, cfg *settings, stdin io.Reader, stdout io.Writer) error {
	fs := commandFlags("decode", cfg)
	input := fs.String("input", "-", "encoded input path, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateSettings(*cfg); err != nil {
		return err
	}

	data, err := readInput(*input, stdin)
	if err != nil {
		return err
	}
	packets, err := splitPackets(data, *cfg)
	if err != nil {
		return err
	}

	for i, b := range packets {
		p, err := protocol.Decode(b)
		if err != nil {
			observability.RecordDecode("unknown", len(b), err)
			return fmt.Errorf("decode packet %d: %w", i, err)
		}
		observability.RecordDecode(packetKind(p), len(b), nil)
		if _, err := fmt.Fprintln(stdout, p.String()); err != nil {
			return err
		}
	}
	log.Info().Int("packets", len(packets)).Str("framing", cfg.Framing).Msg("decode complete")
	return nil
}

func splitPackets(data []byte, cfg settings) ([][]byte, error) {
	if cfg.Framing == framingNone {
		if cfg.Format == formatRaw {
			return [][]byte{data}, nil
		}
		packets := make([][]byte, 0)
		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 4096), 2*cfg.Limits.MaxPacketBytes+2)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			b, err := hex.DecodeString(line)
			if err != nil {
				return nil, fmt.Errorf("decode hex line %d: %w", len(packets), err)
			}
			packets = append(packets, b)
		}
		return packets, sc.Err()
	}

	mode, err := frame.ParseMode(cfg.Framing)
	if err != nil {
		return nil, err
	}
	if cfg.Format == formatHex {
		data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
		if err != nil {
			return nil, fmt.Errorf("decode hex stream: %w", err)
		}
	}
	r := frame.NewReader(bytes.NewReader(data), mode, cfg.Limits)
	packets := make([][]byte, 0)
	for {
		p, err := r.ReadPacket()
		if errors.Is(err, io.EOF) {
			return packets, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", len(packets), err)
		}
		packets = append(packets, p)
	}
}

func runTemplate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	kind := fs.String("kind", "packets", "template kind: packets|settings")
	output := fs.String("output", "", "output path (defaults to stdout)")
	force := fs.Bool("force", false, "overwrite existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		tmpl, err := config.Template(*kind)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, tmpl)
		return err
	}
	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		return err
	}
	log.Info().Str("kind", *kind).Str("path", *output).Msg("wrote template")
	return nil
}

func logMetrics() error {
	samples, err := observability.CounterSnapshot(prometheus.DefaultGatherer)
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, s := range samples {
		log.Info().Str("metric", s.Key).Float64("value", s.Value).Msg("codec counter")
	}
	return nil
}

func packetKind(p protocol.Packet) string {
	switch p.(type) {
	case *protocol.Bundle:
		return "bundle"
	default:
		return "message"
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

var createOutput = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
}

func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	f, err := createOutput(path)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return f, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
