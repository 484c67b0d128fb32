package frame

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// SLIP control bytes.
const (
	slipEnd    byte = 0xC0
	slipEsc    byte = 0xDB
	slipEscEnd byte = 0xDC
	slipEscEsc byte = 0xDD
)

var (
	ErrShortHeader    = errors.New("frame: short size prefix")
	ErrTruncated      = errors.New("frame: truncated packet")
	ErrPacketTooLarge = errors.New("frame: packet too large")
	ErrInvalidSize    = errors.New("frame: invalid packet size")
	ErrInvalidEscape  = errors.New("frame: invalid slip escape")
	ErrUnknownMode    = errors.New("frame: unknown mode")
)

// Mode selects how packets are delimited on a byte stream.
type Mode int

const (
	// ModeSize prefixes each packet with its 4-byte big-endian length.
	ModeSize Mode = iota
	// ModeSLIP wraps each packet in double-END SLIP framing.
	ModeSLIP
)

func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "size", "length":
		return ModeSize, nil
	case "slip":
		return ModeSLIP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeSize:
		return "size"
	case ModeSLIP:
		return "slip"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPacketBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxPacketBytes: 64 * 1024}
}

// WritePacket writes one framed packet to w.
func WritePacket(w io.Writer, packet []byte, mode Mode, limits Limits) error {
	if len(packet) > limits.MaxPacketBytes {
		return ErrPacketTooLarge
	}
	switch mode {
	case ModeSize:
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(packet)))
		if _, err := w.Write(size[:]); err != nil {
			return err
		}
		_, err := w.Write(packet)
		return err
	case ModeSLIP:
		_, err := w.Write(slipEncode(packet))
		return err
	default:
		return ErrUnknownMode
	}
}

func slipEncode(packet []byte) []byte {
	out := make([]byte, 0, len(packet)+2)
	out = append(out, slipEnd)
	for _, b := range packet {
		switch b {
		case slipEnd:
			out = append(out, slipEsc, slipEscEnd)
		case slipEsc:
			out = append(out, slipEsc, slipEscEsc)
		default:
			out = append(out, b)
		}
	}
	return append(out, slipEnd)
}

// Reader reads framed packets from a stream.
type Reader struct {
	r      *bufio.Reader
	mode   Mode
	limits Limits
}

func NewReader(r io.Reader, mode Mode, limits Limits) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br, mode: mode, limits: limits}
}

// ReadPacket returns the next packet, or io.EOF at a clean end of stream.
func (r *Reader) ReadPacket() ([]byte, error) {
	var (
		packet []byte
		err    error
	)
	switch r.mode {
	case ModeSize:
		packet, err = r.readSized()
	case ModeSLIP:
		packet, err = r.readSLIP()
	default:
		return nil, ErrUnknownMode
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("mode", r.mode.String()).Int("bytes", len(packet)).Msg("frame read")
	return packet, nil
}

func (r *Reader) readSized() ([]byte, error) {
	var size [4]byte
	if _, err := io.ReadFull(r.r, size[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortHeader
		}
		return nil, err
	}
	n := int32(binary.BigEndian.Uint32(size[:]))
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if int(n) > r.limits.MaxPacketBytes {
		return nil, ErrPacketTooLarge
	}
	packet := make([]byte, n)
	if _, err := io.ReadFull(r.r, packet); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}
	return packet, nil
}

func (r *Reader) readSLIP() ([]byte, error) {
	packet := make([]byte, 0, 64)
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(packet) == 0 {
					return nil, io.EOF
				}
				return nil, ErrTruncated
			}
			return nil, err
		}
		switch b {
		case slipEnd:
			// Back-to-back END bytes delimit empty frames.
			if len(packet) == 0 {
				continue
			}
			return packet, nil
		case slipEsc:
			next, err := r.r.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, ErrTruncated
				}
				return nil, err
			}
			switch next {
			case slipEscEnd:
				b = slipEnd
			case slipEscEsc:
				b = slipEsc
			default:
				return nil, ErrInvalidEscape
			}
		}
		if len(packet) >= r.limits.MaxPacketBytes {
			return nil, ErrPacketTooLarge
		}
		packet = append(packet, b)
	}
}
