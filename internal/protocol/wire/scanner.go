package wire

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/danmuck/oscpack/internal/protocol/arg"
)

// Scanner reads fields written by an Emitter.
type Scanner struct {
	buf []byte
	off int
}

func NewScanner(b []byte) *Scanner {
	return &Scanner{buf: b}
}

// Remaining returns the number of unread bytes.
func (s *Scanner) Remaining() int {
	return len(s.buf) - s.off
}

// ReadString reads a null-terminated, padded string.
func (s *Scanner) ReadString() (string, error) {
	rest := s.buf[s.off:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return "", ErrUnterminatedString
	}
	size := PaddedLen(n)
	if size > len(rest) {
		return "", ErrTruncated
	}
	str := string(rest[:n])
	s.off += size
	return str, nil
}

// ReadBlob reads a size-prefixed, padded byte sequence.
func (s *Scanner) ReadBlob() ([]byte, error) {
	size, err := s.ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, ErrInvalidLength
	}
	n := int(size)
	if n+blobPad(n) > s.Remaining() {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, s.buf[s.off:s.off+n])
	s.off += n + blobPad(n)
	return out, nil
}

// ReadBytes reads exactly n unpadded bytes.
func (s *Scanner) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	if n > s.Remaining() {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, s.buf[s.off:s.off+n])
	s.off += n
	return out, nil
}

func (s *Scanner) ReadInt32() (int32, error) {
	if s.Remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint32(s.buf[s.off : s.off+4])
	s.off += 4
	return int32(v), nil
}

func (s *Scanner) ReadUint64() (uint64, error) {
	if s.Remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint64(s.buf[s.off : s.off+8])
	s.off += 8
	return v, nil
}

func (s *Scanner) ReadInt64() (int64, error) {
	v, err := s.ReadUint64()
	return int64(v), err
}

func (s *Scanner) ReadFloat32() (float32, error) {
	v, err := s.ReadInt32()
	return math.Float32frombits(uint32(v)), err
}

func (s *Scanner) ReadFloat64() (float64, error) {
	v, err := s.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadArguments reads one payload per tag, rebuilding arrays from bracket tags.
func (s *Scanner) ReadArguments(tags string) ([]arg.Value, error) {
	args, next, err := s.readArguments(tags, 0, false)
	if err != nil {
		return nil, err
	}
	if next != len(tags) {
		return nil, ErrUnbalancedArray
	}
	return args, nil
}

func (s *Scanner) readArguments(tags string, i int, nested bool) ([]arg.Value, int, error) {
	args := make([]arg.Value, 0, len(tags)-i)
	for i < len(tags) {
		t := tags[i]
		i++
		switch t {
		case arg.TagArrayOpen:
			elems, next, err := s.readArguments(tags, i, true)
			if err != nil {
				return nil, 0, err
			}
			args = append(args, arg.Array(elems))
			i = next
		case arg.TagArrayClose:
			if !nested {
				return nil, 0, ErrUnbalancedArray
			}
			return args, i, nil
		default:
			v, err := s.readValue(t)
			if err != nil {
				return nil, 0, err
			}
			args = append(args, v)
		}
	}
	if nested {
		return nil, 0, ErrUnbalancedArray
	}
	return args, i, nil
}

func (s *Scanner) readValue(t byte) (arg.Value, error) {
	switch t {
	case arg.TagInt32:
		v, err := s.ReadInt32()
		return arg.Int32(v), err
	case arg.TagFloat32:
		v, err := s.ReadFloat32()
		return arg.Float32(v), err
	case arg.TagString:
		v, err := s.ReadString()
		return arg.String(v), err
	case arg.TagBlob:
		v, err := s.ReadBlob()
		return arg.Blob(v), err
	case arg.TagInt64:
		v, err := s.ReadInt64()
		return arg.Int64(v), err
	case arg.TagFloat64:
		v, err := s.ReadFloat64()
		return arg.Float64(v), err
	case arg.TagChar:
		v, err := s.ReadInt32()
		return arg.Char(byte(v)), err
	case arg.TagTrue:
		return arg.Bool(true), nil
	case arg.TagFalse:
		return arg.Bool(false), nil
	case arg.TagNil:
		return arg.Nil{}, nil
	default:
		return nil, UnknownTagError{Tag: t}
	}
}
