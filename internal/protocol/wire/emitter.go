package wire

import (
	"encoding/binary"
	"math"

	"github.com/danmuck/oscpack/internal/protocol/arg"
)

// Align is the word boundary every field ends on.
const Align = 4

// PaddedLen returns the encoded size of an n-byte string: the bytes, one null
// terminator, then nulls up to the next multiple of Align.
func PaddedLen(n int) int {
	return (n/Align + 1) * Align
}

func blobPad(n int) int {
	return (Align - n%Align) % Align
}

// Emitter accumulates one packet's bytes.
type Emitter struct {
	buf []byte
}

func NewEmitter() *Emitter {
	return &Emitter{buf: make([]byte, 0, 64)}
}

// WriteString writes s, a null terminator and null padding. The field ends at
// the first null byte, so a string containing one is cut short on decode.
func (e *Emitter) WriteString(s string) {
	e.buf = append(e.buf, s...)
	e.terminate()
}

// WriteChar writes a single unpadded byte. The field is closed by a later
// WriteTypes or WriteString call.
func (e *Emitter) WriteChar(c byte) {
	e.buf = append(e.buf, c)
}

// WriteTypes writes the tags of args followed by a terminator and padding.
// Nothing is written when a tag cannot be resolved.
func (e *Emitter) WriteTypes(args []arg.Value) error {
	tags, err := arg.AppendTags(nil, args)
	if err != nil {
		return err
	}
	e.buf = append(e.buf, tags...)
	e.terminate()
	return nil
}

// Write appends the payload of one argument. Bool and Nil arguments write nothing.
func (e *Emitter) Write(v arg.Value) error {
	return e.write(v, nil)
}

func (e *Emitter) write(v arg.Value, path []int) error {
	r, err := arg.ResolveAt(v, path)
	if err != nil {
		return err
	}
	switch x := r.(type) {
	case arg.Int32:
		e.WriteInt32(int32(x))
	case arg.Float32:
		e.WriteFloat32(float32(x))
	case arg.String:
		e.WriteString(string(x))
	case arg.Blob:
		e.WriteBlob(x)
	case arg.Int64:
		e.WriteInt64(int64(x))
	case arg.BigInt:
		e.WriteInt64(x.Low64())
	case arg.Float64:
		e.WriteFloat64(float64(x))
	case arg.Char:
		e.WriteInt32(int32(x))
	case arg.Bool, arg.Nil:
	case arg.Array:
		for i, elem := range x {
			if err := e.write(elem, append(path[:len(path):len(path)], i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteBlob writes a 4-byte size, the bytes and zero padding.
func (e *Emitter) WriteBlob(b []byte) {
	e.WriteInt32(int32(len(b)))
	e.buf = append(e.buf, b...)
	for i := 0; i < blobPad(len(b)); i++ {
		e.buf = append(e.buf, 0)
	}
}

// WriteRaw appends b as-is.
func (e *Emitter) WriteRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Emitter) WriteInt32(v int32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v))
}

func (e *Emitter) WriteInt64(v int64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v))
}

func (e *Emitter) WriteUint64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

func (e *Emitter) WriteFloat32(v float32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *Emitter) WriteFloat64(v float64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// Len returns the number of bytes written so far.
func (e *Emitter) Len() int {
	return len(e.buf)
}

// Bytes returns a copy of the accumulated bytes.
func (e *Emitter) Bytes() []byte {
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

func (e *Emitter) terminate() {
	e.buf = append(e.buf, 0)
	for len(e.buf)%Align != 0 {
		e.buf = append(e.buf, 0)
	}
}

// TypeTags returns the tag field content for args, without the leading comma.
func TypeTags(args []arg.Value) (string, error) {
	tags, err := arg.AppendTags(nil, args)
	if err != nil {
		return "", err
	}
	return string(tags), nil
}
