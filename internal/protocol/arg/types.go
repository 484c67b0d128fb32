package arg

import "math/big"

// Tag characters from the type-tag contract.
const (
	TagInt32      byte = 'i'
	TagFloat32    byte = 'f'
	TagString     byte = 's'
	TagBlob       byte = 'b'
	TagInt64      byte = 'h'
	TagFloat64    byte = 'd'
	TagChar       byte = 'c'
	TagTrue       byte = 'T'
	TagFalse      byte = 'F'
	TagNil        byte = 'N'
	TagArrayOpen  byte = '['
	TagArrayClose byte = ']'
)

// Value is one message argument. The set of implementations is closed to this package.
type Value interface {
	isValue()
}

// Int32 is a 32-bit big-endian integer argument.
type Int32 int32

// Float32 is a 32-bit IEEE 754 argument.
type Float32 float32

// String is a null-terminated, padded string argument.
type String string

// Blob is a size-prefixed, padded byte sequence argument.
type Blob []byte

// Int64 is a 64-bit big-endian integer argument.
type Int64 int64

// Float64 is a 64-bit IEEE 754 argument.
type Float64 float64

// Char is an ASCII character sent as a 32-bit value.
type Char byte

// Bool is carried by its tag alone.
type Bool bool

// Nil carries no payload.
type Nil struct{}

// BigInt is an arbitrary-precision integer. Only its low 64 bits are sent,
// in two's complement, under the Int64 tag.
type BigInt struct {
	Int *big.Int
}

// Array is a bracketed sub-sequence of arguments.
type Array []Value

// Any holds a Go value whose argument kind is resolved at encode time.
// Unsupported values surface as ErrUnsupportedType when the tag is resolved.
type Any struct {
	V any
}

func (Int32) isValue()   {}
func (Float32) isValue() {}
func (String) isValue()  {}
func (Blob) isValue()    {}
func (Int64) isValue()   {}
func (Float64) isValue() {}
func (Char) isValue()    {}
func (Bool) isValue()    {}
func (Nil) isValue()     {}
func (BigInt) isValue()  {}
func (Array) isValue()   {}
func (Any) isValue()     {}

// NewBigInt copies v into a BigInt argument.
func NewBigInt(v *big.Int) BigInt {
	if v == nil {
		return BigInt{}
	}
	return BigInt{Int: new(big.Int).Set(v)}
}

// ArrayOf builds an array from generic Go values. Elements are resolved lazily.
func ArrayOf(vs ...any) Array {
	out := make(Array, 0, len(vs))
	for _, v := range vs {
		if val, ok := v.(Value); ok {
			out = append(out, val)
			continue
		}
		out = append(out, Any{V: v})
	}
	return out
}

var low64 = new(big.Int).SetUint64(^uint64(0))

// Low64 returns the low 64 bits of the integer in two's complement.
func (b BigInt) Low64() int64 {
	if b.Int == nil {
		return 0
	}
	return int64(new(big.Int).And(b.Int, low64).Uint64())
}
