package protocol

import "github.com/danmuck/oscpack/internal/protocol/arg"

func argumentAs[T arg.Value](m *Message, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(m.args) {
		return zero, ErrArgumentIndex
	}
	v, err := arg.Resolve(m.args[i])
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, ErrArgumentTypeMismatch
	}
	return out, nil
}

// Int32At returns argument i as an int32.
func (m *Message) Int32At(i int) (int32, error) {
	v, err := argumentAs[arg.Int32](m, i)
	return int32(v), err
}

// Int64At returns argument i as an int64. Big integers report their low 64 bits.
func (m *Message) Int64At(i int) (int64, error) {
	if b, err := argumentAs[arg.BigInt](m, i); err == nil {
		return b.Low64(), nil
	}
	v, err := argumentAs[arg.Int64](m, i)
	return int64(v), err
}

// Float32At returns argument i as a float32.
func (m *Message) Float32At(i int) (float32, error) {
	v, err := argumentAs[arg.Float32](m, i)
	return float32(v), err
}

// Float64At returns argument i as a float64.
func (m *Message) Float64At(i int) (float64, error) {
	v, err := argumentAs[arg.Float64](m, i)
	return float64(v), err
}

// StringAt returns argument i as a string.
func (m *Message) StringAt(i int) (string, error) {
	v, err := argumentAs[arg.String](m, i)
	return string(v), err
}

// BlobAt returns a copy of argument i.
func (m *Message) BlobAt(i int) ([]byte, error) {
	v, err := argumentAs[arg.Blob](m, i)
	if err != nil {
		return nil, err
	}
	return clone(v), nil
}

// BoolAt returns argument i as a bool.
func (m *Message) BoolAt(i int) (bool, error) {
	v, err := argumentAs[arg.Bool](m, i)
	return bool(v), err
}

// ArrayAt returns a copy of argument i.
func (m *Message) ArrayAt(i int) (arg.Array, error) {
	v, err := argumentAs[arg.Array](m, i)
	if err != nil {
		return nil, err
	}
	return cloneValue(v).(arg.Array), nil
}
