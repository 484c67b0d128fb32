package arg

import (
	"math"
	"math/big"
	"reflect"
)

// Resolve maps v onto a concrete argument kind. Any wrappers are unwrapped and
// generic Go values are converted; array elements are left for the caller to walk.
func Resolve(v any) (Value, error) {
	return ResolveAt(v, nil)
}

// ResolveAt is Resolve with the argument path reported on failure.
func ResolveAt(v any, path []int) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Nil{}, nil
	case Any:
		return ResolveAt(x.V, path)
	case BigInt:
		if x.Int == nil {
			return nil, unsupported(x.Int, path)
		}
		return x, nil
	case Value:
		return x, nil
	case int32:
		return Int32(x), nil
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return Int32(x), nil
		}
		return Int64(x), nil
	case int64:
		return Int64(x), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float64(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Blob(x), nil
	case bool:
		return Bool(x), nil
	case *big.Int:
		if x == nil {
			return nil, unsupported(x, path)
		}
		return BigInt{Int: x}, nil
	case big.Int:
		return NewBigInt(&x), nil
	case []Value:
		return Array(x), nil
	case []any:
		return ArrayOf(x...), nil
	default:
		return resolveSlice(v, path)
	}
}

// resolveSlice accepts typed Go slices and arrays. Elements are wrapped with
// Any so an unsupported element fails when the array is walked.
func resolveSlice(v any, path []int) (Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Blob(rv.Bytes()), nil
		}
	case reflect.Array:
	default:
		return nil, unsupported(v, path)
	}
	out := make(Array, rv.Len())
	for i := range out {
		out[i] = Any{V: rv.Index(i).Interface()}
	}
	return out, nil
}

// TagOf returns the tag of a single value. Arrays report their opening bracket.
func TagOf(v any) (byte, error) {
	r, err := Resolve(v)
	if err != nil {
		return 0, err
	}
	return tag(r), nil
}

// AppendTags appends one tag per argument to dst, bracketing array contents.
func AppendTags(dst []byte, args []Value) ([]byte, error) {
	return appendTags(dst, args, nil)
}

func appendTags(dst []byte, args []Value, path []int) ([]byte, error) {
	for i, a := range args {
		at := append(path[:len(path):len(path)], i)
		v, err := ResolveAt(a, at)
		if err != nil {
			return dst, err
		}
		arr, ok := v.(Array)
		if !ok {
			dst = append(dst, tag(v))
			continue
		}
		dst = append(dst, TagArrayOpen)
		dst, err = appendTags(dst, arr, at)
		if err != nil {
			return dst, err
		}
		dst = append(dst, TagArrayClose)
	}
	return dst, nil
}

func tag(v Value) byte {
	switch x := v.(type) {
	case Int32:
		return TagInt32
	case Float32:
		return TagFloat32
	case String:
		return TagString
	case Blob:
		return TagBlob
	case Int64, BigInt:
		return TagInt64
	case Float64:
		return TagFloat64
	case Char:
		return TagChar
	case Bool:
		if x {
			return TagTrue
		}
		return TagFalse
	case Nil:
		return TagNil
	case Array:
		return TagArrayOpen
	default:
		return 0
	}
}
