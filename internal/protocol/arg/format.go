package arg

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Format renders v for logs and CLI output.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case Int32:
		return strconv.FormatInt(int64(x), 10)
	case Float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case String:
		return strconv.Quote(string(x))
	case Blob:
		return "0x" + hex.EncodeToString(x)
	case Int64:
		return strconv.FormatInt(int64(x), 10)
	case BigInt:
		if x.Int == nil {
			return "<nil>"
		}
		return x.Int.String()
	case Float64:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case Char:
		return strconv.QuoteRune(rune(x))
	case Bool:
		return strconv.FormatBool(bool(x))
	case Nil:
		return "nil"
	case Array:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, Format(e))
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Any:
		r, err := Resolve(x)
		if err != nil {
			return fmt.Sprintf("<%T>", x.V)
		}
		return Format(r)
	default:
		return fmt.Sprintf("<%T>", v)
	}
}
