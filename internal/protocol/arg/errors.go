package arg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnsupportedType = errors.New("arg: unsupported argument type")

// UnsupportedTypeError reports a value with no tag or encoding.
// Path holds the argument index followed by any nested array indices.
type UnsupportedTypeError struct {
	Path   []int
	GoType string
}

func (e UnsupportedTypeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("arg: unsupported argument type %s", e.GoType)
	}
	parts := make([]string, 0, len(e.Path))
	for _, p := range e.Path {
		parts = append(parts, strconv.Itoa(p))
	}
	return fmt.Sprintf("arg: unsupported argument type %s at argument %s", e.GoType, strings.Join(parts, "."))
}

func (e UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

func unsupported(v any, path []int) error {
	p := make([]int, len(path))
	copy(p, path)
	return UnsupportedTypeError{Path: p, GoType: fmt.Sprintf("%T", v)}
}
