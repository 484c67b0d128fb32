package wire

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated          = errors.New("wire: truncated data")
	ErrUnterminatedString = errors.New("wire: unterminated string")
	ErrInvalidLength      = errors.New("wire: invalid length")
	ErrUnknownTypeTag     = errors.New("wire: unknown type tag")
	ErrUnbalancedArray    = errors.New("wire: unbalanced array tags")
)

// UnknownTagError names a tag with no payload rule.
type UnknownTagError struct {
	Tag byte
}

func (e UnknownTagError) Error() string {
	return fmt.Sprintf("wire: unknown type tag %q", e.Tag)
}

func (e UnknownTagError) Is(target error) bool {
	return target == ErrUnknownTypeTag
}
