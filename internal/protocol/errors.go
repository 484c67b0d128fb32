package protocol

import (
	"errors"

	"github.com/danmuck/oscpack/internal/protocol/arg"
	"github.com/danmuck/oscpack/internal/protocol/wire"
)

var (
	ErrUnsupportedArgumentType = arg.ErrUnsupportedType
	ErrTruncated               = wire.ErrTruncated
	ErrUnterminatedString      = wire.ErrUnterminatedString
	ErrUnknownTypeTag          = wire.ErrUnknownTypeTag
	ErrUnbalancedArray         = wire.ErrUnbalancedArray

	ErrEmptyPacket          = errors.New("protocol: empty packet")
	ErrInvalidLength        = errors.New("protocol: invalid length")
	ErrMissingTypeTags      = errors.New("protocol: missing type tag string")
	ErrInvalidBundle        = errors.New("protocol: invalid bundle header")
	ErrTrailingBytes        = errors.New("protocol: trailing bytes after arguments")
	ErrArgumentIndex        = errors.New("protocol: argument index out of range")
	ErrArgumentTypeMismatch = errors.New("protocol: argument type mismatch")
)

// UnsupportedArgumentTypeError carries the path and Go type of the value that
// could not be encoded.
type UnsupportedArgumentTypeError = arg.UnsupportedTypeError
