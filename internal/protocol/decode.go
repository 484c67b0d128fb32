package protocol

import (
	"bytes"
	"strings"

	"github.com/danmuck/oscpack/internal/protocol/wire"
)

// Decode parses one packet. Only a leading "#bundle" string field selects the
// bundle form; any other address, including one starting with '#', is a message.
func Decode(b []byte) (Packet, error) {
	if len(b) == 0 {
		return nil, ErrEmptyPacket
	}
	if len(b)%wire.Align != 0 {
		return nil, ErrInvalidLength
	}
	if bytes.HasPrefix(b, bundleHeader) {
		return DecodeBundle(b)
	}
	return DecodeMessage(b)
}

// DecodeMessage parses a message. A message with no type-tag string is
// accepted as having no arguments.
func DecodeMessage(b []byte) (*Message, error) {
	s := wire.NewScanner(b)
	address, err := s.ReadString()
	if err != nil {
		return nil, err
	}
	msg := &Message{address: address}
	if s.Remaining() == 0 {
		return msg, nil
	}

	tags, err := s.ReadString()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(tags, ",") {
		return nil, ErrMissingTypeTags
	}
	args, err := s.ReadArguments(tags[1:])
	if err != nil {
		return nil, err
	}
	if s.Remaining() != 0 {
		return nil, ErrTrailingBytes
	}
	msg.args = args
	return msg, nil
}

var bundleHeader = []byte(BundleTag + "\x00")

// DecodeBundle parses a bundle and every nested element.
func DecodeBundle(b []byte) (*Bundle, error) {
	s := wire.NewScanner(b)
	head, err := s.ReadString()
	if err != nil {
		return nil, err
	}
	if head != BundleTag {
		return nil, ErrInvalidBundle
	}
	tt, err := s.ReadUint64()
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{timeTag: TimeTag(tt)}
	for s.Remaining() > 0 {
		size, err := s.ReadInt32()
		if err != nil {
			return nil, err
		}
		if size <= 0 || size%wire.Align != 0 {
			return nil, ErrInvalidLength
		}
		elem, err := s.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		p, err := Decode(elem)
		if err != nil {
			return nil, err
		}
		bundle.packets = append(bundle.packets, p)
	}
	return bundle, nil
}
