package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/oscpack/internal/protocol/arg"
	"github.com/danmuck/oscpack/internal/testutil/testlog"
)

func TestRoundTripEncodeDecode(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/mixer/fader/1",
		float32(0.75),
		"vocals",
		int32(-4),
		int64(1<<40),
		[]byte{0xaa, 0xbb},
		true,
		arg.ArrayOf(false, arg.ArrayOf("deep")),
		arg.Char('z'),
		nil,
	)
	encoded := mustBytes(t, msg)

	decoded, err := DecodeMessage(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Address() != "/mixer/fader/1" {
		t.Fatalf("unexpected address %q", decoded.Address())
	}
	if decoded.NumArguments() != msg.NumArguments() {
		t.Fatalf("argument count %d want %d", decoded.NumArguments(), msg.NumArguments())
	}
	if s, err := decoded.StringAt(1); err != nil || s != "vocals" {
		t.Fatalf("string arg: %q %v", s, err)
	}
	if v, err := decoded.Int64At(3); err != nil || v != 1<<40 {
		t.Fatalf("int64 arg: %d %v", v, err)
	}

	reencoded := mustBytes(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round-trip mismatch")
	}
	if decoded.String() != msg.String() {
		t.Fatalf("rendering mismatch: %q vs %q", decoded.String(), msg.String())
	}
}

func TestDecodeDispatch(t *testing.T) {
	testlog.Start(t)
	p, err := Decode(mustBytes(t, NewMessage("/x")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := p.(*Message); !ok {
		t.Fatalf("expected *Message, got %T", p)
	}
	if _, err := Decode(nil); !errors.Is(err, ErrEmptyPacket) {
		t.Fatalf("expected ErrEmptyPacket, got %v", err)
	}
	if _, err := Decode([]byte("/x\x00")); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestDecodeMessageWithoutTypeTags(t *testing.T) {
	testlog.Start(t)
	msg, err := DecodeMessage([]byte("/old\x00\x00\x00\x00"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.NumArguments() != 0 {
		t.Fatalf("expected no arguments, got %d", msg.NumArguments())
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	testlog.Start(t)
	b := mustBytes(t, NewMessage("/t", "abc", 5))
	_, err := DecodeMessage(b[:len(b)-4])
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeMalformedTagField(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"missing comma", []byte("/x\x00\x00ii\x00\x00\x00\x00\x00\x01"), ErrMissingTypeTags},
		{"unknown tag", []byte("/x\x00\x00,q\x00\x00"), ErrUnknownTypeTag},
		{"open array", []byte("/x\x00\x00,[i\x00\x00\x00\x00\x01"), ErrUnbalancedArray},
		{"close array", []byte("/x\x00\x00,]\x00\x00"), ErrUnbalancedArray},
		{"unterminated address", []byte("/abc"), ErrUnterminatedString},
		{"trailing bytes", []byte("/x\x00\x00,\x00\x00\x00\x00\x00\x00\x01"), ErrTrailingBytes},
	}
	for _, tc := range cases {
		if _, err := DecodeMessage(tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDecodeInvalidBundle(t *testing.T) {
	testlog.Start(t)
	if _, err := DecodeBundle([]byte("#bundlX\x00\x00\x00\x00\x00\x00\x00\x00\x01")); !errors.Is(err, ErrInvalidBundle) {
		t.Fatalf("expected ErrInvalidBundle, got %v", err)
	}
	bad := []byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x03")
	if _, err := DecodeBundle(bad); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestDecodeHashAddressIsMessage(t *testing.T) {
	testlog.Start(t)
	for _, address := range []string{"#x", "#bundles"} {
		p, err := Decode(mustBytes(t, NewMessage(address, int32(7))))
		if err != nil {
			t.Fatalf("%s: decode: %v", address, err)
		}
		msg, ok := p.(*Message)
		if !ok {
			t.Fatalf("%s: expected *Message, got %T", address, p)
		}
		if msg.Address() != address {
			t.Fatalf("unexpected address %q", msg.Address())
		}
	}
}

func TestNullInStringIsCutOnDecode(t *testing.T) {
	testlog.Start(t)
	decoded, err := DecodeMessage(mustBytes(t, NewMessage("/x", "a\x00b")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s, err := decoded.StringAt(0); err != nil || s != "a" {
		t.Fatalf("string arg: %q %v", s, err)
	}
}
