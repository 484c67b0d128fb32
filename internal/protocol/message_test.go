package protocol

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/danmuck/oscpack/internal/protocol/arg"
	"github.com/danmuck/oscpack/internal/testutil/testlog"
)

type customObject struct{ name string }

func mustBytes(t *testing.T, p Packet) []byte {
	t.Helper()
	b, err := p.Bytes()
	if err != nil {
		t.Fatalf("encode %s: %v", p, err)
	}
	return b
}

func TestEncodeEmptyArguments(t *testing.T) {
	testlog.Start(t)
	got := mustBytes(t, NewMessage("/foo"))
	want := []byte("/foo\x00\x00\x00\x00,\x00\x00\x00")
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEncodeSingleInt(t *testing.T) {
	testlog.Start(t)
	got := mustBytes(t, NewMessage("/x", 1))
	want := []byte{
		'/', 'x', 0, 0,
		',', 'i', 0, 0,
		0, 0, 0, 1,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEncodeMixedArgumentsWithNestedArray(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/a", float32(0.5), "hi", true, arg.ArrayOf(int32(1), false))
	got := mustBytes(t, msg)
	want := []byte{
		'/', 'a', 0, 0,
		',', 'f', 's', 'T', '[', 'i', 'F', ']', 0, 0, 0, 0,
		0x3f, 0, 0, 0,
		'h', 'i', 0, 0,
		0, 0, 0, 1,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEncodeSupplementalKinds(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/k")
	msg.Add(arg.Blob{1, 2, 3, 4, 5})
	msg.Add(arg.Float64(1))
	msg.Add(arg.Char('A'))
	msg.Add(arg.Nil{})
	got := mustBytes(t, msg)
	want := []byte{
		'/', 'k', 0, 0,
		',', 'b', 'd', 'c', 'N', 0, 0, 0,
		0, 0, 0, 5, 1, 2, 3, 4, 5, 0, 0, 0,
		0x3f, 0xf0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 'A',
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEncodeBigIntUsesLow64Bits(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/big", big.NewInt(-2))
	got := mustBytes(t, msg)
	want := []byte{
		'/', 'b', 'i', 'g', 0, 0, 0, 0,
		',', 'h', 0, 0,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	huge, _ := new(big.Int).SetString("18446744073709551617", 10) // 2^64 + 1
	v, err := NewMessage("/big", huge).Int64At(0)
	if err != nil || v != 1 {
		t.Fatalf("expected low bits 1, got %d err=%v", v, err)
	}
}

func TestEncodedLengthIsWordAligned(t *testing.T) {
	testlog.Start(t)
	addresses := []string{"", "/", "/ab", "/abc", "/abcd", "/mixer/channel/12/fader"}
	argSets := [][]any{
		nil,
		{int32(7)},
		{"a", "ab", "abc", "abcd"},
		{[]byte{1}, []byte{1, 2, 3, 4}, true, false, nil},
		{arg.ArrayOf("x", arg.ArrayOf(1, 2.5), []byte{9}), int64(3)},
	}
	for _, address := range addresses {
		for _, args := range argSets {
			b := mustBytes(t, NewMessage(address, args...))
			if len(b)%4 != 0 {
				t.Fatalf("address=%q args=%v: length %d not aligned", address, args, len(b))
			}
		}
	}
}

func TestTypeTagsFollowArgumentOrder(t *testing.T) {
	testlog.Start(t)
	args := []any{"s", int32(1), float32(2), false, true, int64(9), 3.5, []byte{}, nil}
	msg := NewMessage("/order", args...)
	tags, err := msg.TypeTags()
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if tags != ",sifFThdbN" {
		t.Fatalf("unexpected tags %q", tags)
	}
	b := mustBytes(t, msg)
	if !bytes.HasPrefix(b[8:], []byte(tags)) {
		t.Fatalf("encoded tag field does not match %q: %q", tags, b[8:20])
	}
	for i, a := range args {
		want, err := arg.TagOf(a)
		if err != nil {
			t.Fatalf("tag of %v: %v", a, err)
		}
		if tags[i+1] != want {
			t.Fatalf("tag[%d]=%q want %q", i, tags[i+1], want)
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	testlog.Start(t)
	first := mustBytes(t, NewMessage("/d", "x", 1, arg.ArrayOf(true)))
	second := mustBytes(t, NewMessage("/d", "x", 1, arg.ArrayOf(true)))
	if !bytes.Equal(first, second) {
		t.Fatalf("encoding differs: %v vs %v", first, second)
	}

	msg := NewMessage("/d", "x")
	a, err := msg.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := msg.Encode()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("re-encode differs")
	}
}

func TestEncodeUnsupportedArgumentType(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/bad", 1)
	msg.AddArgument(customObject{name: "x"})

	b, err := msg.Encode()
	if !errors.Is(err, ErrUnsupportedArgumentType) {
		t.Fatalf("expected ErrUnsupportedArgumentType, got %v", err)
	}
	if b != nil {
		t.Fatalf("expected no bytes, got %v", b)
	}
	var unsupported UnsupportedArgumentTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedArgumentTypeError, got %T", err)
	}
	if len(unsupported.Path) != 1 || unsupported.Path[0] != 1 {
		t.Fatalf("unexpected path %v", unsupported.Path)
	}
	if _, err := msg.Bytes(); !errors.Is(err, ErrUnsupportedArgumentType) {
		t.Fatalf("expected cached call to fail too, got %v", err)
	}
}

func TestEncodeUnsupportedNestedArrayElement(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/bad", arg.ArrayOf(1, arg.ArrayOf("ok", make(chan int))))
	_, err := msg.Bytes()
	var unsupported UnsupportedArgumentTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedArgumentTypeError, got %v", err)
	}
	if len(unsupported.Path) != 3 || unsupported.Path[0] != 0 || unsupported.Path[1] != 1 || unsupported.Path[2] != 1 {
		t.Fatalf("unexpected path %v", unsupported.Path)
	}
	if unsupported.GoType != "chan int" {
		t.Fatalf("unexpected go type %q", unsupported.GoType)
	}
}

func TestMutationAfterEncodeIsReflected(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/m", 1)
	before := mustBytes(t, msg)

	msg.AddArgument("two")
	after := mustBytes(t, msg)
	if bytes.Equal(before, after) {
		t.Fatalf("cache not invalidated by AddArgument")
	}
	want := mustBytes(t, NewMessage("/m", 1, "two"))
	if !bytes.Equal(after, want) {
		t.Fatalf("got %v want %v", after, want)
	}

	msg.SetAddress("/n")
	renamed := mustBytes(t, msg)
	if !bytes.Equal(renamed, mustBytes(t, NewMessage("/n", 1, "two"))) {
		t.Fatalf("cache not invalidated by SetAddress")
	}
}

func TestBytesReturnsIndependentCopies(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/c", 1)
	a := mustBytes(t, msg)
	a[0] = 'X'
	b := mustBytes(t, msg)
	if b[0] != '/' {
		t.Fatalf("cached bytes were mutated through a returned slice")
	}
}

func TestArgumentsIsReadOnlyView(t *testing.T) {
	testlog.Start(t)
	blob := []byte{1, 2, 3}
	msg := NewMessage("/r", blob, "s")
	blob[0] = 9

	view := msg.Arguments()
	view[1] = arg.Int32(5)
	view[0].(arg.Blob)[1] = 7

	got, err := msg.BlobAt(0)
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("blob changed through caller slices: %v", got)
	}
	if s, err := msg.StringAt(1); err != nil || s != "s" {
		t.Fatalf("argument list changed through view: %q %v", s, err)
	}
}

func TestAddressIsNotValidated(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("")
	msg.SetAddress("no-slash")
	got := mustBytes(t, msg)
	if !bytes.HasPrefix(got, []byte("no-slash\x00\x00\x00\x00")) {
		t.Fatalf("unexpected address field %q", got)
	}
}

func TestArgumentAccessors(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/acc", int32(3), float32(1.5), "s", true, arg.ArrayOf(1))
	if v, err := msg.Int32At(0); err != nil || v != 3 {
		t.Fatalf("int32: %d %v", v, err)
	}
	if v, err := msg.Float32At(1); err != nil || v != 1.5 {
		t.Fatalf("float32: %v %v", v, err)
	}
	if v, err := msg.BoolAt(3); err != nil || !v {
		t.Fatalf("bool: %v %v", v, err)
	}
	if v, err := msg.ArrayAt(4); err != nil || len(v) != 1 {
		t.Fatalf("array: %v %v", v, err)
	}
	if _, err := msg.StringAt(0); !errors.Is(err, ErrArgumentTypeMismatch) {
		t.Fatalf("expected ErrArgumentTypeMismatch, got %v", err)
	}
	if _, err := msg.Int32At(9); !errors.Is(err, ErrArgumentIndex) {
		t.Fatalf("expected ErrArgumentIndex, got %v", err)
	}
}

func TestMessageString(t *testing.T) {
	testlog.Start(t)
	got := NewMessage("/s", 1, "a", arg.ArrayOf(false)).String()
	if got != `/s ,is[F] 1 "a" [false]` {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestEncodeTypedSlicesAsArrays(t *testing.T) {
	testlog.Start(t)
	msg := NewMessage("/x", []int32{1, 2}, []string{"a"})
	got := mustBytes(t, msg)
	want := []byte{
		'/', 'x', 0, 0,
		',', '[', 'i', 'i', ']', '[', 's', ']', 0, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 0, 2,
		'a', 0, 0, 0,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	for _, v := range []any{[]float32{1}, []bool{true, false}, [2]int{3, 4}} {
		if _, err := NewMessage("/x", v).Bytes(); err != nil {
			t.Fatalf("%T: %v", v, err)
		}
	}

	_, err := NewMessage("/x", []customObject{{name: "a"}}).Bytes()
	var unsupported UnsupportedArgumentTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedArgumentTypeError, got %v", err)
	}
	if len(unsupported.Path) != 2 || unsupported.Path[0] != 0 || unsupported.Path[1] != 0 {
		t.Fatalf("unexpected path %v", unsupported.Path)
	}
}
