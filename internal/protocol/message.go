package protocol

import (
	"fmt"
	"strings"

	"github.com/danmuck/oscpack/internal/protocol/arg"
	"github.com/danmuck/oscpack/internal/protocol/wire"
)

// Message is an address paired with ordered arguments.
// A Message is not safe for concurrent mutation.
type Message struct {
	address string
	args    []arg.Value
	rev     uint64
	cache   encodedForm
}

// NewMessage creates a message. Each argument is added with AddArgument.
func NewMessage(address string, args ...any) *Message {
	m := &Message{address: address, args: make([]arg.Value, 0, len(args))}
	for _, a := range args {
		m.AddArgument(a)
	}
	return m
}

// Address returns the receiver path. An unset address is empty.
func (m *Message) Address() string {
	return m.address
}

// SetAddress replaces the address. The address is not validated.
func (m *Message) SetAddress(address string) {
	m.address = address
	m.touch()
}

// Add appends a typed argument.
func (m *Message) Add(v arg.Value) {
	m.args = append(m.args, cloneValue(v))
	m.touch()
}

// AddArgument appends v. Go values that are not arg.Value are resolved when
// the message is encoded; unsupported ones fail there with ErrUnsupportedArgumentType.
func (m *Message) AddArgument(v any) {
	if val, ok := v.(arg.Value); ok {
		m.Add(val)
		return
	}
	m.Add(arg.Any{V: v})
}

// Arguments returns a copy of the argument list.
func (m *Message) Arguments() []arg.Value {
	out := make([]arg.Value, len(m.args))
	for i, a := range m.args {
		out[i] = cloneValue(a)
	}
	return out
}

// NumArguments returns the number of top-level arguments.
func (m *Message) NumArguments() int {
	return len(m.args)
}

// Encode recomputes the wire form and replaces the cached copy.
func (m *Message) Encode() ([]byte, error) {
	return m.cache.store(m.rev, m.encode)
}

// Bytes returns the cached wire form, encoding first when the message changed.
func (m *Message) Bytes() ([]byte, error) {
	return m.cache.get(m.rev, m.encode)
}

// TypeTags returns the tag string, including the leading comma.
func (m *Message) TypeTags() (string, error) {
	tags, err := wire.TypeTags(m.args)
	if err != nil {
		return "", err
	}
	return "," + tags, nil
}

func (m *Message) String() string {
	tags, err := m.TypeTags()
	if err != nil {
		tags = ",?"
	}
	var b strings.Builder
	b.WriteString(m.address)
	b.WriteByte(' ')
	b.WriteString(tags)
	for _, a := range m.args {
		b.WriteByte(' ')
		b.WriteString(arg.Format(a))
	}
	return b.String()
}

func (m *Message) encode() ([]byte, error) {
	e := wire.NewEmitter()
	e.WriteString(m.address)
	e.WriteChar(',')
	if err := e.WriteTypes(m.args); err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", m.address, err)
	}
	for _, a := range m.args {
		if err := e.Write(a); err != nil {
			return nil, fmt.Errorf("protocol: encode %q: %w", m.address, err)
		}
	}
	return e.Bytes(), nil
}

func (m *Message) touch() {
	m.rev++
}

func (m *Message) revision() uint64 {
	return m.rev
}

func cloneValue(v arg.Value) arg.Value {
	switch x := v.(type) {
	case arg.Blob:
		if x == nil {
			return x
		}
		return arg.Blob(clone(x))
	case arg.Array:
		out := make(arg.Array, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case arg.BigInt:
		return arg.NewBigInt(x.Int)
	case arg.Any:
		// Unsupported values stay wrapped until encode time.
		r, err := arg.Resolve(x)
		if err != nil {
			return x
		}
		return cloneValue(r)
	default:
		return v
	}
}
