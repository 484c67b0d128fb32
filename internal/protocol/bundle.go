package protocol

import (
	"fmt"
	"strings"

	"github.com/danmuck/oscpack/internal/protocol/wire"
)

// BundleTag opens every encoded bundle.
const BundleTag = "#bundle"

// Bundle groups packets under one time tag.
type Bundle struct {
	timeTag TimeTag
	packets []Packet
	rev     uint64
	cache   encodedForm
}

func NewBundle(timeTag TimeTag, packets ...Packet) *Bundle {
	b := &Bundle{timeTag: timeTag, packets: make([]Packet, 0, len(packets))}
	for _, p := range packets {
		b.AddPacket(p)
	}
	return b
}

func (b *Bundle) TimeTag() TimeTag {
	return b.timeTag
}

func (b *Bundle) SetTimeTag(t TimeTag) {
	b.timeTag = t
	b.rev++
}

// AddPacket appends p. Nil packets are ignored.
func (b *Bundle) AddPacket(p Packet) {
	if p == nil {
		return
	}
	b.packets = append(b.packets, p)
	b.rev++
}

// Packets returns a copy of the element list.
func (b *Bundle) Packets() []Packet {
	out := make([]Packet, len(b.packets))
	copy(out, b.packets)
	return out
}

// Encode recomputes the wire form and replaces the cached copy.
func (b *Bundle) Encode() ([]byte, error) {
	return b.cache.store(b.revision(), b.encode)
}

// Bytes returns the cached wire form. Mutating an element invalidates it.
func (b *Bundle) Bytes() ([]byte, error) {
	return b.cache.get(b.revision(), b.encode)
}

func (b *Bundle) String() string {
	parts := make([]string, 0, len(b.packets))
	for _, p := range b.packets {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("%s %s {%s}", BundleTag, b.timeTag, strings.Join(parts, "; "))
}

func (b *Bundle) encode() ([]byte, error) {
	e := wire.NewEmitter()
	e.WriteString(BundleTag)
	e.WriteUint64(uint64(b.timeTag))
	for i, p := range b.packets {
		data, err := p.Bytes()
		if err != nil {
			return nil, fmt.Errorf("protocol: bundle element %d: %w", i, err)
		}
		e.WriteInt32(int32(len(data)))
		e.WriteRaw(data)
	}
	return e.Bytes(), nil
}

// revision folds element revisions in so element mutation is visible here.
func (b *Bundle) revision() uint64 {
	rev := b.rev
	for _, p := range b.packets {
		rev += p.revision()
	}
	return rev
}
