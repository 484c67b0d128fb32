package protocol

// Packet is an encodable unit. Message and Bundle are the only variants.
type Packet interface {
	// Bytes returns the encoded packet, computing it when the cached form is stale.
	Bytes() ([]byte, error)
	String() string
	revision() uint64
}

// encodedForm caches a packet's bytes for the revision they were computed at.
type encodedForm struct {
	data  []byte
	rev   uint64
	valid bool
}

func (c *encodedForm) get(rev uint64, compute func() ([]byte, error)) ([]byte, error) {
	if c.valid && c.rev == rev {
		return clone(c.data), nil
	}
	return c.store(rev, compute)
}

func (c *encodedForm) store(rev uint64, compute func() ([]byte, error)) ([]byte, error) {
	data, err := compute()
	if err != nil {
		c.data, c.valid = nil, false
		return nil, err
	}
	c.data, c.rev, c.valid = data, rev, true
	return clone(data), nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
