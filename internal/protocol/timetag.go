package protocol

import "time"

// TimeTag is a 64-bit NTP timestamp: seconds since 1900 in the high word,
// fractional seconds in the low word.
type TimeTag uint64

// Immediately asks the receiver to act on arrival.
const Immediately TimeTag = 1

const ntpEpochOffset = 2208988800

// NewTimeTag converts t. Nanoseconds survive a round trip through Time.
func NewTimeTag(t time.Time) TimeTag {
	secs := uint64(t.Unix() + ntpEpochOffset)
	nanos := uint64(t.Nanosecond())
	frac := (nanos<<32 + 1e9 - 1) / 1e9
	return TimeTag(secs<<32 | frac)
}

func (t TimeTag) IsImmediate() bool {
	return t == Immediately
}

// Time returns the UTC instant t names.
func (t TimeTag) Time() time.Time {
	secs := int64(t>>32) - ntpEpochOffset
	frac := uint64(t & 0xffffffff)
	return time.Unix(secs, int64(frac*1e9>>32)).UTC()
}

func (t TimeTag) String() string {
	if t.IsImmediate() {
		return "immediately"
	}
	return t.Time().Format(time.RFC3339Nano)
}
