package network

import "time"

// absentTimestamp is the wire sentinel for "no timestamp".
const absentTimestamp uint16 = 0xFFFF

// Clock is a frozen monotonic millisecond clock. The event loop calls Tick
// once per iteration; every decision taken within that iteration then reads
// the same Now value. There is no ambient global clock.
type Clock struct {
	base   time.Time
	frozen uint64
}

// NewClock returns a ticked clock based at the current instant.
func NewClock() *Clock {
	c := &Clock{base: time.Now()}
	c.Tick()
	return c
}

// Tick refreshes the frozen snapshot and returns it.
func (c *Clock) Tick() uint64 {
	c.frozen = uint64(time.Since(c.base).Milliseconds())
	return c.frozen
}

// Now returns the snapshot taken by the last Tick.
func (c *Clock) Now() uint64 {
	return c.frozen
}

// Timestamp16 folds the frozen clock into the 16-bit wire timestamp,
// stepping over the sentinel so a real timestamp never reads as "absent".
func (c *Clock) Timestamp16() uint16 {
	ts := uint16(c.frozen % 65536)
	if ts == absentTimestamp {
		ts++
	}
	return ts
}

// TimestampDiff returns (tsnew - tsold) mod 2^16. The wire clock wraps every
// 65.536 seconds, so differences must be taken modularly, never by widening
// subtraction.
func TimestampDiff(tsnew, tsold uint16) uint16 {
	return tsnew - tsold
}
