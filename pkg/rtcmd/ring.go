package rtcmd

import "sync/atomic"

// Ring is a bounded, lock-free single-producer/single-consumer queue of
// RtCommand records. Exactly one control thread may call Push; exactly
// one RT thread may call Pop. Capacity is rounded up to a power of two
// (minimum 2); usable slots are capacity-1, the classic one-slot-empty
// SPSC discipline that lets Push/Pop distinguish full from empty without
// a separate count field.
//
// The two cursors are padded onto separate cache lines so the producer
// and consumer never contend on the same line while spinning on each
// other's cursor.
type Ring struct {
	writer cacheLinePad
	reader cacheLinePad

	overflow atomic.Bool

	slots []RtCommand
	mask  uint64
}

type cacheLinePad struct {
	cursor atomic.Uint64
	_      [56]byte // pad struct to 64 bytes alongside the 8-byte cursor
}

// NewRing creates a ring with capacity rounded up to the next power of
// two, at least 2.
func NewRing(requestedCapacity int) *Ring {
	capacity := nextPowerOfTwo(requestedCapacity)
	if capacity < 2 {
		capacity = 2
	}
	return &Ring{
		slots: make([]RtCommand, capacity),
		mask:  uint64(capacity - 1),
	}
}

// Capacity returns the ring's power-of-two slot count.
func (r *Ring) Capacity() int {
	return len(r.slots)
}

// Size returns the number of commands currently queued. Safe to call
// from either thread for telemetry; the result may be stale by the time
// it is read.
func (r *Ring) Size() int {
	w := r.writer.cursor.Load()
	rd := r.reader.cursor.Load()
	return int(w - rd)
}

// Push enqueues cmd. Called only by the single producer (a control
// thread). Returns false and latches the overflow flag if the ring is
// full; never allocates or blocks.
func (r *Ring) Push(cmd RtCommand) bool {
	debugEnterProducer()
	defer debugLeaveProducer()

	w := r.writer.cursor.Load()
	rd := r.reader.cursor.Load() // acquire: synchronizes with the reader's release store
	if w-rd >= uint64(len(r.slots))-1 {
		r.overflow.Store(true)
		return false
	}
	r.slots[w&r.mask] = cmd
	r.writer.cursor.Store(w + 1) // release: publishes the slot write to the reader
	return true
}

// Pop dequeues the oldest command into *out. Called only by the single
// consumer (the RT thread). Returns false if the ring is empty.
func (r *Ring) Pop(out *RtCommand) bool {
	rd := r.reader.cursor.Load()
	w := r.writer.cursor.Load() // acquire: synchronizes with the writer's release store
	if rd == w {
		return false
	}
	*out = r.slots[rd&r.mask]
	r.reader.cursor.Store(rd + 1) // release
	return true
}

// Clear drains the ring and clears the overflow flag. Defined only when
// no producer is active concurrently; it resets the reader cursor to
// equal the writer cursor.
func (r *Ring) Clear() {
	w := r.writer.cursor.Load()
	r.reader.cursor.Store(w)
	r.overflow.Store(false)
}

// OverflowFlagAndReset reports whether a push has failed since the last
// call (or since creation/Clear), and clears the flag. Returns true at
// most once per overflow event.
func (r *Ring) OverflowFlagAndReset() bool {
	return r.overflow.Swap(false)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	p := 1
	for n > 0 {
		n >>= 1
		p <<= 1
	}
	return p
}
