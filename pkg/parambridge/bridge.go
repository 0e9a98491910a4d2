// Package parambridge batches parameter writes made by control threads
// and applies them to modules from the RT thread exactly once per block,
// via a dual-page lock-free structure: one page is always the producer's
// write target, the other is frozen for the RT thread to apply.
package parambridge

import (
	"sync/atomic"

	"github.com/loopstation/rtcore/pkg/rtcmd"
)

// ParamSetter is the minimal capability the bridge needs from a module to
// apply a frozen entry. pkg/track's Module interface satisfies it.
type ParamSetter interface {
	SetParam(index uint16, value float32)
}

// Resolver resolves a Target to the module it addresses. It may return
// (nil, false); such entries are silently dropped.
type Resolver func(rtcmd.Target) (ParamSetter, bool)

// entry is one batched parameter write.
type entry struct {
	target rtcmd.Target
	index  uint16
	value  float32
}

// page is a flat, fixed-capacity batch of entries plus the bookkeeping
// needed to publish it atomically.
type page struct {
	entries  []entry
	length   atomic.Int32
	overflow atomic.Bool
}

func newPage(capacity int) *page {
	return &page{entries: make([]entry, capacity)}
}

func (p *page) reset() {
	p.length.Store(0)
	p.overflow.Store(false)
}

// Bridge is a dual-page parameter bridge: the control thread batches
// writes into a staging page, and the RT thread swaps to it once per
// block.
type Bridge struct {
	pages    [2]*page
	writeIdx atomic.Int32 // index into pages[] the producer currently targets
	resolver Resolver

	// overflowed latches true the first time any page overflows and
	// stays set until ReadOverflowed clears it; an off-RT diagnostic.
	overflowed atomic.Bool

	// drain buffer: a copy of the last-applied page, for diagnostics.
	lastApplied []entry
}

// NewBridge creates a bridge with the given per-page capacity (1024 is
// the documented default).
func NewBridge(pageCapacity int) *Bridge {
	if pageCapacity < 1 {
		pageCapacity = 1
	}
	b := &Bridge{
		pages: [2]*page{newPage(pageCapacity), newPage(pageCapacity)},
	}
	return b
}

// SetResolver binds the Target->module resolver used by SwapBuffers. Must
// be called off-RT before the stream starts.
func (b *Bridge) SetResolver(r Resolver) {
	b.resolver = r
}

// PushParam is the control-side entry point. value is clamped into
// [0,1]. If the current write-page is full, the overflow flag is set and
// the last slot is overwritten with the new entry (drop-oldest within
// the full page), preserving the latest value for that slot.
func (b *Bridge) PushParam(target rtcmd.Target, index uint16, value float32) {
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}

	p := b.pages[b.writeIdx.Load()]
	e := entry{target: target, index: index, value: value}

	length := p.length.Load()
	if int(length) >= len(p.entries) {
		p.overflow.Store(true)
		p.entries[len(p.entries)-1] = e
		return
	}
	// Single-producer contract: no other goroutine writes entries or
	// advances length, so the entry is written before length is
	// published with a plain store, not a CAS.
	p.entries[length] = e
	p.length.Store(length + 1)
}

// SwapBuffers is the RT-side entry point, called exactly once at the
// prologue of every audio block. It freezes the current write-page,
// switches the producer to the other (already-reset) page, and applies
// the frozen page's entries in insertion order via the resolver.
// Returns true if the frozen page had overflowed, for the caller's own
// per-block telemetry.
func (b *Bridge) SwapBuffers() bool {
	writeIdx := b.writeIdx.Load()
	frozen := b.pages[writeIdx]

	length := frozen.length.Load()
	overflowed := frozen.overflow.Load()
	if length == 0 && !overflowed {
		return false // idempotent no-op
	}
	if overflowed {
		b.overflowed.Store(true)
	}

	other := b.pages[1-writeIdx]
	other.reset()
	b.writeIdx.Store(1 - writeIdx)

	b.applyPage(frozen, int(length))
	return overflowed
}

// Overflowed reports whether any page has overflowed since the last
// ReadOverflowed call. Off-RT; does not clear the latch.
func (b *Bridge) Overflowed() bool {
	return b.overflowed.Load()
}

// ReadOverflowed reports and clears the overflow latch, for an off-RT
// diagnostic that wants read-and-reset semantics.
func (b *Bridge) ReadOverflowed() bool {
	return b.overflowed.Swap(false)
}

func (b *Bridge) applyPage(p *page, length int) {
	if cap(b.lastApplied) < length {
		b.lastApplied = make([]entry, length)
	} else {
		b.lastApplied = b.lastApplied[:length]
	}
	copy(b.lastApplied, p.entries[:length])

	if b.resolver == nil {
		return
	}
	for i := 0; i < length; i++ {
		e := p.entries[i]
		if module, ok := b.resolver(e.target); ok {
			module.SetParam(e.index, e.value)
		}
	}
}

// DrainEntry is the diagnostic shape returned by DrainRead.
type DrainEntry struct {
	Target rtcmd.Target
	Index  uint16
	Value  float32
}

// DrainRead copies the last-applied page's entries into dst without
// re-applying them, for diagnostics. Returns the number of entries
// copied.
func (b *Bridge) DrainRead(dst []DrainEntry) int {
	n := len(b.lastApplied)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		e := b.lastApplied[i]
		dst[i] = DrainEntry{Target: e.target, Index: e.index, Value: e.value}
	}
	return n
}
