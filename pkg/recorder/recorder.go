// Package recorder provides a concrete, RT-safe host.RecordSink backed
// by a lock-free write-ahead ring per channel, adapted from the
// teacher's dsp/buffer.WriteAheadBuffer (itself built to absorb GC
// pauses downstream of RT writers). WriteBlock never allocates or
// blocks: it is safe to call from the audio thread. A separate
// off-RT consumer goroutine drains Read to spool the captured audio
// to its eventual destination (disk, network, a test fixture).
package recorder

import (
	"math"
	"sync/atomic"
)

const defaultLatencyMs = 50.0

// ringBuffer is a lock-free single-producer/single-consumer sample
// ring that enforces a minimum write-ahead distance, so a consumer
// reading behind the producer never catches up and starves even
// across an RT-thread scheduling hiccup.
type ringBuffer struct {
	data     []float32
	size     uint32
	mask     uint32
	latency  uint32
	readPos  atomic.Uint64
	writePos atomic.Uint64

	underruns   atomic.Uint64
	overruns    atomic.Uint64
	adjustments atomic.Uint64
}

func newRingBuffer(sampleRate float64, latencyMs float64) *ringBuffer {
	latency := uint32(math.Round(latencyMs * sampleRate / 1000.0))
	if latency < 1 {
		latency = 1
	}
	size := nextPowerOfTwo(latency * 4)

	rb := &ringBuffer{
		data:    make([]float32, size),
		size:    size,
		mask:    size - 1,
		latency: latency,
	}
	rb.writePos.Store(uint64(latency))
	return rb
}

func nextPowerOfTwo(n uint32) uint32 {
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

// write copies samples in, wrapping as needed. Returns false (and
// counts an overrun) if there isn't enough free space; RT-safe.
func (rb *ringBuffer) write(samples []float32) bool {
	writePos := rb.writePos.Load()
	readPos := rb.readPos.Load()

	used := writePos - readPos
	var available uint32
	if used >= uint64(rb.size) {
		available = 0
	} else {
		available = rb.size - uint32(used)
	}
	if available < uint32(len(samples)) {
		rb.overruns.Add(1)
		return false
	}

	remaining := len(samples)
	srcOffset := 0
	for remaining > 0 {
		dstIdx := uint32(writePos) & rb.mask
		chunk := remaining
		if dstIdx+uint32(chunk) > rb.size {
			chunk = int(rb.size - dstIdx)
		}
		copy(rb.data[dstIdx:dstIdx+uint32(chunk)], samples[srcOffset:srcOffset+chunk])
		srcOffset += chunk
		remaining -= chunk
		writePos += uint64(chunk)
	}
	rb.writePos.Store(writePos)
	return true
}

// read drains up to len(dst) samples, enforcing the minimum write-ahead
// gap first. Off-RT: called by the consumer goroutine.
func (rb *ringBuffer) read(dst []float32) int {
	rb.maintainGap()

	readPos := rb.readPos.Load()
	writePos := rb.writePos.Load()

	available := uint32(writePos - readPos)
	toRead := len(dst)
	if available < uint32(toRead) {
		toRead = int(available)
		rb.underruns.Add(1)
	}

	remaining := toRead
	dstOffset := 0
	for remaining > 0 {
		srcIdx := uint32(readPos) & rb.mask
		chunk := remaining
		if srcIdx+uint32(chunk) > rb.size {
			chunk = int(rb.size - srcIdx)
		}
		copy(dst[dstOffset:dstOffset+chunk], rb.data[srcIdx:srcIdx+uint32(chunk)])
		dstOffset += chunk
		remaining -= chunk
		readPos += uint64(chunk)
	}
	rb.readPos.Store(readPos)

	for i := toRead; i < len(dst); i++ {
		dst[i] = 0
	}
	return toRead
}

func (rb *ringBuffer) maintainGap() {
	for {
		readPos := rb.readPos.Load()
		writePos := rb.writePos.Load()
		if writePos-readPos >= uint64(rb.latency) {
			return
		}
		newReadPos := writePos - uint64(rb.latency)
		if rb.readPos.CompareAndSwap(readPos, newReadPos) {
			rb.adjustments.Add(1)
			return
		}
	}
}

// Health reports the ring's current fill level and error counters for
// off-RT telemetry.
type Health struct {
	Underruns      uint64
	Overruns       uint64
	Adjustments    uint64
	FillPercentage float32
}

func (rb *ringBuffer) health() Health {
	readPos := rb.readPos.Load()
	writePos := rb.writePos.Load()
	available := uint32(writePos - readPos)
	return Health{
		Underruns:      rb.underruns.Load(),
		Overruns:       rb.overruns.Load(),
		Adjustments:    rb.adjustments.Load(),
		FillPercentage: float32(available) / float32(rb.size) * 100,
	}
}

const maxMarks = 64

// Sink implements host.RecordSink: one ringBuffer per channel plus a
// small lock-free mark log. Allocation happens only in New; WriteBlock
// and Mark never allocate.
type Sink struct {
	channels []*ringBuffer

	markCodes [maxMarks]atomic.Int32
	markWrite atomic.Uint64
}

// New creates a Sink for numChannels at sampleRate, each channel
// buffered with the given write-ahead latency.
func New(sampleRate float64, numChannels int, latencyMs float64) *Sink {
	if latencyMs <= 0 {
		latencyMs = defaultLatencyMs
	}
	s := &Sink{channels: make([]*ringBuffer, numChannels)}
	for i := range s.channels {
		s.channels[i] = newRingBuffer(sampleRate, latencyMs)
	}
	return s
}

// WriteBlock implements host.RecordSink. It writes each channel's
// first nframes samples into its ring; false means at least one
// channel overran (RT telemetry only, never escalated).
func (s *Sink) WriteBlock(out [][]float32, nframes int) bool {
	ok := true
	for ch := 0; ch < len(s.channels) && ch < len(out); ch++ {
		if !s.channels[ch].write(out[ch][:nframes]) {
			ok = false
		}
	}
	return ok
}

// Mark implements host.RecordSink: records a locator code in a small
// fixed-capacity ring. Overwrites the oldest entry once full rather
// than blocking or allocating.
func (s *Sink) Mark(code int32) {
	idx := s.markWrite.Add(1) - 1
	s.markCodes[idx%maxMarks].Store(code)
}

// Marks returns a snapshot of the most recently recorded locator
// codes, oldest first within the retained window. Off-RT.
func (s *Sink) Marks() []int32 {
	n := s.markWrite.Load()
	count := int(n)
	if count > maxMarks {
		count = maxMarks
	}
	out := make([]int32, count)
	start := int(n) - count
	for i := 0; i < count; i++ {
		out[i] = s.markCodes[(start+i)%maxMarks].Load()
	}
	return out
}

// Read drains up to len(dst) samples from channel ch's ring into dst,
// returning the number actually read. Off-RT: the consumer side of the
// producer/consumer split WriteBlock/Read implements.
func (s *Sink) Read(ch int, dst []float32) int {
	if ch < 0 || ch >= len(s.channels) {
		return 0
	}
	return s.channels[ch].read(dst)
}

// Health reports channel ch's ring health for telemetry/diagnostics.
func (s *Sink) Health(ch int) Health {
	if ch < 0 || ch >= len(s.channels) {
		return Health{}
	}
	return s.channels[ch].health()
}

// NumChannels reports how many channels this sink was created with.
func (s *Sink) NumChannels() int {
	return len(s.channels)
}
