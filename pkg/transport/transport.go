// Package transport double-buffers musical-time state (tempo, time
// signature, quantize mode, swing) from control threads to the RT
// thread, and owns the RT-only monotonically advancing sample clock.
package transport

import "sync/atomic"

// QuantizeMode selects scheduling granularity for transport-sensitive
// commands.
type QuantizeMode int32

const (
	QuantizeNone QuantizeMode = iota
	QuantizeBeat
	QuantizeBar
)

// Snapshot is the trivially-copyable transport state RT reads. SampleTime
// is RT-owned and monotonically advanced; every other field is
// control-owned and published once per block by SwapBuffers.
type Snapshot struct {
	Playing           bool
	TimeSigNumerator  int32
	TimeSigDenom      int32
	PulsesPerQuarter  int32
	Bpm               float64
	Quantize          QuantizeMode
	Swing             float64
	SampleTime        uint64
}

// staging holds a control-side write under a generation counter so
// concurrent control-thread writes resolve to a well-defined last-write
// outcome without locks.
type staging struct {
	generation atomic.Uint64
	snapshot   atomic.Pointer[Snapshot]
}

// Bridge publishes a staged transport snapshot (tempo, time signature,
// sample position) to the RT thread with the same staging/swap
// discipline as the parameter bridge.
type Bridge struct {
	staging staging
	rt      Snapshot // RT-owned; mutated only from SwapBuffers/AdvanceSampleTime
}

// NewBridge creates a bridge with the given initial tempo/signature.
func NewBridge(bpm float64, numerator, denominator, ppq int32) *Bridge {
	b := &Bridge{}
	initial := &Snapshot{
		TimeSigNumerator: numerator,
		TimeSigDenom:     denominator,
		PulsesPerQuarter: ppq,
		Bpm:              bpm,
	}
	b.staging.snapshot.Store(initial)
	b.rt = *initial
	return b
}

// stage applies mutate to a fresh copy of the current staging snapshot
// and publishes it, bumping the generation counter. Concurrent control
// writes race on the pointer swap; the counter records how many writes
// occurred but the resolved value is always one complete, self-consistent
// snapshot (never a torn mix of two writers' fields).
func (b *Bridge) stage(mutate func(*Snapshot)) {
	for {
		cur := b.staging.snapshot.Load()
		next := *cur
		mutate(&next)
		if b.staging.snapshot.CompareAndSwap(cur, &next) {
			b.staging.generation.Add(1)
			return
		}
	}
}

// SetPlaying is a control-side setter.
func (b *Bridge) SetPlaying(playing bool) {
	b.stage(func(s *Snapshot) { s.Playing = playing })
}

// SetTempo is a control-side setter for BPM.
func (b *Bridge) SetTempo(bpm float64) {
	b.stage(func(s *Snapshot) { s.Bpm = bpm })
}

// SetTimeSignature is a control-side setter.
func (b *Bridge) SetTimeSignature(numerator, denominator int32) {
	b.stage(func(s *Snapshot) {
		s.TimeSigNumerator = numerator
		s.TimeSigDenom = denominator
	})
}

// SetQuantizeMode is a control-side setter.
func (b *Bridge) SetQuantizeMode(mode QuantizeMode) {
	b.stage(func(s *Snapshot) { s.Quantize = mode })
}

// SetSwing is a control-side setter. swing is clamped into [0,1].
func (b *Bridge) SetSwing(swing float64) {
	if swing < 0 {
		swing = 0
	} else if swing > 1 {
		swing = 1
	}
	b.stage(func(s *Snapshot) { s.Swing = swing })
}

// Generation reports how many control-side writes have been staged, for
// telemetry only.
func (b *Bridge) Generation() uint64 {
	return b.staging.generation.Load()
}

// SwapBuffers publishes the latest staging snapshot into the RT-visible
// snapshot, preserving the RT-owned SampleTime field. Called exactly
// once per block, at the prologue.
func (b *Bridge) SwapBuffers() {
	staged := b.staging.snapshot.Load()
	sampleTime := b.rt.SampleTime
	b.rt = *staged
	b.rt.SampleTime = sampleTime
}

// AdvanceSampleTime adds frames to the RT-owned sample clock. Called
// once per block, after SwapBuffers.
func (b *Bridge) AdvanceSampleTime(frames uint64) {
	b.rt.SampleTime += frames
}

// Rewind resets the RT-owned sample clock to at. Sample-time is
// monotonic except in direct response to an explicit rewind/stop
// command; this is the only method that may decrease it, and it is
// called only from the RT thread's command-drain handling of such a
// command.
func (b *Bridge) Rewind(at uint64) {
	b.rt.SampleTime = at
}

// RT returns the current RT-visible snapshot. The returned value is a
// copy valid until the next SwapBuffers/AdvanceSampleTime call.
func (b *Bridge) RT() Snapshot {
	return b.rt
}
