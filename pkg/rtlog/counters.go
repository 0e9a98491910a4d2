package rtlog

import "sync/atomic"

// Counters are RT telemetry: incremented from the RT thread (and, for
// RingOverflow, from the control thread whose push failed), read from
// any thread. None of them are ever escalated to an error or a
// panic; they are a plain atomic health-counter pair, the RT-safe
// analogue of a buffered processor's health gauges.
type Counters struct {
	RingOverflow      atomic.Uint64
	ParamPageOverflow atomic.Uint64
	SinkBackpressure  atomic.Uint64
	UnknownCommand    atomic.Uint64
	OutOfRangeTrack   atomic.Uint64
	MasterAdvisory    atomic.Uint64
}

// Snapshot is a point-in-time, non-atomic copy of Counters for
// reporting off-RT.
type Snapshot struct {
	RingOverflow      uint64
	ParamPageOverflow uint64
	SinkBackpressure  uint64
	UnknownCommand    uint64
	OutOfRangeTrack   uint64
	MasterAdvisory    uint64
}

// Load takes a consistent-enough snapshot for display. Individual
// fields are read independently; a caller racing with the RT thread
// may observe a snapshot slightly ahead on some fields, never behind
// on any single field.
func (c *Counters) Load() Snapshot {
	return Snapshot{
		RingOverflow:      c.RingOverflow.Load(),
		ParamPageOverflow: c.ParamPageOverflow.Load(),
		SinkBackpressure:  c.SinkBackpressure.Load(),
		UnknownCommand:    c.UnknownCommand.Load(),
		OutOfRangeTrack:   c.OutOfRangeTrack.Load(),
		MasterAdvisory:    c.MasterAdvisory.Load(),
	}
}
