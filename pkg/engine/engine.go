// Package engine implements the deterministic, allocation-free RT block
// loop that sequences command drain, parameter/transport publish,
// extension hooks, track processing, and master capture.
package engine

import (
	"github.com/loopstation/rtcore/pkg/host"
	"github.com/loopstation/rtcore/pkg/parambridge"
	"github.com/loopstation/rtcore/pkg/rtcmd"
	"github.com/loopstation/rtcore/pkg/rtlog"
	"github.com/loopstation/rtcore/pkg/track"
)

// TransportPublisher is the slice of pkg/transport.Bridge the engine
// needs: publish the staged snapshot, advance the RT sample clock, and
// rewind it in response to an explicit Stop/Clear. Accepting the
// interface rather than the concrete type keeps the engine testable
// without a real transport bridge.
type TransportPublisher interface {
	SwapBuffers()
	AdvanceSampleTime(frames uint64)
	Rewind(at uint64)
}

// MaxExtensions is the fixed capacity of the extension hook array.
const MaxExtensions = 8

// Extension is a pluggable per-block observer. Implementations must be
// RT-safe: no allocation, no blocking.
type Extension interface {
	OnBlockBegin(ctx *track.Context)
	OnBlockEnd(ctx *track.Context)
}

// Engine is the single RT entry point. It holds
// non-owning references to the ring, the parameter bridge, the
// transport bridge, the extensions, and the record sink: all of them
// must outlive the audio stream and are owned by the surrounding
// application. The engine owns only its track list, populated off-RT
// before the stream starts.
type Engine struct {
	sampleRate float64

	ring   *rtcmd.Ring
	bridge *parambridge.Bridge

	transportBridge TransportPublisher

	tracks []*track.Track

	extensions    [MaxExtensions]Extension
	extensionsLen int

	sink host.RecordSink

	Counters rtlog.Counters
}

// New creates an engine bound to ring (the command SPSC) and bridge (the
// parameter dual-page). Both must outlive the stream.
func New(ring *rtcmd.Ring, bridge *parambridge.Bridge) *Engine {
	return &Engine{ring: ring, bridge: bridge}
}

// SetSampleRate records the stream sample rate. Off-RT, before start.
func (e *Engine) SetSampleRate(sr float64) {
	e.sampleRate = sr
}

// SampleRate returns the configured sample rate.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// RegisterTrack appends t to the engine's track list. Off-RT, before the
// stream starts; the track list is the only engine state control threads
// mutate directly.
func (e *Engine) RegisterTrack(t *track.Track) {
	e.tracks = append(e.tracks, t)
}

// TrackAt returns the track at index, or (nil, false) if out of range.
func (e *Engine) TrackAt(index int) (*track.Track, bool) {
	if index < 0 || index >= len(e.tracks) {
		return nil, false
	}
	return e.tracks[index], true
}

// TrackCount reports how many tracks are registered.
func (e *Engine) TrackCount() int {
	return len(e.tracks)
}

// SetTransportBridge binds the transport bridge. Off-RT, before start.
func (e *Engine) SetTransportBridge(tb TransportPublisher) {
	e.transportBridge = tb
}

// SetMasterRecordSink binds the master capture sink. Off-RT, before
// start.
func (e *Engine) SetMasterRecordSink(sink host.RecordSink) {
	e.sink = sink
}

// AddRtExtension registers ext in the next free slot. Idempotent up to
// MaxExtensions: registrations past capacity are silently dropped and
// AddRtExtension returns false. Off-RT, before start.
func (e *Engine) AddRtExtension(ext Extension) bool {
	if e.extensionsLen >= MaxExtensions {
		return false
	}
	e.extensions[e.extensionsLen] = ext
	e.extensionsLen++
	return true
}

// OnCommand translates a textual command name into an RtCommand and
// pushes it onto the command ring. Off-RT: the sole enqueuer on the
// ring, the single enqueuer the SPSC contract requires. Returns false
// if the ring was full.
func (e *Engine) OnCommand(name string, target rtcmd.Target, paramIndex uint16, value float32) bool {
	return e.PushCommand(rtcmd.RtCommand{
		Code:       rtcmd.CodeFromName(name),
		Track:      target.Track,
		Slot:       target.Slot,
		ParamIndex: paramIndex,
		Value:      value,
	})
}

// PushCommand pushes an already-built RtCommand onto the ring. Off-RT.
func (e *Engine) PushCommand(cmd rtcmd.RtCommand) bool {
	ok := e.ring.Push(cmd)
	if !ok {
		e.Counters.RingOverflow.Add(1)
	}
	return ok
}

// ProcessBlock is the sole RT entry point. Its order is fixed: drain
// commands, publish parameters, publish transport, pre-hooks, process
// tracks, post-hooks, master capture.
func (e *Engine) ProcessBlock(ctx *track.Context) {
	e.drainCommands()

	if e.bridge.SwapBuffers() {
		e.Counters.ParamPageOverflow.Add(1)
	}

	if e.transportBridge != nil {
		e.transportBridge.SwapBuffers()
		e.transportBridge.AdvanceSampleTime(uint64(ctx.NumFrames))
	}

	for i := 0; i < e.extensionsLen; i++ {
		e.extensions[i].OnBlockBegin(ctx)
	}

	for _, t := range e.tracks {
		t.BeginBlock()
		t.Process(ctx)
	}

	for i := 0; i < e.extensionsLen; i++ {
		e.extensions[i].OnBlockEnd(ctx)
	}

	if e.sink != nil {
		if ok := e.sink.WriteBlock(ctx.Out, ctx.NumFrames); !ok {
			e.Counters.SinkBackpressure.Add(1)
		}
	}
}

func (e *Engine) drainCommands() {
	var cmd rtcmd.RtCommand
	for e.ring.Pop(&cmd) {
		e.dispatchCommand(cmd)
	}
}

func (e *Engine) dispatchCommand(cmd rtcmd.RtCommand) {
	if cmd.Track == rtcmd.MasterTrack {
		e.handleMasterCommand(cmd)
		return
	}

	t, ok := e.TrackAt(int(cmd.Track))
	if !ok {
		e.Counters.OutOfRangeTrack.Add(1)
		return
	}
	t.OnRtCommand(cmd)
}

// handleMasterCommand handles commands addressed to master (track=-1).
// Most are advisory at this layer: quantize/tempo/time-signature state
// is owned by the transport bridge's own control-side setters, which
// control threads call directly rather than routing through the ring.
// Stop and Clear are the one case with a defined RT-side effect: the
// sample clock is monotonic until an explicit rewind/stop, so they
// rewind the RT sample clock.
func (e *Engine) handleMasterCommand(cmd rtcmd.RtCommand) {
	switch cmd.Code {
	case rtcmd.CodeStop, rtcmd.CodeClear:
		if e.transportBridge != nil {
			e.transportBridge.Rewind(0)
		}
	case rtcmd.CodeStopQuantized, rtcmd.CodeContinue, rtcmd.CodeQuantizeMode,
		rtcmd.CodeSetTempoBpm, rtcmd.CodeSetTimeSig, rtcmd.CodeSetLoopRegion:
		e.Counters.MasterAdvisory.Add(1)
	case rtcmd.CodeNone:
		e.Counters.UnknownCommand.Add(1)
	default:
		e.Counters.UnknownCommand.Add(1)
	}
}
