// Package midiin decodes gitlab.com/gomidi/midi/v2 messages into
// RtCommand pushes, off-RT. Scoped strictly to message decoding, the
// way vsariola-sointu's tracker/gomidi.RTMIDIContext.HandleMessage
// decodes NoteOn/NoteOff via GetNoteOn/GetNoteOff; driver/device
// enumeration and the rtmididrv backend stay out of scope as platform
// MIDI I/O.
package midiin

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/loopstation/rtcore/pkg/rtcmd"
)

// Sink is the minimal capability the adapter needs from the engine:
// push an already-built RtCommand onto the command ring. Satisfied by
// *engine.Engine.
type Sink interface {
	PushCommand(cmd rtcmd.RtCommand) bool
}

// Adapter decodes incoming MIDI messages and forwards NoteOn/NoteOff
// as RtCommands addressed to a fixed target. One Adapter per MIDI
// input device.
type Adapter struct {
	sink   Sink
	target rtcmd.Target
}

// New creates an adapter that pushes decoded commands to sink,
// addressed to target (typically a specific track/slot).
func New(sink Sink, target rtcmd.Target) *Adapter {
	return &Adapter{sink: sink, target: target}
}

// HandleMessage is the callback signature midi.ListenTo expects.
// Off-RT: called from the MIDI driver's own delivery thread, never
// from the audio thread. Decode failures and full-ring drops are
// silent by design; RT telemetry applies one hop away, at the ring
// itself.
func (a *Adapter) HandleMessage(msg midi.Message, timestampMs int32) {
	var channel, key, velocity uint8

	if msg.GetNoteOn(&channel, &key, &velocity) {
		a.sink.PushCommand(rtcmd.RtCommand{
			Code:       rtcmd.CodeNoteOn,
			Track:      a.target.Track,
			Slot:       a.target.Slot,
			ParamIndex: uint16(key),
			Value:      float32(velocity) / 127,
		})
		return
	}

	if msg.GetNoteOff(&channel, &key, &velocity) {
		a.sink.PushCommand(rtcmd.RtCommand{
			Code:       rtcmd.CodeNoteOff,
			Track:      a.target.Track,
			Slot:       a.target.Slot,
			ParamIndex: uint16(key),
			Value:      float32(velocity) / 127,
		})
	}
}

// SetTarget rebinds which track/slot decoded commands are addressed
// to, e.g. when a user reassigns a MIDI input to a different track.
func (a *Adapter) SetTarget(target rtcmd.Target) {
	a.target = target
}
