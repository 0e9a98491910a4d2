// Package host defines the contract-only interfaces the RT engine
// consumes from its external collaborators: the platform audio host and
// the master record sink. Nothing in this repository implements the
// audio host; concrete platform I/O, file containers, and codecs are
// explicitly out of scope.
package host

import "github.com/loopstation/rtcore/pkg/track"

// DeviceInfo describes one enumerated audio device.
type DeviceInfo struct {
	ID         string
	Name       string
	MaxInputs  int
	MaxOutputs int
}

// StreamConfig configures an opened stream.
type StreamConfig struct {
	SampleRate  float64
	BlockFrames int
	NumInput    int
	NumOutput   int
}

// RenderFunc is the render callback signature: invoked from the audio
// thread, must not allocate or panic.
type RenderFunc func(ctx *track.Context)

// Stream is the contract a platform audio stream exposes once opened.
type Stream interface {
	Start(render RenderFunc) error
	Stop() error
	Close() error

	SampleRate() float64
	BlockFrames() int
	NumInput() int
	NumOutput() int
	TotalCallbacks() uint64
	Xruns() uint64
}

// NotifyFunc is called on device/stream state changes (disconnects,
// format changes) off the audio thread.
type NotifyFunc func(event string)

// AudioHost is the platform audio I/O driver contract. Implementations
// live outside this repository.
type AudioHost interface {
	Enumerate() ([]DeviceInfo, error)
	OpenStream(cfg StreamConfig, inputID, outputID string, onNotify NotifyFunc) (Stream, error)
}

// RecordSink is the master-capture contract. WriteBlock's boolean
// return signals an internal ring overflow — informational, RT
// telemetry only, never escalated. Mark records a locator event.
type RecordSink interface {
	WriteBlock(out [][]float32, nframes int) bool
	Mark(code int32)
}
