package track

import (
	"github.com/loopstation/rtcore/pkg/param"
	"github.com/loopstation/rtcore/pkg/rtcmd"
)

// Module is the capability set every DSP unit must implement so the
// engine and the parameter bridge can drive it safely.
type Module interface {
	// Init allocates and configures the module. Off-RT, called once
	// before the stream starts. Must leave the module in a deterministic
	// state.
	Init(sampleRate float64, maxFrames int) error

	// Reset clears internal DSP state but preserves current parameter
	// values. RT-safe.
	Reset()

	// BeginBlock is called once before Process for every block. Modules
	// that snapshot control-side parameter writes (see pkg/dsp/gainslew)
	// do so here.
	BeginBlock()

	// Process runs the module's DSP over ctx. No allocation, no
	// blocking, no panics escaping to the caller. Reads only the
	// snapshot taken in BeginBlock.
	Process(ctx *Context)

	// ParamCount reports how many indexed parameters this module has.
	ParamCount() int

	// GetParam/SetParam are RT-safe: an internal single-writer atomic
	// cell per parameter. Values are always normalized to [0,1].
	GetParam(index uint16) float32
	SetParam(index uint16, value float32)

	// ParamMeta returns off-RT display/range metadata for a parameter.
	// Never called from RT code.
	ParamMeta(index uint16) param.Meta

	// SetParamsBatch applies a batch of (index,value) writes. The
	// default behavior (see SetParamsBatchDefault) is a loop over SetParam.
	SetParamsBatch(values []ParamValue)
}

// ParamValue is one entry of a SetParamsBatch call.
type ParamValue struct {
	Index uint16
	Value float32
}

// Base provides no-op Reset and BeginBlock implementations so concrete
// modules only need to implement what differs from the default, the
// same way a processor chain treats Reset as optional. Base does not
// provide SetParamsBatch; see SetParamsBatchDefault.
// Embed Base and override what you need.
type Base struct{}

func (Base) Reset()      {}
func (Base) BeginBlock() {}

// SetParamsBatchDefault is the default SetParamsBatch body; embedders
// that don't need a custom implementation call it directly from their
// own SetParamsBatch, since Go has no way to default an interface method
// via embedding alone when the method itself needs access to the
// concrete SetParam.
func SetParamsBatchDefault(m Module, values []ParamValue) {
	for _, v := range values {
		m.SetParam(v.Index, v.Value)
	}
}

// CommandHandler is implemented by modules that want to react to RT
// commands addressed directly to their slot (NoteOn/NoteOff/ClipTrigger
// and the like) rather than only through ParamSet/parameter-bridge
// writes. It is optional: Track checks for it with a type assertion.
type CommandHandler interface {
	OnRtCommand(cmd rtcmd.RtCommand)
}
