package track

import "github.com/loopstation/rtcore/pkg/rtcmd"

// Track owns an ordered module chain and is addressed by a stable index
// within the engine's track list.
type Track struct {
	modules []Module
}

// NewTrack creates an empty track. FX are appended with AddModule,
// off-RT, before the stream starts.
func NewTrack() *Track {
	return &Track{}
}

// AddModule appends a module to the chain's end. Off-RT only.
func (t *Track) AddModule(m Module) {
	t.modules = append(t.modules, m)
}

// ModuleAt returns the module at slot, or (nil, false) if out of range.
func (t *Track) ModuleAt(slot int16) (Module, bool) {
	if slot < 0 || int(slot) >= len(t.modules) {
		return nil, false
	}
	return t.modules[slot], true
}

// ModuleCount reports the chain length.
func (t *Track) ModuleCount() int {
	return len(t.modules)
}

// BeginBlock calls BeginBlock on every module in chain order.
func (t *Track) BeginBlock() {
	for _, m := range t.modules {
		m.BeginBlock()
	}
}

// Process seeds ctx.Out from ctx.In, then runs every module's Process in
// order. Each module reads and overwrites ctx.Out in place, so a
// module's output is the next module's input without any extra
// copying or buffer ping-ponging; ctx.Out holds the track's
// contribution after return.
func (t *Track) Process(ctx *Context) {
	ctx.copyInToOut()
	for _, m := range t.modules {
		m.Process(ctx)
	}
}

// Reset resets every module's DSP state without touching parameters.
func (t *Track) Reset() {
	for _, m := range t.modules {
		m.Reset()
	}
}

// OnRtCommand dispatches a command addressed to this track. ParamSet
// goes to the targeted slot's SetParam; NoteOn/NoteOff/ClipTrigger and
// other slot-addressed commands go to the slot's CommandHandler, if it
// implements one. Commands addressed to a slot that does not exist, or
// to a module without CommandHandler, are silently discarded and
// OnRtCommand returns false; pkg/engine does not count them.
func (t *Track) OnRtCommand(cmd rtcmd.RtCommand) bool {
	if cmd.Code == rtcmd.CodeParamSet {
		m, ok := t.ModuleAt(cmd.Slot)
		if !ok {
			return false
		}
		m.SetParam(cmd.ParamIndex, cmd.Value)
		return true
	}

	m, ok := t.ModuleAt(cmd.Slot)
	if !ok {
		return false
	}
	handler, ok := m.(CommandHandler)
	if !ok {
		return false
	}
	handler.OnRtCommand(cmd)
	return true
}
