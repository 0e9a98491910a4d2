// Package gainslew implements a per-block parameter snapshot: a single
// target value written by control threads through an atomic cell,
// consumed by the RT thread as a bounded linear ramp captured once per
// block in BeginBlock.
package gainslew

import (
	"math"
	"sync/atomic"

	"github.com/loopstation/rtcore/pkg/param"
	"github.com/loopstation/rtcore/pkg/track"
)

// Mode selects how the ramp duration for a new target is computed.
type Mode int

const (
	// PerBlocks sizes the ramp as Blocks * the block length passed to
	// Init, in samples.
	PerBlocks Mode = iota
	// FixedMS sizes the ramp as ms * sampleRate / 1000 samples (the ms
	// passed to NewFixedMS), rounded up.
	FixedMS
)

const targetParamIndex uint16 = 0

// Gain is a single-parameter linear gain ramp. It implements
// track.Module; Param 0 is the gain target, normalized to [0,1].
type Gain struct {
	track.Base

	mode   Mode
	blocks int
	millis float64

	sampleRate  float64
	blockFrames int

	targetBits atomic.Uint64 // atomically published target, bit-punned float64

	current  float64 // RT-owned interpolated state
	snapshot float64 // target snapshotted for this block in BeginBlock
	step     float64
	remain   int
}

// NewPerBlocks creates a gain ramp whose duration is blocks block-lengths.
func NewPerBlocks(blocks int) *Gain {
	if blocks < 1 {
		blocks = 1
	}
	return &Gain{mode: PerBlocks, blocks: blocks}
}

// NewFixedMS creates a gain ramp whose duration is a fixed number of
// milliseconds.
func NewFixedMS(ms float64) *Gain {
	if ms < 0 {
		ms = 0
	}
	return &Gain{mode: FixedMS, millis: ms}
}

func (g *Gain) Init(sampleRate float64, maxFrames int) error {
	g.sampleRate = sampleRate
	g.blockFrames = maxFrames
	g.targetBits.Store(math.Float64bits(0))
	return nil
}

// Reset snaps the current state to the current target and clears any
// in-flight ramp.
func (g *Gain) Reset() {
	target := g.loadTarget()
	g.current = target
	g.snapshot = target
	g.step = 0
	g.remain = 0
}

// BeginBlock reads the target cell once. If it differs from the
// snapshot used by the previous block, a new ramp is initialized from
// the current interpolated state toward the new target.
func (g *Gain) BeginBlock() {
	target := g.loadTarget()
	if target == g.snapshot {
		return
	}
	g.snapshot = target

	duration := g.rampDurationSamples()
	g.step = (target - g.current) / float64(duration)
	g.remain = duration
}

func (g *Gain) rampDurationSamples() int {
	var d int
	switch g.mode {
	case FixedMS:
		d = int(math.Ceil(g.millis * g.sampleRate / 1000))
	default:
		d = g.blocks * g.blockFrames
	}
	if d < 1 {
		d = 1
	}
	return d
}

// Process scales ctx.Out in place by the ramping gain, advancing the
// ramp sample-by-sample (once per sample, shared across channels) and
// clamping to the target on arrival.
func (g *Gain) Process(ctx *track.Context) {
	numCh := len(ctx.Out)
	for i := 0; i < ctx.NumFrames; i++ {
		if g.remain > 0 {
			g.current += g.step
			g.remain--
			if g.remain == 0 {
				g.current = g.snapshot
			}
		}
		gv := float32(g.current)
		for ch := 0; ch < numCh; ch++ {
			ctx.Out[ch][i] *= gv
		}
	}
}

func (g *Gain) ParamCount() int { return 1 }

func (g *Gain) GetParam(index uint16) float32 {
	if index != targetParamIndex {
		return 0
	}
	return float32(g.loadTarget())
}

// SetParam publishes a new target atomically. RT-safe, lock-free,
// single-writer-per-parameter.
func (g *Gain) SetParam(index uint16, value float32) {
	if index != targetParamIndex {
		return
	}
	g.targetBits.Store(math.Float64bits(float64(value)))
}

func (g *Gain) ParamMeta(index uint16) param.Meta {
	return param.New(index, "gain", 0, 1, 1)
}

func (g *Gain) SetParamsBatch(values []track.ParamValue) {
	track.SetParamsBatchDefault(g, values)
}

func (g *Gain) loadTarget() float64 {
	return math.Float64frombits(g.targetBits.Load())
}
