// Package onepole implements a coefficient-recomputation filter: a
// needsRecalc flag set by SetParam and cleared at the top of Process
// after the filter coefficient is recomputed, keeping the
// recomputation out of the inner sample loop.
package onepole

import (
	"math"
	"sync/atomic"

	"github.com/loopstation/rtcore/pkg/param"
	"github.com/loopstation/rtcore/pkg/track"
)

// Shape selects the filter's frequency response.
type Shape int

const (
	LowPass Shape = iota
	HighPass
)

const (
	cutoffParamIndex uint16 = 0
	shapeParamIndex  uint16 = 1

	minCutoffHz = 20.0
	maxCutoffHz = 20000.0
)

// Filter is a one-pole low-pass/high-pass filter, one state per
// channel. It implements track.Module.
type Filter struct {
	track.Base

	sampleRate float64

	cutoffBits atomic.Uint64 // normalized [0,1], bit-punned float64
	shapeBits  atomic.Uint64

	needsRecalc atomic.Bool
	alpha       float64
	shape       Shape

	z1 []float64 // per-channel lowpass state
}

func New() *Filter {
	f := &Filter{}
	f.cutoffBits.Store(math.Float64bits(1.0))
	f.needsRecalc.Store(true)
	return f
}

func (f *Filter) Init(sampleRate float64, maxFrames int) error {
	f.sampleRate = sampleRate
	f.needsRecalc.Store(true)
	return nil
}

func (f *Filter) Reset() {
	for i := range f.z1 {
		f.z1[i] = 0
	}
}

func (f *Filter) ParamCount() int { return 2 }

func (f *Filter) GetParam(index uint16) float32 {
	switch index {
	case cutoffParamIndex:
		return float32(math.Float64frombits(f.cutoffBits.Load()))
	case shapeParamIndex:
		return float32(math.Float64frombits(f.shapeBits.Load()))
	default:
		return 0
	}
}

// SetParam records the new normalized value and sets needsRecalc; the
// coefficient itself is recomputed lazily at the top of the next
// Process call, never inside the inner sample loop.
func (f *Filter) SetParam(index uint16, value float32) {
	switch index {
	case cutoffParamIndex:
		f.cutoffBits.Store(math.Float64bits(float64(value)))
		f.needsRecalc.Store(true)
	case shapeParamIndex:
		f.shapeBits.Store(math.Float64bits(float64(value)))
		f.needsRecalc.Store(true)
	}
}

func (f *Filter) ParamMeta(index uint16) param.Meta {
	switch index {
	case cutoffParamIndex:
		return param.New(index, "cutoff", minCutoffHz, maxCutoffHz, 1000).
			Logarithmic().WithUnit("Hz").WithFormatter(param.FrequencyFormatter, param.FrequencyParser)
	case shapeParamIndex:
		return param.New(index, "shape", 0, 1, 0)
	default:
		return param.New(index, "", 0, 1, 0)
	}
}

func (f *Filter) SetParamsBatch(values []track.ParamValue) {
	track.SetParamsBatchDefault(f, values)
}

// recalc recomputes the filter coefficient from the current parameter
// cells and clears needsRecalc. Called at most once per block, from
// the top of Process.
func (f *Filter) recalc() {
	if !f.needsRecalc.CompareAndSwap(true, false) {
		return
	}
	cutoffNorm := math.Float64frombits(f.cutoffBits.Load())
	fc := minCutoffHz * math.Pow(maxCutoffHz/minCutoffHz, cutoffNorm)

	f.alpha = 1 - math.Exp(-2*math.Pi*fc/f.sampleRate)
	if math.Float64frombits(f.shapeBits.Load()) >= 0.5 {
		f.shape = HighPass
	} else {
		f.shape = LowPass
	}
}

// Process filters ctx.Out in place, one channel at a time, using a
// coefficient computed once at the top of the call. Init is not told
// the channel count, so z1 is sized lazily: a one-time warm-up
// allocation on whichever call first sees a wider channel count than
// it currently holds (in practice the very first Process call), never
// a per-block allocation once warmed up.
func (f *Filter) Process(ctx *track.Context) {
	f.recalc()

	numCh := len(ctx.Out)
	if len(f.z1) < numCh {
		grown := make([]float64, numCh)
		copy(grown, f.z1)
		f.z1 = grown
	}

	alpha := f.alpha
	shape := f.shape

	for ch := 0; ch < numCh; ch++ {
		buf := ctx.Out[ch]
		state := f.z1[ch]
		for i := 0; i < ctx.NumFrames; i++ {
			x := float64(buf[i])
			state += alpha * (x - state)
			if shape == HighPass {
				buf[i] = float32(x - state)
			} else {
				buf[i] = float32(state)
			}
		}
		f.z1[ch] = state
	}
}
