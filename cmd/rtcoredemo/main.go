// Command rtcoredemo wires a config file to an engine and drives it
// with a synthetic render loop, one control-thread goroutine and one
// simulated RT-thread goroutine, in the spirit of a plugin host's
// render loop (minus the cgo/VST3 bridge, which is out of scope here).
// It exists to exercise the config, engine, parameter bridge, transport,
// track, DSP exemplar, recorder and logging packages end to end, not to
// produce audio.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loopstation/rtcore/pkg/control/config"
	"github.com/loopstation/rtcore/pkg/dsp/gainslew"
	"github.com/loopstation/rtcore/pkg/dsp/onepole"
	"github.com/loopstation/rtcore/pkg/engine"
	"github.com/loopstation/rtcore/pkg/parambridge"
	"github.com/loopstation/rtcore/pkg/recorder"
	"github.com/loopstation/rtcore/pkg/rtcmd"
	"github.com/loopstation/rtcore/pkg/rtlog"
	"github.com/loopstation/rtcore/pkg/track"
	"github.com/loopstation/rtcore/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "path to an engine.yaml config file (optional)")
	blocks := flag.Int("blocks", 20, "number of blocks to render")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "rtcoredemo:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := rtlog.Default()
	logger.Info("starting with sample_rate=%v block_frames=%v", cfg.SampleRate, cfg.BlockFrames)

	ring := rtcmd.NewRing(cfg.CommandRingCapacity)
	bridge := parambridge.NewBridge(cfg.ParamPageCapacity)
	tbridge := transport.NewBridge(cfg.Transport.Bpm, cfg.Transport.TimeSigNum, cfg.Transport.TimeSigDenom, cfg.Transport.PulsesPerQuarter)

	eng := engine.New(ring, bridge)
	eng.SetSampleRate(cfg.SampleRate)
	eng.SetTransportBridge(tbridge)

	rec := recorder.New(cfg.SampleRate, 1, 50.0)
	eng.SetMasterRecordSink(rec)

	tr := track.NewTrack()
	gain := gainslew.NewPerBlocks(4)
	filter := onepole.New()
	gain.Init(cfg.SampleRate, cfg.BlockFrames)
	filter.Init(cfg.SampleRate, cfg.BlockFrames)
	tr.AddModule(gain)
	tr.AddModule(filter)
	eng.RegisterTrack(tr)

	bridge.SetResolver(func(target rtcmd.Target) (parambridge.ParamSetter, bool) {
		if int(target.Track) >= eng.TrackCount() {
			return nil, false
		}
		t, _ := eng.TrackAt(int(target.Track))
		return t.ModuleAt(target.Slot)
	})

	ctx := &track.Context{
		In:        [][]float32{make([]float32, cfg.BlockFrames)},
		Out:       [][]float32{make([]float32, cfg.BlockFrames)},
		NumFrames: cfg.BlockFrames,
	}
	for i := range ctx.In[0] {
		ctx.In[0][i] = 1.0
	}

	group, gctx := errgroup.WithContext(context.Background())

	// Control thread: off-RT, the sole enqueuer on the ring and the only
	// writer into the parameter bridge. Issues a handful of writes on a
	// fixed cadence, standing in for a UI or sequencer.
	group.Go(func() error {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		n := 0
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n++
				bridge.PushParam(rtcmd.Target{Track: 0, Slot: 0}, 0, rand.Float32())
				eng.PushCommand(rtcmd.RtCommand{Code: rtcmd.CodeParamSet, Track: 0, Slot: 1, ParamIndex: 0, Value: rand.Float32()})
				if n >= *blocks {
					return nil
				}
			}
		}
	})

	// Simulated RT thread: the sole caller of ProcessBlock.
	group.Go(func() error {
		for i := 0; i < *blocks; i++ {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			eng.ProcessBlock(ctx)
			time.Sleep(5 * time.Millisecond)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("render loop failed: %v", err)
		os.Exit(1)
	}

	logger.ReportCounters("final", &eng.Counters)
	health := rec.Health(0)
	logger.Info("rendered %d blocks, last output sample = %v, record sink overruns=%d underruns=%d",
		*blocks, ctx.Out[0][len(ctx.Out[0])-1], health.Overruns, health.Underruns)
}
