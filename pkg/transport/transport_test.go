package transport

import "testing"

func TestSwapBuffersPublishesStagedValues(t *testing.T) {
	b := NewBridge(120, 4, 4, 96)
	b.SetTempo(140)
	b.SetTimeSignature(3, 8)
	b.SetQuantizeMode(QuantizeBar)
	b.SetSwing(0.25)

	b.SwapBuffers()
	got := b.RT()

	if got.Bpm != 140 {
		t.Errorf("Bpm = %v, want 140", got.Bpm)
	}
	if got.TimeSigNumerator != 3 || got.TimeSigDenom != 8 {
		t.Errorf("time signature = %d/%d, want 3/8", got.TimeSigNumerator, got.TimeSigDenom)
	}
	if got.Quantize != QuantizeBar {
		t.Errorf("Quantize = %v, want QuantizeBar", got.Quantize)
	}
	if got.Swing != 0.25 {
		t.Errorf("Swing = %v, want 0.25", got.Swing)
	}
}

func TestSampleTimeAdvancesMonotonically(t *testing.T) {
	b := NewBridge(120, 4, 4, 96)
	b.SwapBuffers()

	b.AdvanceSampleTime(256)
	if got := b.RT().SampleTime; got != 256 {
		t.Fatalf("SampleTime = %d, want 256", got)
	}

	b.AdvanceSampleTime(256)
	if got := b.RT().SampleTime; got != 512 {
		t.Fatalf("SampleTime = %d, want 512", got)
	}
}

func TestSwapBuffersPreservesSampleTime(t *testing.T) {
	b := NewBridge(120, 4, 4, 96)
	b.SwapBuffers()
	b.AdvanceSampleTime(1000)

	b.SetTempo(90) // control-side write between blocks
	b.SwapBuffers()

	if got := b.RT().SampleTime; got != 1000 {
		t.Errorf("SwapBuffers must not reset SampleTime, got %d", got)
	}
	if got := b.RT().Bpm; got != 90 {
		t.Errorf("Bpm should have been published, got %v", got)
	}
}

func TestSwingClampsToUnitRange(t *testing.T) {
	b := NewBridge(120, 4, 4, 96)
	b.SetSwing(-1)
	b.SwapBuffers()
	if got := b.RT().Swing; got != 0 {
		t.Errorf("Swing = %v, want 0", got)
	}

	b.SetSwing(5)
	b.SwapBuffers()
	if got := b.RT().Swing; got != 1 {
		t.Errorf("Swing = %v, want 1", got)
	}
}

func TestRewindOverridesSampleTime(t *testing.T) {
	b := NewBridge(120, 4, 4, 96)
	b.SwapBuffers()
	b.AdvanceSampleTime(5000)

	b.Rewind(0)
	if got := b.RT().SampleTime; got != 0 {
		t.Errorf("SampleTime after Rewind(0) = %d, want 0", got)
	}

	b.AdvanceSampleTime(10)
	if got := b.RT().SampleTime; got != 10 {
		t.Errorf("SampleTime after advancing post-rewind = %d, want 10", got)
	}
}
