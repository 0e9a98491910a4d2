package parambridge

import (
	"math"
	"testing"

	"github.com/loopstation/rtcore/pkg/rtcmd"
)

type fakeModule struct {
	values map[uint16]float32
}

func newFakeModule() *fakeModule {
	return &fakeModule{values: make(map[uint16]float32)}
}

func (m *fakeModule) SetParam(index uint16, value float32) {
	m.values[index] = value
}

func (m *fakeModule) GetParam(index uint16) float32 {
	return m.values[index]
}

func TestSwapBuffersAppliesLastWriteWins(t *testing.T) {
	b := NewBridge(8)
	target := rtcmd.Target{Track: 0, Slot: 1}
	mod := newFakeModule()
	b.SetResolver(func(tg rtcmd.Target) (ParamSetter, bool) {
		if tg == target {
			return mod, true
		}
		return nil, false
	})

	for k := 1; k <= 5; k++ {
		b.PushParam(target, 3, float32(k)*0.1)
	}
	b.SwapBuffers()

	got := mod.GetParam(3)
	want := float32(0.5)
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("GetParam(3) = %v, want %v (last value written)", got, want)
	}
}

func TestPushParamClampsToUnitRange(t *testing.T) {
	b := NewBridge(4)
	target := rtcmd.Target{Track: 0, Slot: 0}
	mod := newFakeModule()
	b.SetResolver(func(rtcmd.Target) (ParamSetter, bool) { return mod, true })

	b.PushParam(target, 0, -5)
	b.PushParam(target, 1, 5)
	b.SwapBuffers()

	if got := mod.GetParam(0); got != 0 {
		t.Errorf("negative value should clamp to 0, got %v", got)
	}
	if got := mod.GetParam(1); got != 1 {
		t.Errorf("value >1 should clamp to 1, got %v", got)
	}
}

func TestSwapBuffersIdempotentWithNoWrites(t *testing.T) {
	b := NewBridge(4)
	target := rtcmd.Target{Track: 0, Slot: 0}
	mod := newFakeModule()
	b.SetResolver(func(rtcmd.Target) (ParamSetter, bool) { return mod, true })

	b.PushParam(target, 0, 0.42)
	b.SwapBuffers()

	first := make([]DrainEntry, 4)
	n1 := b.DrainRead(first)

	b.SwapBuffers() // no writes since first swap: must be a no-op

	second := make([]DrainEntry, 4)
	n2 := b.DrainRead(second)

	if n1 != n2 {
		t.Fatalf("drain length changed across idempotent swap: %d vs %d", n1, n2)
	}
	for i := 0; i < n1; i++ {
		if first[i] != second[i] {
			t.Errorf("drain entry %d changed across idempotent swap: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPageOverflowDropsOldestKeepsLatest(t *testing.T) {
	b := NewBridge(2) // tiny page to force overflow
	target := rtcmd.Target{Track: 0, Slot: 0}
	mod := newFakeModule()
	b.SetResolver(func(rtcmd.Target) (ParamSetter, bool) { return mod, true })

	b.PushParam(target, 0, 0.1)
	b.PushParam(target, 1, 0.2)
	b.PushParam(target, 2, 0.9) // page is full: overwrites the last slot

	if overflowed := b.SwapBuffers(); !overflowed {
		t.Error("SwapBuffers should report the frozen page overflowed")
	}

	if got := mod.GetParam(0); got != 0.1 {
		t.Errorf("first entry should have been applied, got %v", got)
	}
	if got := mod.GetParam(2); got != float32(0.9) {
		t.Errorf("latest overflowing write should win the last slot, got %v", got)
	}
	if _, set := mod.values[1]; set {
		t.Error("the dropped (overwritten) entry should never have been applied")
	}

	if !b.Overflowed() {
		t.Error("Overflowed should latch true after an overflowing swap")
	}
	if !b.ReadOverflowed() {
		t.Error("ReadOverflowed should report true the first time it's read")
	}
	if b.Overflowed() {
		t.Error("ReadOverflowed should have cleared the latch")
	}
}

func TestSwapBuffersReturnsFalseWithoutOverflow(t *testing.T) {
	b := NewBridge(8)
	target := rtcmd.Target{Track: 0, Slot: 0}
	mod := newFakeModule()
	b.SetResolver(func(rtcmd.Target) (ParamSetter, bool) { return mod, true })

	b.PushParam(target, 0, 0.5)
	if overflowed := b.SwapBuffers(); overflowed {
		t.Error("SwapBuffers should not report overflow when the page never filled")
	}
	if b.Overflowed() {
		t.Error("Overflowed should stay false without an overflowing page")
	}
}

func TestResolverReturningFalseIsDropped(t *testing.T) {
	b := NewBridge(4)
	b.SetResolver(func(rtcmd.Target) (ParamSetter, bool) { return nil, false })

	b.PushParam(rtcmd.Target{Track: 9, Slot: 9}, 0, 0.5)

	// Must not panic even though the resolver always misses.
	b.SwapBuffers()
}

func TestDrainReadDoesNotReapply(t *testing.T) {
	b := NewBridge(4)
	target := rtcmd.Target{Track: 0, Slot: 0}
	applyCount := 0
	mod := newFakeModule()
	b.SetResolver(func(rtcmd.Target) (ParamSetter, bool) {
		applyCount++
		return mod, true
	})

	b.PushParam(target, 0, 0.3)
	b.SwapBuffers()
	if applyCount != 1 {
		t.Fatalf("expected exactly one resolve/apply, got %d", applyCount)
	}

	dst := make([]DrainEntry, 4)
	b.DrainRead(dst)
	if applyCount != 1 {
		t.Error("DrainRead must not trigger additional resolver calls")
	}
}
