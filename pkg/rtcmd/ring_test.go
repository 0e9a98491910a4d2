package rtcmd

import "testing"

func TestNewRingRoundsUpCapacity(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 4},
		{5, 8},
		{1024, 1024},
		{1025, 2048},
	}
	for _, c := range cases {
		r := NewRing(c.requested)
		if got := r.Capacity(); got != c.want {
			t.Errorf("NewRing(%d).Capacity() = %d, want %d", c.requested, got, c.want)
		}
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	r := NewRing(8)
	cmd := RtCommand{Code: CodePlay, Track: 2, Slot: -1, ParamIndex: 3, Value: 0.75}

	if !r.Push(cmd) {
		t.Fatal("Push failed on empty ring")
	}

	var out RtCommand
	if !r.Pop(&out) {
		t.Fatal("Pop failed on non-empty ring")
	}
	if out != cmd {
		t.Errorf("round trip mismatch: pushed %+v, popped %+v", cmd, out)
	}
}

func TestPopOnEmptyFails(t *testing.T) {
	r := NewRing(4)
	var out RtCommand
	if r.Pop(&out) {
		t.Error("Pop on empty ring should fail")
	}
}

func TestOverflowLatchesAndResetsOnce(t *testing.T) {
	r := NewRing(2) // capacity 2, one usable slot

	if !r.Push(RtCommand{Code: CodePlay}) {
		t.Fatal("first push should succeed")
	}
	if r.Push(RtCommand{Code: CodePlay}) {
		t.Fatal("second push should fail: only one usable slot in a capacity-2 ring")
	}

	if !r.OverflowFlagAndReset() {
		t.Error("expected overflow flag to be set after failed push")
	}
	if r.OverflowFlagAndReset() {
		t.Error("overflow flag should read false immediately after being consumed")
	}
}

func TestQueueOverflowScenario(t *testing.T) {
	// Push four "play" commands into a ring whose usable capacity is
	// three (one slot is always reserved under the one-slot-empty SPSC
	// discipline): the first three succeed and the fourth must fail.
	r := NewRing(4) // 3 usable slots
	results := make([]bool, 0, 4)
	for i := 0; i < 4; i++ {
		results = append(results, r.Push(RtCommand{Code: CodePlay}))
	}
	for i := 0; i < 3; i++ {
		if !results[i] {
			t.Errorf("push %d should have succeeded", i)
		}
	}
	if results[3] {
		t.Error("4th push into a 3-usable-slot ring should fail")
	}
	if !r.OverflowFlagAndReset() {
		t.Error("overflow flag should be set")
	}
	if r.OverflowFlagAndReset() {
		t.Error("overflow flag should be cleared after first read")
	}
}

func TestClearDrainsAndClearsOverflow(t *testing.T) {
	r := NewRing(4)
	r.Push(RtCommand{Code: CodePlay})
	r.Push(RtCommand{Code: CodeStop})
	r.Push(RtCommand{Code: CodeClear})
	r.Push(RtCommand{Code: CodeOverdub}) // overflows: only 3 usable slots

	r.Clear()

	if size := r.Size(); size != 0 {
		t.Errorf("Size() after Clear() = %d, want 0", size)
	}
	if r.OverflowFlagAndReset() {
		t.Error("Clear() should clear the overflow flag")
	}

	var out RtCommand
	if r.Pop(&out) {
		t.Error("Pop after Clear() should find nothing queued")
	}
}

func TestPushPopOrderingFIFO(t *testing.T) {
	r := NewRing(8)
	codes := []Code{CodePlay, CodeStop, CodeRecArm, CodeOverdub}
	for _, c := range codes {
		if !r.Push(RtCommand{Code: c}) {
			t.Fatalf("push of %s failed", c)
		}
	}
	for _, want := range codes {
		var out RtCommand
		if !r.Pop(&out) {
			t.Fatalf("pop failed while expecting %s", want)
		}
		if out.Code != want {
			t.Errorf("FIFO violated: got %s, want %s", out.Code, want)
		}
	}
}

func TestCodeNameRoundTrip(t *testing.T) {
	names := []string{
		"play", "stop", "stop_quantized", "rec_arm", "rec_disarm",
		"overdub", "param_set", "clear", "quantize", "continue",
		"set_tempo_bpm", "set_timesig", "set_loop_region", "note_on",
		"note_off", "clip_trigger",
	}
	for _, name := range names {
		code := CodeFromName(name)
		if code == CodeNone {
			t.Errorf("CodeFromName(%q) resolved to CodeNone", name)
			continue
		}
		if got := code.String(); got != name {
			t.Errorf("round trip mismatch for %q: got %q", name, got)
		}
	}
}

func TestCodeFromNameUnknown(t *testing.T) {
	if c := CodeFromName("definitely_not_a_command"); c != CodeNone {
		t.Errorf("unknown command name should resolve to CodeNone, got %s", c)
	}
}

func TestLoopRegionPacking(t *testing.T) {
	start := uint32(123456)
	length := uint16(9000)

	idx, val := EncodeLoopRegion(start, length)
	gotStart, gotLength := DecodeLoopRegion(idx, val)

	if gotStart != start {
		t.Errorf("start round trip: got %d, want %d", gotStart, start)
	}
	if gotLength != length {
		t.Errorf("length round trip: got %d, want %d", gotLength, length)
	}
}

func TestTargetSentinels(t *testing.T) {
	master := Target{Track: MasterTrack, Slot: TrackLevelSlot}
	if !master.IsMaster() || !master.IsTrackLevel() {
		t.Errorf("master/track-level target not recognized: %+v", master)
	}

	trackLevel := Target{Track: 3, Slot: TrackLevelSlot}
	if trackLevel.IsMaster() {
		t.Error("track 3 should not be master")
	}
	if !trackLevel.IsTrackLevel() {
		t.Error("slot=-1 should be track-level")
	}
}
