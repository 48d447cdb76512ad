package beat

import (
	"math"
	"testing"
)

const testRate = 44100.0

func TestStepTiming(t *testing.T) {
	e := New(8, 8, 125, testRate)
	if math.Abs(e.TimePerStep()-0.12) > 1e-9 {
		t.Errorf("Expected time per step 0.12, got %f", e.TimePerStep())
	}
	if math.Abs(e.Duration()-0.96) > 1e-9 {
		t.Errorf("Expected duration 0.96, got %f", e.Duration())
	}

	e.Activate(0, 0)
	if idx := e.index(e.patterns[0], 0); idx != 0 {
		t.Errorf("Expected step 0 at index 0, got %d", idx)
	}
	e.Activate(0, 3)
	want := int(math.Round(testRate * 0.36))
	if idx := e.index(e.patterns[0], 3); idx != want {
		t.Errorf("Expected step 3 at index %d, got %d", want, idx)
	}
}

func TestToggleInvolution(t *testing.T) {
	e := New(4, 8, 125, testRate)
	for _, start := range []bool{false, true} {
		if start {
			e.Activate(1, 5)
		} else {
			e.Deactivate(1, 5)
		}
		e.Toggle(1, 5)
		e.Toggle(1, 5)
		if e.IsOn(1, 5) != start {
			t.Errorf("Expected double toggle to restore state %v", start)
		}
	}
}

func TestChangeTimingShiftsIndex(t *testing.T) {
	e := New(1, 8, 125, testRate)
	e.Activate(0, 2)
	before := e.index(e.patterns[0], 2)
	e.ChangeTiming(0, 2, 50)
	after := e.index(e.patterns[0], 2)

	shift := int(math.Round(testRate * 0.05))
	if after-before != shift {
		t.Errorf("Expected index shift of %d samples, got %d", shift, after-before)
	}
	if e.patterns[0].buf[before] != 0 {
		t.Errorf("Expected old index %d to be cleared", before)
	}
	if e.patterns[0].buf[after] != 1 {
		t.Errorf("Expected new index %d to be set", after)
	}
	if math.Abs(e.Offset(0, 2)-0.05) > 1e-9 {
		t.Errorf("Expected stored offset 0.05, got %f", e.Offset(0, 2))
	}
}

func TestNegativeOffsetWraps(t *testing.T) {
	e := New(1, 8, 125, testRate)
	e.Activate(0, 0)
	e.ChangeTiming(0, 0, -10)

	want := e.bufLen - int(math.Round(testRate*0.01))
	if idx := e.index(e.patterns[0], 0); idx != want {
		t.Errorf("Expected negative offset to wrap to index %d, got %d", want, idx)
	}
	if e.patterns[0].buf[want] != 1 {
		t.Errorf("Expected wrapped index %d to be set", want)
	}
}

func TestAdvanceFiresCallbacks(t *testing.T) {
	e := New(2, 8, 125, testRate)
	e.Activate(0, 0)
	e.Activate(0, 4)
	e.Activate(1, 7)

	var p0, p1, master int
	e.RegisterCallback(0, func() { p0++ })
	e.RegisterCallback(1, func() { p1++ })
	e.RegisterStepCallback(func() { master++ })

	e.Play()
	e.Advance(e.bufLen)

	if master != 8 {
		t.Errorf("Expected 8 master ticks per cycle, got %d", master)
	}
	if p0 != 2 {
		t.Errorf("Expected 2 triggers for pattern 0, got %d", p0)
	}
	if p1 != 1 {
		t.Errorf("Expected 1 trigger for pattern 1, got %d", p1)
	}
	if e.cursor != 0 {
		t.Errorf("Expected cursor to wrap to 0, got %d", e.cursor)
	}

	// A second cycle advanced in uneven chunks fires the same counts.
	e.Advance(e.bufLen / 3)
	e.Advance(e.bufLen - e.bufLen/3)
	if master != 16 || p0 != 4 || p1 != 2 {
		t.Errorf("Expected counts to double after second cycle, got master=%d p0=%d p1=%d",
			master, p0, p1)
	}
}

func TestStopHaltsTriggers(t *testing.T) {
	e := New(1, 8, 125, testRate)
	e.Activate(0, 0)

	var fired int
	e.RegisterCallback(0, func() { fired++ })

	e.Advance(e.bufLen)
	if fired != 0 {
		t.Errorf("Expected no triggers before Play, got %d", fired)
	}

	e.Play()
	e.Advance(e.bufLen)
	if fired != 1 {
		t.Errorf("Expected 1 trigger while playing, got %d", fired)
	}

	e.Stop()
	e.Advance(e.bufLen)
	if fired != 1 {
		t.Errorf("Expected no triggers after Stop, got %d", fired)
	}

	e.Play()
	e.Advance(e.bufLen)
	if fired != 2 {
		t.Errorf("Expected trigger to resume after Play, got %d", fired)
	}
}
