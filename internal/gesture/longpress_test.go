package gesture

import (
	"sync/atomic"
	"testing"
	"time"
)

const testDelay = 60 * time.Millisecond

func newCountingDetector() (*Detector, *atomic.Int32, *atomic.Int32) {
	var taps, holds atomic.Int32
	d := NewDetector(func() { taps.Add(1) }, func() { holds.Add(1) }, testDelay)
	return d, &taps, &holds
}

func TestEarlyRelease_FiresTapOnly(t *testing.T) {
	d, taps, holds := newCountingDetector()

	d.Press()
	time.Sleep(testDelay / 4)
	d.Release()

	time.Sleep(2 * testDelay) // the stopped timer must stay silent
	if got := taps.Load(); got != 1 {
		t.Fatalf("expected 1 tap, got %d", got)
	}
	if got := holds.Load(); got != 0 {
		t.Fatalf("expected 0 holds, got %d", got)
	}
	if d.State() != StateIdle {
		t.Fatalf("expected idle, got %s", d.State())
	}
}

func TestHold_FiresHoldAndSuppressesTap(t *testing.T) {
	d, taps, holds := newCountingDetector()

	d.Press()
	time.Sleep(2 * testDelay)
	if d.State() != StateHeld {
		t.Fatalf("expected held, got %s", d.State())
	}
	d.Release() // pointer-up after the hold fired

	if got := holds.Load(); got != 1 {
		t.Fatalf("expected 1 hold, got %d", got)
	}
	if got := taps.Load(); got != 0 {
		t.Fatalf("hold must suppress the tap, got %d taps", got)
	}
	if d.State() != StateIdle {
		t.Fatalf("expected idle, got %s", d.State())
	}
}

func TestCancel_FiresNothing(t *testing.T) {
	d, taps, holds := newCountingDetector()

	d.Press()
	time.Sleep(testDelay / 4)
	d.Cancel()

	time.Sleep(2 * testDelay)
	if taps.Load() != 0 || holds.Load() != 0 {
		t.Fatalf("cancel must fire nothing, got %d taps %d holds", taps.Load(), holds.Load())
	}
	if d.State() != StateIdle {
		t.Fatalf("expected idle, got %s", d.State())
	}
}

func TestDoublePress_Ignored(t *testing.T) {
	d, taps, _ := newCountingDetector()

	d.Press()
	d.Press() // stray second down event
	d.Release()

	if got := taps.Load(); got != 1 {
		t.Fatalf("expected 1 tap, got %d", got)
	}
}

func TestReleaseWhileIdle_NoOp(t *testing.T) {
	d, taps, holds := newCountingDetector()

	d.Release()
	if taps.Load() != 0 || holds.Load() != 0 {
		t.Fatalf("release without press fired callbacks")
	}
}

func TestConsecutiveInteractions(t *testing.T) {
	d, taps, holds := newCountingDetector()

	// tap, then hold, then tap again
	d.Press()
	d.Release()

	d.Press()
	time.Sleep(2 * testDelay)
	d.Release()

	d.Press()
	d.Release()

	if got := taps.Load(); got != 2 {
		t.Fatalf("expected 2 taps, got %d", got)
	}
	if got := holds.Load(); got != 1 {
		t.Fatalf("expected 1 hold, got %d", got)
	}
}
