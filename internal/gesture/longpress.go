// Package gesture disambiguates a raw pointer-down/up timing sequence into a
// tap or a hold, so one physical input can drive both "open" and destructive
// actions.
package gesture

import (
	"sync"
	"time"
)

// DefaultDelay is how long the pointer must stay down for a press to count
// as a hold.
const DefaultDelay = 600 * time.Millisecond

// State is the phase of the current interaction.
type State int

const (
	StateIdle State = iota
	StatePressing
	StateHeld
)

func (s State) String() string {
	switch s {
	case StatePressing:
		return "pressing"
	case StateHeld:
		return "held"
	default:
		return "idle"
	}
}

// Detector is a three-state machine driven by one cancellable timer. Each
// interaction fires exactly one callback: tap on early release, hold when the
// timer lapses (the following release is then suppressed), or nothing on
// pointer cancellation.
type Detector struct {
	onTap  func()
	onHold func()
	delay  time.Duration

	mu    sync.Mutex
	state State
	timer *time.Timer
}

// NewDetector builds a Detector. A delay <= 0 selects DefaultDelay.
func NewDetector(onTap, onHold func(), delay time.Duration) *Detector {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Detector{onTap: onTap, onHold: onHold, delay: delay}
}

// Press handles pointer-down: it starts the hold timer. Ignored unless idle,
// so a second down event cannot restart a running interaction.
func (d *Detector) Press() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateIdle {
		return
	}
	d.state = StatePressing
	d.timer = time.AfterFunc(d.delay, d.held)
}

// Release handles pointer-up. An early release fires the tap callback; a
// release after the hold fired is swallowed so the interaction cannot
// double-fire.
func (d *Detector) Release() {
	d.mu.Lock()
	var fire func()
	switch d.state {
	case StatePressing:
		d.timer.Stop()
		fire = d.onTap
	case StateHeld:
		// hold already fired
	}
	d.state = StateIdle
	d.timer = nil
	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Cancel handles pointer cancellation (e.g. a scroll taking over the
// pointer): the interaction ends with no callback at all.
func (d *Detector) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.state = StateIdle
	d.timer = nil
	d.mu.Unlock()
}

// State returns the current interaction phase.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Detector) held() {
	d.mu.Lock()
	if d.state != StatePressing {
		// released or canceled in the window before the timer callback ran
		d.mu.Unlock()
		return
	}
	d.state = StateHeld
	fire := d.onHold
	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}
