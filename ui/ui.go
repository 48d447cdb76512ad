package ui

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"

	"takt/push"
	"takt/sampler"
)

// Pad palette codes for the Push 1.
const (
	ColorOff     uint8 = 0
	ColorRunning uint8 = 5
	ColorOn      uint8 = 13
)

// Dial assignments for per-step parameter edits while a pad is held.
const (
	DialVelocity = 71
	DialSpeed    = 72
	DialTiming   = 73
)

// dialScale divides raw encoder deltas into parameter deltas; timing
// deltas are additionally expressed in milliseconds.
const (
	dialScale = 30.0
	timingMS  = 100.0
)

// Surface is the output half of the controller: pad LEDs and the text
// display.
type Surface interface {
	SetPadColor(row, step int, color uint8) error
	WriteDisplayText(line, offset int, text string) error
	ClearDisplayLine(line int) error
}

// UI routes controller events to the sampler, disambiguating tap-to-toggle
// from hold-to-edit per pad, and mirrors sequencer state back to the pads
// and display. All protocol I/O happens here, on the control context.
//
// Per-pad gesture states: absent (no entry in held), held-unmodified
// (entry false), held-modified (entry true). A release of an unmodified
// pad toggles its step; any dial change while pads are held edits every
// held pad and suppresses the toggle.
type UI struct {
	smp     *sampler.Sampler
	out     Surface
	held    map[[2]int]bool
	updates chan struct{}
	log     *charmlog.Logger
}

// New creates the controller UI for a sampler.
func New(smp *sampler.Sampler, out Surface) *UI {
	return &UI{
		smp:     smp,
		out:     out,
		held:    make(map[[2]int]bool),
		updates: make(chan struct{}, 1),
		log: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			Prefix: "ui",
		}),
	}
}

// Updates signals state changes worth re-rendering elsewhere (step ticks,
// toggles, edits).
func (u *UI) Updates() <-chan struct{} { return u.updates }

// Run consumes controller events and step ticks until the context is
// cancelled.
func (u *UI) Run(ctx context.Context, events <-chan push.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			u.Handle(ev)
			u.notify()
		case pos := <-u.smp.StepEvents():
			u.stepDraw(pos)
			u.notify()
		}
	}
}

// Handle applies one controller event.
func (u *UI) Handle(ev push.Event) {
	switch ev.Kind {
	case push.PadDown:
		u.padDown(ev.Row, ev.Step)
	case push.PadRelease:
		u.padRelease(ev.Row, ev.Step)
	case push.DialChange:
		u.dialChange(ev.Dial, ev.Delta)
	case push.PadPressure:
		// Pressure is decoded but drives nothing yet.
	}
}

func (u *UI) onGrid(row, step int) bool {
	return row >= 0 && row < u.smp.Samples() && step >= 0 && step < u.smp.Steps()
}

func (u *UI) padDown(row, step int) {
	if !u.onGrid(row, step) {
		return
	}
	u.held[[2]int{row, step}] = false
}

func (u *UI) padRelease(row, step int) {
	key := [2]int{row, step}
	modified, ok := u.held[key]
	if !ok {
		u.log.Debug("release without down", "row", row, "step", step)
		return
	}
	if !modified {
		u.smp.Toggle(row, step)
		u.draw(row, step)
	}
	delete(u.held, key)
	if len(u.held) == 0 {
		u.out.ClearDisplayLine(0)
	}
}

// dialChange applies a dial delta to every held pad and marks each as
// modified so the following release does not toggle.
func (u *UI) dialChange(dial, delta int) {
	change := float64(delta) / dialScale
	for key := range u.held {
		row, step := key[0], key[1]
		switch dial {
		case DialVelocity:
			v := u.smp.ChangeVelocity(row, step, change)
			u.showValue("velocity", row, step, v)
		case DialSpeed:
			v := u.smp.ChangeSpeed(row, step, change)
			u.showValue("speed", row, step, v)
		case DialTiming:
			u.smp.ChangeTiming(row, step, change*timingMS)
			u.showValue("timing ms", row, step, u.smp.TimingOffset(row, step))
		}
		u.held[key] = true
	}
}

func (u *UI) showValue(name string, row, step int, value float64) {
	u.out.ClearDisplayLine(0)
	u.out.WriteDisplayText(0, 0, fmt.Sprintf("%s %d.%d %.2f", name, row, step, value))
}

// stepDraw repaints the previous and current step columns after a master
// tick, moving the running highlight.
func (u *UI) stepDraw(pos int) {
	prev := pos - 1
	if prev < 0 {
		prev = u.smp.Steps() - 1
	}
	for row := 0; row < u.smp.Samples() && row < 8; row++ {
		u.draw(row, prev)
		u.draw(row, pos)
	}
}

// draw paints one pad from sequencer state.
func (u *UI) draw(row, step int) {
	if row >= 8 || step >= 8 {
		return
	}
	switch {
	case u.smp.Playing() && step == u.smp.Pos():
		u.out.SetPadColor(row, step, ColorRunning)
	case u.smp.IsOn(row, step):
		u.out.SetPadColor(row, step, ColorOn)
	default:
		u.out.SetPadColor(row, step, ColorOff)
	}
}

// DrawAll repaints the whole grid.
func (u *UI) DrawAll() {
	for row := 0; row < u.smp.Samples() && row < 8; row++ {
		for step := 0; step < u.smp.Steps() && step < 8; step++ {
			u.draw(row, step)
		}
	}
}

func (u *UI) notify() {
	select {
	case u.updates <- struct{}{}:
	default:
	}
}
