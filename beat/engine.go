package beat

import (
	"math"
	"sync"
)

// Engine fires sample-accurate triggers for a set of fixed-length looping
// patterns. Each pattern owns an impulse buffer spanning one full cycle;
// a shared read cursor advances at the audio sample clock and invokes the
// pattern's callback whenever it crosses a nonzero sample. A dedicated
// master buffer, active at every step, drives the step clock.
type Engine struct {
	sampleRate  float64
	steps       int
	timePerStep float64
	duration    float64
	bufLen      int

	mu       sync.Mutex
	playing  bool
	cursor   int
	patterns []*pattern
	master   *pattern
}

// pattern is one trigger buffer plus its step bookkeeping. The buffer is
// only ever written one sample at a time, so writes from the control
// context can't tear against the read cursor.
type pattern struct {
	buf     []float32
	on      []bool
	offsets []float64 // per-step timing offset in seconds
	fn      func()
}

func newPattern(steps, bufLen int) *pattern {
	return &pattern{
		buf:     make([]float32, bufLen),
		on:      make([]bool, steps),
		offsets: make([]float64, steps),
	}
}

// New creates an engine with noPatterns trigger buffers on a sixteenth-note
// grid at the given tempo, plus the master step clock buffer.
func New(noPatterns, steps int, bpm, sampleRate float64) *Engine {
	timePerStep := 60 / bpm / 4
	duration := float64(steps) * timePerStep
	e := &Engine{
		sampleRate:  sampleRate,
		steps:       steps,
		timePerStep: timePerStep,
		duration:    duration,
		bufLen:      int(math.Round(duration * sampleRate)),
	}
	e.patterns = make([]*pattern, noPatterns)
	for i := range e.patterns {
		e.patterns[i] = newPattern(steps, e.bufLen)
	}
	e.master = newPattern(steps, e.bufLen)
	for step := 0; step < steps; step++ {
		e.activate(e.master, step)
	}
	return e
}

// Steps returns the number of steps in one cycle.
func (e *Engine) Steps() int { return e.steps }

// TimePerStep returns the nominal step duration in seconds.
func (e *Engine) TimePerStep() float64 { return e.timePerStep }

// Duration returns the length of one full cycle in seconds.
func (e *Engine) Duration() float64 { return e.duration }

// index computes the buffer sample index for a step including its current
// offset. Offsets are unclamped; an index pushed outside the buffer wraps
// into a neighboring step's territory.
func (e *Engine) index(p *pattern, step int) int {
	t := float64(step)*e.timePerStep + p.offsets[step]
	idx := int(math.Round(e.sampleRate*t)) % e.bufLen
	if idx < 0 {
		idx += e.bufLen
	}
	return idx
}

func (e *Engine) activate(p *pattern, step int) {
	p.buf[e.index(p, step)] = 1
	p.on[step] = true
}

func (e *Engine) deactivate(p *pattern, step int) {
	p.buf[e.index(p, step)] = 0
	p.on[step] = false
}

// Activate switches on the trigger of a pattern at a step.
func (e *Engine) Activate(pat, step int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activate(e.patterns[pat], step)
}

// Deactivate switches off the trigger of a pattern at a step.
func (e *Engine) Deactivate(pat, step int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deactivate(e.patterns[pat], step)
}

// Toggle flips a pattern step.
func (e *Engine) Toggle(pat, step int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.patterns[pat]
	if p.on[step] {
		e.deactivate(p, step)
	} else {
		e.activate(p, step)
	}
}

// IsOn reports whether a pattern step is active.
func (e *Engine) IsOn(pat, step int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.patterns[pat].on[step]
}

// ChangeTiming shifts the timing of a step by the given amount in
// milliseconds. The step is rewritten at its new index, so the buffer
// always reflects the current offset.
func (e *Engine) ChangeTiming(pat, step int, byMS float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.patterns[pat]
	e.deactivate(p, step)
	p.offsets[step] += byMS / 1000
	e.activate(p, step)
}

// Offset returns the accumulated timing offset of a step in seconds.
func (e *Engine) Offset(pat, step int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.patterns[pat].offsets[step]
}

// RegisterCallback sets the function invoked each time the pattern's
// buffer fires. Callbacks run on the audio clock and must be non-blocking.
func (e *Engine) RegisterCallback(pat int, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patterns[pat].fn = fn
}

// RegisterStepCallback sets the function invoked once per step by the
// master clock buffer.
func (e *Engine) RegisterStepCallback(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.master.fn = fn
}

// Play starts the read cursor.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = true
}

// Stop halts the read cursor. Advance holds the same lock, so once Stop
// returns no further trigger fires.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
}

// Playing reports whether the engine is running.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Advance moves the read cursor forward by frames samples, firing the
// callbacks of every nonzero sample it crosses. Pattern callbacks fire
// before the master tick of the same frame. Called from the audio
// callback; a no-op while stopped.
func (e *Engine) Advance(frames int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return
	}
	for i := 0; i < frames; i++ {
		for _, p := range e.patterns {
			if p.buf[e.cursor] != 0 && p.fn != nil {
				p.fn()
			}
		}
		if e.master.buf[e.cursor] != 0 && e.master.fn != nil {
			e.master.fn()
		}
		e.cursor++
		if e.cursor == e.bufLen {
			e.cursor = 0
		}
	}
}
