package sampler

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"takt/beat"
)

// ErrNotFound is returned when a sample path does not resolve to a
// loadable asset.
var ErrNotFound = errors.New("sample not found")

// Voice is a loaded, one-shot playable audio asset. Voices are commanded
// from the audio clock at trigger time and must not block.
type Voice interface {
	SetAmplitude(float64)
	SetSpeed(float64)
	FireFromStart()
}

// Loader resolves a path to a playable Voice. Errors wrap ErrNotFound
// when the path does not resolve.
type Loader interface {
	Load(path string) (Voice, error)
}

// Sampler binds engine triggers to voices, applying per-step velocity and
// speed automation. It owns the global step cursor.
type Sampler struct {
	steps     int
	noSamples int
	engine    *beat.Engine
	loader    Loader

	mu     sync.RWMutex
	voices []Voice

	velocity matrix
	speed    matrix

	pos    atomic.Int32
	stepCh chan int
}

// New creates a sampler with noSamples slots over a steps-long pattern.
// One trigger binding is installed per slot; triggering an empty slot is
// a no-op.
func New(steps, noSamples int, bpm, sampleRate float64, loader Loader) *Sampler {
	s := &Sampler{
		steps:     steps,
		noSamples: noSamples,
		engine:    beat.New(noSamples, steps, bpm, sampleRate),
		loader:    loader,
		voices:    make([]Voice, noSamples),
		velocity:  newMatrix(noSamples, steps, 1),
		speed:     newMatrix(noSamples, steps, 1),
		stepCh:    make(chan int, 8),
	}
	s.engine.RegisterStepCallback(s.step)
	for slot := 0; slot < noSamples; slot++ {
		slot := slot // bind by value, one closure per slot
		s.engine.RegisterCallback(slot, func() { s.trigger(slot) })
	}
	return s
}

// Engine returns the underlying trigger engine.
func (s *Sampler) Engine() *beat.Engine { return s.engine }

// Steps returns the pattern length.
func (s *Sampler) Steps() int { return s.steps }

// Samples returns the number of sample slots.
func (s *Sampler) Samples() int { return s.noSamples }

// Pos returns the current step cursor.
func (s *Sampler) Pos() int { return int(s.pos.Load()) }

// StepEvents delivers the step cursor after every master tick. Sends are
// non-blocking on the audio clock; a slow consumer drops ticks rather
// than stalling it.
func (s *Sampler) StepEvents() <-chan int { return s.stepCh }

// LoadSample loads an asset into a slot, replacing any previous voice.
// On failure the slot is left untouched.
func (s *Sampler) LoadSample(path string, slot int) error {
	if s.loader == nil {
		return fmt.Errorf("load sample %q: no loader", path)
	}
	v, err := s.loader.Load(path)
	if err != nil {
		return fmt.Errorf("load sample %q: %w", path, err)
	}
	s.mu.Lock()
	s.voices[slot] = v
	s.mu.Unlock()
	return nil
}

// trigger fires the voice in a slot with the automation values of the
// current step. Runs on the audio clock.
func (s *Sampler) trigger(slot int) {
	s.mu.RLock()
	v := s.voices[slot]
	s.mu.RUnlock()
	if v == nil {
		return
	}
	pos := int(s.pos.Load())
	v.SetAmplitude(s.velocity[slot][pos])
	v.SetSpeed(s.speed[slot][pos])
	v.FireFromStart()
}

// step advances the global cursor. Bound to the master clock; the single
// writer of pos.
func (s *Sampler) step() {
	pos := (int(s.pos.Load()) + 1) % s.steps
	s.pos.Store(int32(pos))
	select {
	case s.stepCh <- pos:
	default:
	}
}

// Toggle flips a pattern step on or off.
func (s *Sampler) Toggle(slot, step int) {
	s.engine.Toggle(slot, step)
}

// IsOn reports whether a pattern step is active.
func (s *Sampler) IsOn(slot, step int) bool {
	return s.engine.IsOn(slot, step)
}

// ChangeVelocity adds a delta to the velocity of a step and returns the
// new value. Values are not clamped.
func (s *Sampler) ChangeVelocity(slot, step int, by float64) float64 {
	s.velocity[slot][step] += by
	return s.velocity[slot][step]
}

// ChangeSpeed adds a delta to the playback speed of a step and returns
// the new value. Values are not clamped.
func (s *Sampler) ChangeSpeed(slot, step int, by float64) float64 {
	s.speed[slot][step] += by
	return s.speed[slot][step]
}

// ChangeTiming shifts the trigger timing of a step by milliseconds.
func (s *Sampler) ChangeTiming(slot, step int, byMS float64) {
	s.engine.ChangeTiming(slot, step, byMS)
}

// TimingOffset returns the accumulated timing offset of a step in
// milliseconds.
func (s *Sampler) TimingOffset(slot, step int) float64 {
	return s.engine.Offset(slot, step) * 1000
}

// Start begins playback.
func (s *Sampler) Start() { s.engine.Play() }

// Stop halts playback; no trigger fires after it returns.
func (s *Sampler) Stop() { s.engine.Stop() }

// Playing reports whether the sampler is running.
func (s *Sampler) Playing() bool { return s.engine.Playing() }
