package audio

import (
	"sync"
)

// Player is the beep streamer at the root of the audio graph. Every
// callback it first advances the trigger clock (firing trigger and step
// callbacks), then mixes all loaded voices into the output buffer.
type Player struct {
	mu     sync.RWMutex
	clock  func(frames int)
	voices []*Voice
}

func NewPlayer() *Player {
	return &Player{}
}

// SetClock installs the sample clock advanced once per callback, usually
// beat.Engine.Advance.
func (p *Player) SetClock(clock func(frames int)) {
	p.mu.Lock()
	p.clock = clock
	p.mu.Unlock()
}

func (p *Player) add(v *Voice) {
	p.mu.Lock()
	p.voices = append(p.voices, v)
	p.mu.Unlock()
}

// Stream implements beep.Streamer. It never drains.
func (p *Player) Stream(out [][2]float64) (int, bool) {
	for i := range out {
		out[i] = [2]float64{}
	}
	p.mu.RLock()
	clock := p.clock
	voices := p.voices
	p.mu.RUnlock()
	if clock != nil {
		clock(len(out))
	}
	for _, v := range voices {
		v.mix(out)
	}
	return len(out), true
}

func (p *Player) Err() error { return nil }
