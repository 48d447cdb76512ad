package audio

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"takt/sampler"
)

// Loader decodes wav files into voices registered with a Player. Decoded
// audio is resampled up front to the player's rate so the mix loop never
// converts.
type Loader struct {
	player     *Player
	sampleRate beep.SampleRate
}

func NewLoader(p *Player, sampleRate beep.SampleRate) *Loader {
	return &Loader{player: p, sampleRate: sampleRate}
}

// Load implements sampler.Loader. A path that does not resolve reports
// sampler.ErrNotFound.
func (l *Loader) Load(path string) (sampler.Voice, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", path, sampler.ErrNotFound)
		}
		return nil, err
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != l.sampleRate {
		src = beep.Resample(4, format.SampleRate, l.sampleRate, stream)
	}

	var data [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := src.Stream(buf)
		data = append(data, buf[:n]...)
		if !ok {
			break
		}
	}

	v := &Voice{data: data, amp: 1, speed: 1}
	l.player.add(v)
	return v, nil
}
