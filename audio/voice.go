package audio

// Voice is a one-shot playable buffer of decoded stereo samples. Its
// fields are only touched from the audio clock (trigger callbacks and
// the mix loop), so no locking is needed.
type Voice struct {
	data   [][2]float64
	amp    float64
	speed  float64
	pos    float64
	active bool
}

func (v *Voice) SetAmplitude(a float64) { v.amp = a }

func (v *Voice) SetSpeed(s float64) { v.speed = s }

// FireFromStart cuts any running playback and restarts from sample zero.
func (v *Voice) FireFromStart() {
	v.pos = 0
	v.active = true
}

// mix adds the voice into out, resampling by its speed with linear
// interpolation. Running off either end of the buffer stops the voice;
// negative speeds run off the front.
func (v *Voice) mix(out [][2]float64) {
	if !v.active {
		return
	}
	for i := range out {
		if v.pos < 0 || v.pos >= float64(len(v.data)-1) {
			v.active = false
			return
		}
		j := int(v.pos)
		frac := v.pos - float64(j)
		out[i][0] += (v.data[j][0] + (v.data[j+1][0]-v.data[j][0])*frac) * v.amp
		out[i][1] += (v.data[j][1] + (v.data[j+1][1]-v.data[j][1])*frac) * v.amp
		v.pos += v.speed
	}
}
