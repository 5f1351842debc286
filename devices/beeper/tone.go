package beeper

import (
	"encoding/binary"
	"math"
)

// Tone generates a mono square wave as little-endian float32 samples.
// It produces silence while the gate reports false.
type Tone struct {
	gate       func() bool
	sampleRate int
	frequency  float64
	volume     float32
	phase      float64
}

// NewTone creates a tone of the given frequency, sounding whenever gate returns true.
func NewTone(sampleRate int, frequency float64, volume float32, gate func() bool) *Tone {
	return &Tone{
		gate:       gate,
		sampleRate: sampleRate,
		frequency:  frequency,
		volume:     volume,
	}
}

// Read fills p with whole samples. It never fails.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4
	on := t.gate()
	step := t.frequency / float64(t.sampleRate)

	for i := 0; i < n; i += 4 {
		var v float32
		if on {
			v = t.volume
			if t.phase >= 0.5 {
				v = -v
			}
			t.phase += step
			if t.phase >= 1 {
				t.phase -= 1
			}
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))
	}

	if !on {
		t.phase = 0
	}

	return n, nil
}
