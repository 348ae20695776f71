package audio

import "math"

const (
	twoPi = 2 * math.Pi

	// gains below this are rendered as true silence
	silenceThreshold = 0.001
)

type voice struct {
	pitch Pitch
	freq  float64
	phase float64 // always in [0, 2π)
}

// bank is an additive sine oscillator bank. It keeps no per-note state of its
// own: phases live in the voices passed to render.
type bank struct {
	sampleRate float64
	sum        []float64
}

func newBank(sampleRate float64, size int) *bank {
	return &bank{
		sampleRate: sampleRate,
		sum:        make([]float64, size),
	}
}

// render writes len(out) samples of the mix of voices at the given gain and
// advances every voice's phase by the duration of the buffer.
func (b *bank) render(out []float32, voices []voice, gain float64) {
	if gain < silenceThreshold || len(voices) == 0 || !isFinite(gain) {
		for n := range out {
			out[n] = 0
		}
		return
	}
	if len(out) > cap(b.sum) {
		// only happens when the device changes its buffer size
		b.sum = make([]float64, len(out))
	}
	sum := b.sum[:len(out)]
	for n := range sum {
		sum[n] = 0
	}

	for i := range voices {
		v := &voices[i]
		if !isFinite(v.freq) || !isFinite(v.phase) || v.freq <= 0 {
			v.phase = 0
			continue
		}
		delta := twoPi * v.freq / b.sampleRate
		for n := range sum {
			sum[n] += gain * math.Sin(delta*float64(n)+v.phase)
		}
		v.phase = wrapPhase(v.phase + delta*float64(len(sum)))
	}

	scale := 1.0
	if len(voices) > 1 {
		scale = 1 / float64(len(voices))
	}
	for n, s := range sum {
		out[n] = float32(clamp(s*scale, -1, 1))
	}
}

func wrapPhase(phase float64) float64 {
	phase = math.Mod(phase, twoPi)
	if phase < 0 {
		phase += twoPi
	}
	if phase >= twoPi {
		phase = 0
	}
	return phase
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
