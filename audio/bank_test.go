package audio

import (
	"math"
	"testing"
)

const (
	testRate  = 44100
	tolerance = 1e-6
)

func sine(freq, gain, phase float64, n int) float64 {
	return gain * math.Sin(2*math.Pi*freq*float64(n)/testRate+phase)
}

func TestRenderSingleVoice(t *testing.T) {
	b := newBank(testRate, 512)
	voices := []voice{{freq: 440}}
	out := make([]float32, 512)
	b.render(out, voices, 0.5)

	if out[0] != 0 {
		t.Errorf("first sample should be zero, got %v", out[0])
	}
	for n, got := range out {
		if want := sine(440, 0.5, 0, n); math.Abs(want-float64(got)) > tolerance {
			t.Fatalf("sample %d: want %v, got %v", n, want, got)
		}
	}
	want := math.Mod(2*math.Pi*440*512/testRate, 2*math.Pi)
	if got := voices[0].phase; math.Abs(want-got) > 1e-9 {
		t.Errorf("wrong phase after render: want %v, got %v", want, got)
	}
	if got := voices[0].phase; math.Abs(got-0.6810) > 1e-3 {
		t.Errorf("phase after one 512 frame buffer of 440Hz should be ~0.6810, got %v", got)
	}
}

func TestRenderIsContinuousAcrossBuffers(t *testing.T) {
	for _, size := range []int{1, 64, 256, 441, 512} {
		split := newBank(testRate, size)
		whole := newBank(testRate, 2*size)

		a := []voice{{freq: 261.63, phase: 1.0}}
		b := []voice{{freq: 261.63, phase: 1.0}}

		first := make([]float32, size)
		second := make([]float32, size)
		split.render(first, a, 0.4)
		split.render(second, a, 0.4)

		all := make([]float32, 2*size)
		whole.render(all, b, 0.4)

		got := append(first, second...)
		for n := range all {
			if math.Abs(float64(all[n]-got[n])) > 1e-5 {
				t.Fatalf("size %d: sample %d differs: one buffer %v, two buffers %v", size, n, all[n], got[n])
			}
		}
		if math.Abs(a[0].phase-b[0].phase) > 1e-9 {
			t.Errorf("size %d: phases diverged: %v != %v", size, a[0].phase, b[0].phase)
		}
	}
}

func TestRenderMixesAndNormalizes(t *testing.T) {
	b := newBank(testRate, 256)
	voices := []voice{{freq: 440}, {freq: 659.26, phase: 0.25}}
	out := make([]float32, 256)
	b.render(out, voices, 0.6)

	for n, got := range out {
		want := (sine(440, 0.6, 0, n) + sine(659.26, 0.6, 0.25, n)) / 2
		if math.Abs(want-float64(got)) > tolerance {
			t.Fatalf("sample %d: want %v, got %v", n, want, got)
		}
	}
}

func TestRenderSilence(t *testing.T) {
	tests := []struct {
		name   string
		voices []voice
		gain   float64
	}{
		{"zero gain", []voice{{freq: 440, phase: 1}}, 0},
		{"near zero gain", []voice{{freq: 440, phase: 1}}, 0.0009},
		{"no voices", nil, 0.5},
		{"nan gain", []voice{{freq: 440, phase: 1}}, math.NaN()},
	}
	for _, test := range tests {
		b := newBank(testRate, 128)
		out := make([]float32, 128)
		for n := range out {
			out[n] = 1
		}
		b.render(out, test.voices, test.gain)
		for n, s := range out {
			if s != 0 {
				t.Fatalf("%s: sample %d is not silent: %v", test.name, n, s)
			}
		}
		for _, v := range test.voices {
			if want, got := 1.0, v.phase; want != got {
				t.Errorf("%s: phase should not advance while silent: want %v, got %v", test.name, want, got)
			}
		}
	}
}

func TestRenderContainsNonFiniteVoices(t *testing.T) {
	b := newBank(testRate, 128)
	voices := []voice{
		{freq: 440, phase: math.NaN()},
		{freq: 880},
		{freq: math.Inf(1)},
	}
	out := make([]float32, 128)
	b.render(out, voices, 0.5)

	for n, got := range out {
		if math.IsNaN(float64(got)) || math.IsInf(float64(got), 0) {
			t.Fatalf("sample %d is not finite: %v", n, got)
		}
		if want := sine(880, 0.5, 0, n) / 3; math.Abs(want-float64(got)) > tolerance {
			t.Fatalf("sample %d: want %v, got %v", n, want, got)
		}
	}
	if want, got := 0.0, voices[0].phase; want != got {
		t.Errorf("bad phase should be reset: want %v, got %v", want, got)
	}
}

func TestRenderClamps(t *testing.T) {
	b := newBank(testRate, 512)
	out := make([]float32, 512)
	b.render(out, []voice{{freq: 100}}, 4)
	var peak float32
	for _, s := range out {
		if s > 1 || s < -1 {
			t.Fatalf("sample out of range: %v", s)
		}
		if s > peak {
			peak = s
		}
	}
	if want, got := float32(1), peak; want != got {
		t.Errorf("expected clipped peak %v, got %v", want, got)
	}
}

func TestRenderGrowsScratch(t *testing.T) {
	b := newBank(testRate, 16)
	out := make([]float32, 1024)
	b.render(out, []voice{{freq: 440}}, 0.5)
	if want, got := sine(440, 0.5, 0, 1000), float64(out[1000]); math.Abs(want-got) > tolerance {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestWrapPhase(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
		{-math.Pi / 2, 1.5 * math.Pi},
	}
	for _, test := range tests {
		if got := wrapPhase(test.in); math.Abs(test.want-got) > 1e-12 {
			t.Errorf("wrapPhase(%v): want %v, got %v", test.in, test.want, got)
		}
	}
}
