package audio

import (
	"math"
	"sort"
	"sync"
)

// Pitch identifies a sounding frequency at millihertz precision, so that a
// note_off for a frequency always finds the note_on that started it even
// when the two were computed along different floating point paths.
type Pitch int64

// PitchOf returns the key for freq. It reports false for frequencies that
// can never sound: non-finite, zero or negative ones, and ones too high to
// key in millihertz.
func PitchOf(freq float64) (Pitch, bool) {
	if !isFinite(freq) || freq <= 0 || freq*1000 >= math.MaxInt64 {
		return 0, false
	}
	return Pitch(math.Round(freq * 1000)), true
}

// Hz returns the frequency the pitch was rounded to.
func (p Pitch) Hz() float64 { return float64(p) / 1000 }

const DefaultVolumeCap = 0.6

// Synth is the synthesis state shared between the control side (NoteOn,
// NoteOff, SetPressure) and the audio callback (Render). Everything is
// guarded by a single mutex that is only ever held for in-memory updates
// and for the duration of one render.
//
// Control calls can come from any goroutine at any rate; none of them waits
// on anything but the render of at most one buffer.
type Synth struct {
	mu     sync.Mutex
	bank   *bank
	voices []voice            // active notes, sorted by pitch
	phases map[Pitch]float64 // phases of released notes
	volume float64
	cap    float64
	closed bool
}

// NewSynth returns a silent synth. frames is the expected render size and is
// only used to size scratch memory up front.
func NewSynth(sampleRate float64, frames int, volumeCap float64) *Synth {
	if volumeCap <= 0 || volumeCap > 1 || !isFinite(volumeCap) {
		volumeCap = DefaultVolumeCap
	}
	return &Synth{
		bank:   newBank(sampleRate, frames),
		voices: make([]voice, 0, 64),
		phases: make(map[Pitch]float64),
		cap:    volumeCap,
	}
}

// NoteOn starts sounding freq. Starting a note that is already sounding does
// nothing; a note that sounded before resumes from the phase it stopped at.
func (s *Synth) NoteOn(freq float64) {
	pitch, ok := PitchOf(freq)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	i, found := s.find(pitch)
	if found {
		return
	}
	v := voice{pitch: pitch, freq: freq, phase: s.phases[pitch]}
	s.voices = append(s.voices, voice{})
	copy(s.voices[i+1:], s.voices[i:])
	s.voices[i] = v
}

// NoteOff stops sounding freq if it is active.
func (s *Synth) NoteOff(freq float64) {
	pitch, ok := PitchOf(freq)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	i, found := s.find(pitch)
	if !found {
		return
	}
	s.phases[pitch] = s.voices[i].phase
	s.voices = append(s.voices[:i], s.voices[i+1:]...)
}

// SetPressure sets the master volume from a bellows pressure value. The
// value is clamped to [0, cap] and anything below 0.001 is exact silence.
func (s *Synth) SetPressure(p float64) {
	volume := 0.0
	if isFinite(p) && p >= silenceThreshold {
		volume = math.Min(p, s.cap)
	}
	s.mu.Lock()
	if !s.closed {
		s.volume = volume
	}
	s.mu.Unlock()
}

// Render fills out with the current state of the instrument.
func (s *Synth) Render(out []float32) {
	s.render(out)
}

func (s *Synth) render(out []float32) Level {
	s.mu.Lock()
	s.bank.render(out, s.voices, s.volume)
	level := Level{Notes: len(s.voices), Volume: s.volume}
	s.mu.Unlock()
	return level
}

func (s *Synth) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Synth) VolumeCap() float64 { return s.cap }

// Active returns the frequencies currently sounding in ascending order.
func (s *Synth) Active() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	freqs := make([]float64, len(s.voices))
	for i, v := range s.voices {
		freqs[i] = v.freq
	}
	return freqs
}

// Phase returns the phase freq will continue from.
func (s *Synth) Phase(freq float64) (float64, bool) {
	pitch, ok := PitchOf(freq)
	if !ok {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, found := s.find(pitch); found {
		return s.voices[i].phase, true
	}
	phase, ok := s.phases[pitch]
	return phase, ok
}

// close silences the synth for good. Later control calls are ignored.
func (s *Synth) close() {
	s.mu.Lock()
	s.closed = true
	s.volume = 0
	s.voices = s.voices[:0]
	s.mu.Unlock()
}

func (s *Synth) find(pitch Pitch) (int, bool) {
	i := sort.Search(len(s.voices), func(i int) bool {
		return s.voices[i].pitch >= pitch
	})
	return i, i < len(s.voices) && s.voices[i].pitch == pitch
}
