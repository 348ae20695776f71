package keys

import (
	"sync"

	"github.com/mrdg/squeezebox/audio"
)

// Voicer starts and stops frequencies.
type Voicer interface {
	NoteOn(freq float64)
	NoteOff(freq float64)
}

// Counter reference counts sounding pitches so that a pitch held by several
// sources, e.g. the shared tone of two chords, or a MIDI note and the same
// frequency typed in Hz, only stops when the last one lets go.
type Counter struct {
	mu   sync.Mutex
	out  Voicer
	refs map[audio.Pitch]int
}

func NewCounter(out Voicer) *Counter {
	return &Counter{out: out, refs: make(map[audio.Pitch]int)}
}

// Hold holds MIDI notes.
func (c *Counter) Hold(notes ...int) {
	c.HoldHz(midiFreqs(notes)...)
}

func (c *Counter) Release(notes ...int) {
	c.ReleaseHz(midiFreqs(notes)...)
}

// HoldHz holds frequencies. Frequencies that can't sound are skipped.
func (c *Counter) HoldHz(freqs ...float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range freqs {
		p, ok := audio.PitchOf(f)
		if !ok {
			continue
		}
		c.refs[p]++
		if c.refs[p] == 1 {
			c.out.NoteOn(f)
		}
	}
}

func (c *Counter) ReleaseHz(freqs ...float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range freqs {
		p, ok := audio.PitchOf(f)
		if !ok || c.refs[p] == 0 {
			continue
		}
		c.refs[p]--
		if c.refs[p] == 0 {
			delete(c.refs, p)
			c.out.NoteOff(f)
		}
	}
}

// ReleaseAll stops every held pitch.
func (c *Counter) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.refs {
		c.out.NoteOff(p.Hz())
	}
	c.refs = make(map[audio.Pitch]int)
}

// Held returns how many times a MIDI note is held.
func (c *Counter) Held(note int) int {
	return c.HeldHz(MIDIToFreq(note))
}

func (c *Counter) HeldHz(freq float64) int {
	p, ok := audio.PitchOf(freq)
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs[p]
}

func midiFreqs(notes []int) []float64 {
	freqs := make([]float64, len(notes))
	for i, n := range notes {
		freqs[i] = MIDIToFreq(n)
	}
	return freqs
}
