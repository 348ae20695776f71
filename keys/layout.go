// Package keys maps key presses to notes and chords.
package keys

import "math"

// MIDIToFreq returns the equal-tempered frequency of a MIDI note number.
func MIDIToFreq(note int) float64 {
	return math.Pow(2, float64(note-69)/12.0) * 440
}

type kind int

const (
	kindBass kind = iota
	kindMajor
	kindMinor
	kindTreble
)

func (k kind) String() string {
	switch k {
	case kindBass:
		return "BASS"
	case kindMajor:
		return "MAJOR"
	case kindMinor:
		return "MINOR"
	default:
		return "TREBLE"
	}
}

type binding struct {
	kind kind
	note int // MIDI note, or chord root
}

// Control keys.
const (
	KeyQuit    = "esc"
	KeySustain = "tab"
	KeyMute    = "caps_lock"
)

// Bass notes C3-A#3 on the bottom row, major and minor chords rooted C4-B4 on
// the home and top rows, treble C6-C7 on the number row.
var layout = map[string]binding{}

func init() {
	bind := func(k kind, keys []string, first int) {
		for n, key := range keys {
			layout[key] = binding{kind: k, note: first + n}
		}
	}
	bind(kindBass, []string{"z", "x", "c", "v", "b", "n", "m", ",", ".", "/", "shift_r"}, 48)
	bind(kindMajor, []string{"a", "s", "d", "f", "g", "h", "j", "k", "l", ";", "'", "enter"}, 60)
	bind(kindMinor, []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "[", "]"}, 60)
	bind(kindTreble, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "=", "backspace"}, 84)
}

// Notes returns the MIDI notes a key plays.
func Notes(key string) ([]int, bool) {
	b, ok := layout[key]
	if !ok {
		return nil, false
	}
	switch b.kind {
	case kindMajor:
		return majorChord(b.note), true
	case kindMinor:
		return minorChord(b.note), true
	default:
		return []int{b.note}, true
	}
}

// Higher chords are inverted to keep them close to the middle of the range.
func majorChord(root int) []int {
	switch {
	case root >= 68:
		return []int{root + 4, root + 7, root + 12}
	case root >= 65:
		return []int{root + 7, root + 12, root + 16}
	default:
		return []int{root, root + 4, root + 7}
	}
}

func minorChord(root int) []int {
	switch {
	case root >= 68:
		return []int{root + 3, root + 7, root + 12}
	case root >= 65:
		return []int{root + 7, root + 12, root + 15}
	default:
		return []int{root, root + 3, root + 7}
	}
}
