package main

import (
	"reflect"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

type testHolder struct {
	held map[int]int
}

func (h *testHolder) Hold(notes ...int) {
	for _, n := range notes {
		h.held[n]++
	}
}

func (h *testHolder) Release(notes ...int) {
	for _, n := range notes {
		h.held[n]--
		if h.held[n] == 0 {
			delete(h.held, n)
		}
	}
}

func (h *testHolder) ReleaseAll() {
	h.held = make(map[int]int)
}

func TestHandleMIDI(t *testing.T) {
	h := &testHolder{held: make(map[int]int)}

	handleMIDI(h, midi.NoteOn(0, 60, 100))
	handleMIDI(h, midi.NoteOn(1, 64, 90))
	handleMIDI(h, midi.ControlChange(0, 64, 127))
	if want := map[int]int{60: 1, 64: 1}; !reflect.DeepEqual(want, h.held) {
		t.Fatalf("want held %v, got %v", want, h.held)
	}

	handleMIDI(h, midi.NoteOff(0, 60))
	// note on with velocity 0 is a note off
	handleMIDI(h, midi.NoteOn(1, 64, 0))
	if len(h.held) != 0 {
		t.Errorf("want nothing held, got %v", h.held)
	}
}
