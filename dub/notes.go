package dub

import "fmt"

const (
	minNote = 0
	maxNote = 127
)

// Notes expands a note argument to the MIDI notes it names.
func Notes(n Node) ([]int, error) {
	var notes []int
	switch v := n.(type) {
	case Int:
		notes = []int{int(v)}
	case NoteList:
		notes = append(notes, v...)
	case NoteRange:
		if v.Start > v.End {
			return nil, fmt.Errorf("empty note range %d:%d", v.Start, v.End)
		}
		for note := v.Start; note <= v.End; note++ {
			notes = append(notes, note)
		}
	default:
		return nil, fmt.Errorf("not a note: %v", n)
	}
	for _, note := range notes {
		if note < minNote || note > maxNote {
			return nil, fmt.Errorf("note out of range %d - %d: %d", minNote, maxNote, note)
		}
	}
	return notes, nil
}
