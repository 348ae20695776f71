package keys

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

type Action int

const (
	ActionNone Action = iota
	ActionQuit
)

// A key stays sounding while it is held or latched by sustain.
type voiced struct {
	notes     []int
	held      bool
	sustained bool
}

// Mapper turns key transitions into notes. Keys are named by their
// lower-case character or, for special keys, by names like "enter",
// "backspace", "tab".
type Mapper struct {
	mu      sync.Mutex
	notes   *Counter
	aliases map[string]string
	pressed map[string]bool
	voiced  map[string]*voiced
	muted   bool
	logf    func(format string, args ...interface{})
}

func NewMapper(notes *Counter) *Mapper {
	return &Mapper{
		notes:   notes,
		aliases: make(map[string]string),
		pressed: make(map[string]bool),
		voiced:  make(map[string]*voiced),
		logf:    log.Printf,
	}
}

// Alias makes key act as target, for keyboards that can't produce target.
func (m *Mapper) Alias(key, target string) {
	m.mu.Lock()
	m.aliases[key] = target
	m.mu.Unlock()
}

// SetLogger sets where note and control messages go.
func (m *Mapper) SetLogger(logf func(format string, args ...interface{})) {
	m.mu.Lock()
	m.logf = logf
	m.mu.Unlock()
}

func (m *Mapper) Press(key string) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	key = m.normalize(key)
	switch key {
	case KeyQuit:
		return ActionQuit
	case KeyMute:
		m.muted = !m.muted
		if m.muted {
			m.logf("MUTED")
		} else {
			m.logf("UNMUTED")
		}
		return ActionNone
	case KeySustain:
		m.toggleSustain()
		return ActionNone
	}

	if m.muted || m.pressed[key] {
		return ActionNone
	}
	notes, ok := Notes(key)
	if !ok {
		return ActionNone
	}
	m.pressed[key] = true
	v, ok := m.voiced[key]
	if !ok {
		v = &voiced{notes: notes}
		m.voiced[key] = v
		m.notes.Hold(notes...)
	}
	v.held = true
	m.logf("%s ON: %s -> %s", layout[key].kind, key, formatNotes(notes))
	return ActionNone
}

func (m *Mapper) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key = m.normalize(key)
	if !m.pressed[key] {
		return
	}
	delete(m.pressed, key)
	v := m.voiced[key]
	v.held = false
	if v.sustained {
		if !m.muted {
			m.logf("OFF (sustained): %s", key)
		}
		return
	}
	m.silence(key, v)
	if !m.muted {
		m.logf("OFF: %s", key)
	}
}

// Reset lets go of every key and sustain.
func (m *Mapper) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.voiced {
		m.silence(key, v)
	}
	m.pressed = make(map[string]bool)
}

func (m *Mapper) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Sustained returns the keys latched by sustain.
func (m *Mapper) Sustained() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key, v := range m.voiced {
		if v.sustained {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// toggleSustain latches every held key, or if anything is latched already,
// releases all latched keys instead.
func (m *Mapper) toggleSustain() {
	keys := make([]string, 0, len(m.voiced))
	var sustaining bool
	for key, v := range m.voiced {
		keys = append(keys, key)
		sustaining = sustaining || v.sustained
	}
	sort.Strings(keys)

	if sustaining {
		for _, key := range keys {
			v := m.voiced[key]
			if !v.sustained {
				continue
			}
			v.sustained = false
			if !v.held {
				m.silence(key, v)
			}
			m.logf("UNSUSTAIN: %s", key)
		}
		m.logf("All sustains released")
		return
	}

	var latched int
	for _, key := range keys {
		if v := m.voiced[key]; v.held {
			v.sustained = true
			latched++
			m.logf("SUSTAIN: %s", key)
		}
	}
	if latched > 0 {
		m.logf("Notes sustained (press Tab to release)")
	}
}

func (m *Mapper) silence(key string, v *voiced) {
	m.notes.Release(v.notes...)
	delete(m.voiced, key)
}

func (m *Mapper) normalize(key string) string {
	key = strings.ToLower(key)
	if target, ok := m.aliases[key]; ok {
		return target
	}
	return key
}

func formatNotes(notes []int) string {
	freqs := make([]string, len(notes))
	for i, n := range notes {
		freqs[i] = fmt.Sprintf("%.1fHz", MIDIToFreq(n))
	}
	return strings.Join(freqs, ", ")
}
