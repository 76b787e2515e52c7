// Package chord tracks the notes currently held on the connected device.
package chord

import (
	"slices"
	"sync"

	"github.com/delugian/midi/sdk/contracts"
)

// Stack is the ordered list of held note numbers. Duplicates are kept: the same
// note on two channels, or retriggered before its release, takes two slots.
// Stack is safe for concurrent use; readers only ever get copies.
type Stack struct {
	mu    sync.Mutex
	notes []uint8
}

// Apply updates the stack with ev and reports the resulting snapshot and
// whether the stack changed. NoteOn appends; NoteOff removes the first equal
// note, if any; other events are ignored.
func (s *Stack) Apply(ev contracts.Event) ([]uint8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case contracts.NoteOnEvent:
		s.notes = append(s.notes, ev.Note)
	case contracts.NoteOffEvent:
		i := slices.Index(s.notes, ev.Note)
		if i < 0 {
			return s.snapshot(), false
		}
		s.notes = slices.Delete(s.notes, i, i+1)
	default:
		return s.snapshot(), false
	}
	return s.snapshot(), true
}

// Snapshot returns a copy of the held notes in the order they were pressed.
func (s *Stack) Snapshot() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Clear empties the stack and reports whether it held any notes.
func (s *Stack) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := len(s.notes) > 0
	s.notes = nil
	return held
}

func (s *Stack) snapshot() []uint8 {
	out := make([]uint8, len(s.notes))
	copy(out, s.notes)
	return out
}
