package dialogue

import (
	"slices"
	"sync"
)

const (
	// SpeakerNarrator marks narrative text with no identifiable speaker.
	SpeakerNarrator = "NARRATOR"
	// SpeakerUnknown marks dialogue whose speaker is ambiguous.
	SpeakerUnknown = "UNKNOWN"
)

// IsSentinel reports whether label is NARRATOR, UNKNOWN or empty.
func IsSentinel(label string) bool {
	return label == "" || label == SpeakerNarrator || label == SpeakerUnknown
}

// CharacterSet accumulates the distinct speaker labels attributed during one
// run. It is safe for concurrent use and only ever grows.
type CharacterSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewCharacterSet returns an empty set.
func NewCharacterSet() *CharacterSet {
	return &CharacterSet{names: make(map[string]struct{})}
}

// Add records label unless it is a sentinel. It reports whether the label was new.
func (s *CharacterSet) Add(label string) bool {
	if IsSentinel(label) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[label]; ok {
		return false
	}
	s.names[label] = struct{}{}
	return true
}

// Contains reports membership.
func (s *CharacterSet) Contains(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[label]
	return ok
}

// Len returns the number of distinct characters.
func (s *CharacterSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

// Sorted returns a sorted snapshot of the labels.
func (s *CharacterSet) Sorted() []string {
	s.mu.Lock()
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	s.mu.Unlock()
	slices.Sort(out)
	return out
}
