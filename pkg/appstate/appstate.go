// Package appstate holds the selection and scroll model shared by the
// renderer and the input dispatcher. A single mutex covers every field so
// neither side ever observes a half-updated view.
package appstate

import (
	"sync"

	"github.com/dockedup/dockedup/pkg/monitor"
)

// State is the thread-safe selection/scroll model (C4).
type State struct {
	mu sync.Mutex

	flat    []monitor.Record
	indexOf map[string]int

	selectedIndex int
	scrollOffset  int
	debugMode     bool

	uiUpdated chan struct{}
}

// New returns an empty State with debugMode set as requested.
func New(debugMode bool) *State {
	return &State{
		indexOf:   make(map[string]int),
		debugMode: debugMode,
		uiUpdated: make(chan struct{}, 1),
	}
}

// UIUpdated is a coalescing wakeup channel: MoveSelection, ScrollView and
// SetDebugMode do a non-blocking send on it (UpdateContainers does not), so a consumer that selects on it wakes at
// most once per batch of changes rather than once per change.
func (s *State) UIUpdated() <-chan struct{} {
	return s.uiUpdated
}

func (s *State) signal() {
	select {
	case s.uiUpdated <- struct{}{}:
	default:
	}
}

// DebugMode reports whether debug mode is on.
func (s *State) DebugMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugMode
}

// SetDebugMode toggles debug mode and signals the renderer.
func (s *State) SetDebugMode(on bool) {
	s.mu.Lock()
	s.debugMode = on
	s.mu.Unlock()
	s.signal()
}

// UpdateContainers replaces the flat list with a new snapshot's flattening.
// If the previously selected id is still present, selection follows it to
// its new index (invariant 6); otherwise selection resets to 0. The scroll
// offset is clamped into range.
func (s *State) UpdateContainers(flat []monitor.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var selectedID string
	if s.selectedIndex >= 0 && s.selectedIndex < len(s.flat) {
		selectedID = s.flat[s.selectedIndex].ID
	}

	s.flat = flat
	s.indexOf = make(map[string]int, len(flat))
	for i, r := range flat {
		s.indexOf[r.ID] = i
	}

	if selectedID != "" {
		if idx, ok := s.indexOf[selectedID]; ok {
			s.selectedIndex = idx
		} else {
			s.selectedIndex = 0
		}
	} else {
		s.selectedIndex = 0
	}

	maxScroll := len(s.flat) - 1
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scrollOffset > maxScroll {
		s.scrollOffset = maxScroll
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}

// GetSelected returns a copy of the currently selected record, or false if
// the list is empty.
func (s *State) GetSelected() (monitor.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.flat) == 0 || s.selectedIndex < 0 || s.selectedIndex >= len(s.flat) {
		return monitor.Record{}, false
	}
	return s.flat[s.selectedIndex], true
}

// Flat returns a copy of the current flat list, for the renderer to lay out.
func (s *State) Flat() []monitor.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]monitor.Record, len(s.flat))
	copy(out, s.flat)
	return out
}

// SelectedIndex and ScrollOffset return the current positions for the
// renderer to use when laying out the highlighted row and visible window.
func (s *State) SelectedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIndex
}

func (s *State) ScrollOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollOffset
}

// MoveSelection shifts the selected index by delta, clamped at both ends
// with no wraparound, and signals the renderer.
func (s *State) MoveSelection(delta int) {
	s.mu.Lock()
	if len(s.flat) > 0 {
		next := s.selectedIndex + delta
		if next < 0 {
			next = 0
		}
		if next > len(s.flat)-1 {
			next = len(s.flat) - 1
		}
		s.selectedIndex = next
	}
	s.mu.Unlock()
	s.signal()
}

// ScrollView shifts the scroll offset by one project group, clamped, and
// signals the renderer.
func (s *State) ScrollView(delta int) {
	s.mu.Lock()
	maxScroll := len(s.flat) - 1
	if maxScroll < 0 {
		maxScroll = 0
	}
	next := s.scrollOffset + delta
	if next < 0 {
		next = 0
	}
	if next > maxScroll {
		next = maxScroll
	}
	s.scrollOffset = next
	s.mu.Unlock()
	s.signal()
}
