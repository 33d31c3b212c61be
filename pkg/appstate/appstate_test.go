package appstate

import (
	"testing"

	"github.com/dockedup/dockedup/pkg/monitor"
)

func records(ids ...string) []monitor.Record {
	out := make([]monitor.Record, len(ids))
	for i, id := range ids {
		out[i] = monitor.Record{ID: id, Name: id}
	}
	return out
}

func TestMoveSelectionClampsWithoutWrap(t *testing.T) {
	s := New(false)
	s.UpdateContainers(records("a", "b", "c"))

	s.MoveSelection(-1)
	if got := s.SelectedIndex(); got != 0 {
		t.Errorf("selected index = %d, want 0", got)
	}

	for i := 0; i < 5; i++ {
		s.MoveSelection(1)
	}
	if got := s.SelectedIndex(); got != 2 {
		t.Errorf("selected index = %d, want 2 (clamped)", got)
	}
}

func TestMoveSelectionOnEmptyList(t *testing.T) {
	s := New(false)
	s.MoveSelection(1)
	if got := s.SelectedIndex(); got != 0 {
		t.Errorf("selected index on empty list = %d, want 0", got)
	}
	if _, ok := s.GetSelected(); ok {
		t.Error("GetSelected on empty list should return false")
	}
}

func TestSelectionStabilityAcrossReorder(t *testing.T) {
	s := New(false)
	s.UpdateContainers(records("a", "b"))
	s.MoveSelection(1) // select "b" at index 1

	sel, ok := s.GetSelected()
	if !ok || sel.ID != "b" {
		t.Fatalf("expected b selected, got %+v ok=%v", sel, ok)
	}

	// "aa" appears, sorting between "a" and "b".
	s.UpdateContainers(records("a", "aa", "b"))

	if got := s.SelectedIndex(); got != 2 {
		t.Errorf("selected index after reorder = %d, want 2", got)
	}
	sel, ok = s.GetSelected()
	if !ok || sel.ID != "b" {
		t.Errorf("expected b still selected after reorder, got %+v", sel)
	}
}

func TestUpdateContainersResetsSelectionWhenIDGone(t *testing.T) {
	s := New(false)
	s.UpdateContainers(records("a", "b"))
	s.MoveSelection(1) // select "b"

	s.UpdateContainers(records("c", "d"))
	if got := s.SelectedIndex(); got != 0 {
		t.Errorf("selected index after selected id disappears = %d, want 0", got)
	}
}

func TestScrollViewClamps(t *testing.T) {
	s := New(false)
	s.UpdateContainers(records("a", "b", "c"))

	s.ScrollView(-1)
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("scroll offset = %d, want 0", got)
	}

	for i := 0; i < 10; i++ {
		s.ScrollView(1)
	}
	if got := s.ScrollOffset(); got != 2 {
		t.Errorf("scroll offset = %d, want 2 (len-1)", got)
	}
}

func TestScrollOffsetClampedAfterShrink(t *testing.T) {
	s := New(false)
	s.UpdateContainers(records("a", "b", "c"))
	s.ScrollView(1)
	s.ScrollView(1) // offset = 2

	s.UpdateContainers(records("a"))
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("scroll offset after shrink = %d, want 0", got)
	}
}

func TestUIUpdatedSignalCoalesces(t *testing.T) {
	s := New(false)
	s.UpdateContainers(records("a", "b"))

	s.MoveSelection(1)
	s.MoveSelection(-1)

	select {
	case <-s.UIUpdated():
	default:
		t.Fatal("expected a pending signal after state changes")
	}
	select {
	case <-s.UIUpdated():
		t.Fatal("expected signal channel to be drained after one receive")
	default:
	}
}
