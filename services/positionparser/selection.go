package positionparser

import "fmt"

type selectionEntry struct {
	selected bool
	category Category
}

// Selection tracks the operator's per-position decisions for one
// result: whether each extracted position is included in the commit and
// which category it lands in. A new result replaces the selection
// entirely; nothing carries over between submissions.
type Selection struct {
	entries []selectionEntry
}

// NewSelection seeds one entry per extracted position: selected, with
// no category assigned yet.
func NewSelection(n int) *Selection {
	entries := make([]selectionEntry, n)
	for i := range entries {
		entries[i] = selectionEntry{selected: true, category: Uncategorized}
	}
	return &Selection{entries: entries}
}

func (s *Selection) Len() int {
	return len(s.entries)
}

func (s *Selection) valid(index int) bool {
	return index >= 0 && index < len(s.entries)
}

// Toggle flips inclusion for one position. Unknown indices are a no-op.
func (s *Selection) Toggle(index int) {
	if !s.valid(index) {
		return
	}
	s.entries[index].selected = !s.entries[index].selected
}

// SetCategory assigns a destination category; Uncategorized is allowed
// and puts the position back in the blocking state.
func (s *Selection) SetCategory(index int, category Category) {
	if !s.valid(index) {
		return
	}
	s.entries[index].category = category
}

func (s *Selection) Selected(index int) bool {
	return s.valid(index) && s.entries[index].selected
}

func (s *Selection) CategoryOf(index int) Category {
	if !s.valid(index) {
		return Uncategorized
	}
	return s.entries[index].category
}

func (s *Selection) SelectedCount() int {
	count := 0
	for _, e := range s.entries {
		if e.selected {
			count++
		}
	}
	return count
}

func (s *Selection) uncategorizedCount() int {
	count := 0
	for _, e := range s.entries {
		if e.selected && e.category == Uncategorized {
			count++
		}
	}
	return count
}

// ReadyToCommit is the single gate for the commit action: a destination
// is chosen, something is selected, and every selected position has a
// category.
func (s *Selection) ReadyToCommit(destinationChosen bool) bool {
	return destinationChosen &&
		s.SelectedCount() > 0 &&
		s.uncategorizedCount() == 0
}

// ValidationMessage explains, in priority order, why the commit is
// blocked. Empty when ready.
func (s *Selection) ValidationMessage(destinationChosen bool) string {
	if !destinationChosen {
		return "Select a politician to add positions to"
	}
	if s.SelectedCount() == 0 {
		return "No positions selected"
	}
	if n := s.uncategorizedCount(); n > 0 {
		if n == 1 {
			return "1 selected position needs a category"
		}
		return fmt.Sprintf("%d selected positions need a category", n)
	}
	return ""
}
