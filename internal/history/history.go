// Package history versions timeline snapshots for undo/redo.
package history

import "github.com/cutform/cutform-engine/internal/timeline"

// Stack is a linear list of timeline snapshots with a cursor. The snapshot
// at the cursor is the present; Undo and Redo only move the cursor. Pushing
// while the cursor is not at the end truncates the redo branch.
type Stack struct {
	snapshots []timeline.Timeline
	cursor    int
}

// New returns a stack seeded with the initial snapshot.
func New(initial timeline.Timeline) *Stack {
	return &Stack{snapshots: []timeline.Timeline{initial.Clone()}}
}

// Current returns a copy of the snapshot at the cursor.
func (s *Stack) Current() timeline.Timeline {
	return s.snapshots[s.cursor].Clone()
}

// Push records a new snapshot. Structurally identical snapshots are
// dropped so rejected edits never pollute undo granularity. Reports
// whether an entry was recorded.
func (s *Stack) Push(tl timeline.Timeline) bool {
	if tl.Equal(s.snapshots[s.cursor]) {
		return false
	}
	s.snapshots = append(s.snapshots[:s.cursor+1], tl.Clone())
	s.cursor++
	return true
}

// Undo moves the cursor back one entry. Reports false at the oldest entry.
func (s *Stack) Undo() (timeline.Timeline, bool) {
	if s.cursor == 0 {
		return s.Current(), false
	}
	s.cursor--
	return s.Current(), true
}

// Redo moves the cursor forward one entry. Reports false at the newest.
func (s *Stack) Redo() (timeline.Timeline, bool) {
	if s.cursor == len(s.snapshots)-1 {
		return s.Current(), false
	}
	s.cursor++
	return s.Current(), true
}

func (s *Stack) CanUndo() bool { return s.cursor > 0 }

func (s *Stack) CanRedo() bool { return s.cursor < len(s.snapshots)-1 }

// Len reports the number of recorded snapshots, the seed included.
func (s *Stack) Len() int { return len(s.snapshots) }
