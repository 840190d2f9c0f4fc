// Package history provides a bounded undo/redo stack of immutable states.
//
// A History is a value: Push, Undo and Redo return a new History and leave
// the receiver unchanged, so a caller keeps exactly one current History
// and replaces it after every edit:
//
//	h := history.New(initial)
//	h = h.Push(edited)
//	h = h.Undo()
//
// Every change to the underlying state must go through Push. Changing the
// state behind the history's back leaves the stacks out of step with what
// the user sees.
package history

// DefaultMaxSize is the default number of undo steps kept.
const DefaultMaxSize = 50

// History holds past, present and future states. Past is oldest first;
// Future is next-redo first.
type History[T any] struct {
	Past    []T
	Present T
	Future  []T
}

// New creates a history whose present is initial
func New[T any](initial T) History[T] {
	return History[T]{Present: initial}
}

// Push makes next the present state, keeping at most DefaultMaxSize past
// states. The redo branch is discarded.
func (h History[T]) Push(next T) History[T] {
	return h.PushMax(next, DefaultMaxSize)
}

// PushMax is Push with an explicit bound on the past. The oldest states
// are dropped first. A maxSize below 1 keeps no past at all.
func (h History[T]) PushMax(next T, maxSize int) History[T] {
	past := make([]T, 0, len(h.Past)+1)
	past = append(past, h.Past...)
	past = append(past, h.Present)
	if maxSize < 0 {
		maxSize = 0
	}
	if len(past) > maxSize {
		past = past[len(past)-maxSize:]
	}
	return History[T]{Past: past, Present: next}
}

// Undo steps back one state. It does nothing when there is no past.
func (h History[T]) Undo() History[T] {
	if len(h.Past) == 0 {
		return h
	}
	last := len(h.Past) - 1

	past := make([]T, last)
	copy(past, h.Past[:last])

	future := make([]T, 0, len(h.Future)+1)
	future = append(future, h.Present)
	future = append(future, h.Future...)

	return History[T]{Past: past, Present: h.Past[last], Future: future}
}

// Redo steps forward one state. It does nothing when there is no future.
func (h History[T]) Redo() History[T] {
	if len(h.Future) == 0 {
		return h
	}

	past := make([]T, 0, len(h.Past)+1)
	past = append(past, h.Past...)
	past = append(past, h.Present)

	future := make([]T, len(h.Future)-1)
	copy(future, h.Future[1:])

	return History[T]{Past: past, Present: h.Future[0], Future: future}
}

// CanUndo reports whether Undo would change anything
func (h History[T]) CanUndo() bool {
	return len(h.Past) > 0
}

// CanRedo reports whether Redo would change anything
func (h History[T]) CanRedo() bool {
	return len(h.Future) > 0
}
