package timeline

// HistorySnapshot is an immutable deep copy of the editable state at one
// point in time: the clip collection and the selection. Playback parameters
// are deliberately absent; undo never moves the playhead.
type HistorySnapshot struct {
	Clips     []Clip
	Selection []string
}

// History is a bounded two-stack undo/redo mechanism over snapshots.
// It is not safe for concurrent use; the Store serializes access.
type History struct {
	depth  int
	past   []HistorySnapshot
	future []HistorySnapshot
}

// NewHistory creates a history keeping at most depth undo snapshots.
// A depth below 1 falls back to DefaultHistoryDepth.
func NewHistory(depth int) *History {
	if depth < 1 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// Record pushes a pre-mutation snapshot onto the past stack and clears the
// future stack. Once the depth bound is exceeded the oldest snapshot is
// dropped first.
func (h *History) Record(snap HistorySnapshot) {
	h.past = append(h.past, snap)
	if len(h.past) > h.depth {
		h.past = h.past[1:]
	}
	h.future = nil
}

// Undo pops the most recent past snapshot, pushing current onto the future
// stack. It reports false, changing nothing, when there is nothing to undo.
func (h *History) Undo(current HistorySnapshot) (HistorySnapshot, bool) {
	if len(h.past) == 0 {
		return HistorySnapshot{}, false
	}
	snap := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return snap, true
}

// Redo pops the most recent future snapshot, pushing current onto the past
// stack. It reports false, changing nothing, when there is nothing to redo.
func (h *History) Redo(current HistorySnapshot) (HistorySnapshot, bool) {
	if len(h.future) == 0 {
		return HistorySnapshot{}, false
	}
	snap := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return snap, true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the current sizes of the past and future stacks.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}
