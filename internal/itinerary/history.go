package itinerary

// HistoryDepth caps the undo stack. Snapshots are whole-itinerary deep
// copies, so the cap bounds memory at O(depth × itinerary size).
const HistoryDepth = 10

// History is a bounded undo stack of itinerary snapshots. Entries are
// immutable once pushed: Snapshot stores a deep copy and Pop hands the copy
// back without retaining a reference.
//
// Snapshots are taken only around deliberate bulk rewrites (AI optimize,
// full replacement), not around incremental edits; incremental edits are
// not individually undoable.
type History struct {
	entries [][]Day
}

// Snapshot deep-copies days and pushes it, silently dropping the oldest
// entry beyond HistoryDepth.
func (h *History) Snapshot(days []Day) {
	h.entries = append(h.entries, CloneDays(days))
	if len(h.entries) > HistoryDepth {
		h.entries = h.entries[len(h.entries)-HistoryDepth:]
	}
}

// Pop removes and returns the most recent snapshot. The pop is
// irreversible; there is no redo. Returns nil, false on an empty stack.
func (h *History) Pop() ([]Day, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}
