package catalog

import "sync/atomic"

// Holder is the process-wide pointer to the current corpus snapshot. Queries
// read whichever snapshot was current when they started; a reload publishes a
// complete new Snapshot with Swap and never edits one in place.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a Holder serving the given snapshot.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Current returns the snapshot being served.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Swap atomically replaces the served snapshot.
func (h *Holder) Swap(s *Snapshot) {
	h.current.Store(s)
}
