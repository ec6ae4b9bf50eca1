package tracker

// Deduplicator remembers recently seen message ids. When the window grows past
// limit it keeps only the keep most recently inserted ids. Not safe for
// concurrent use.
type Deduplicator struct {
	limit int
	keep  int
	seen  map[string]struct{}
	order []string
}

// NewDeduplicator creates a Deduplicator with the given trim limit and retained size.
func NewDeduplicator(limit, keep int) *Deduplicator {
	if limit <= 0 {
		limit = DefaultDedupLimit
	}
	if keep <= 0 || keep > limit {
		keep = limit / 2
	}
	return &Deduplicator{
		limit: limit,
		keep:  keep,
		seen:  make(map[string]struct{}, limit+1),
		order: make([]string, 0, limit+1),
	}
}

// Observe reports true the first time id is seen in the window and false on repeats.
func (d *Deduplicator) Observe(id string) bool {
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)

	if len(d.order) > d.limit {
		cut := len(d.order) - d.keep
		for _, old := range d.order[:cut] {
			delete(d.seen, old)
		}
		kept := make([]string, d.keep, d.limit+1)
		copy(kept, d.order[cut:])
		d.order = kept
	}
	return true
}

// Contains reports whether id is in the current window.
func (d *Deduplicator) Contains(id string) bool {
	_, ok := d.seen[id]
	return ok
}

// Len returns the window size.
func (d *Deduplicator) Len() int {
	return len(d.order)
}

// Reset empties the window.
func (d *Deduplicator) Reset() {
	d.seen = make(map[string]struct{}, d.limit+1)
	d.order = d.order[:0]
}
