package tracker

import "sort"

// Registry is the admission filter: the set of tracked subject ids plus the
// track-everyone flag. Not safe for concurrent use.
type Registry struct {
	tracked  map[string]struct{}
	trackAll bool
}

// NewRegistry creates a Registry seeded with ids.
func NewRegistry(trackAll bool, ids ...string) *Registry {
	r := &Registry{tracked: make(map[string]struct{}, len(ids)), trackAll: trackAll}
	for _, id := range ids {
		if id != "" {
			r.tracked[id] = struct{}{}
		}
	}
	return r
}

// Track adds id and reports whether it was newly added.
func (r *Registry) Track(id string) bool {
	if _, ok := r.tracked[id]; ok {
		return false
	}
	r.tracked[id] = struct{}{}
	return true
}

// Untrack removes id and reports whether it was present.
func (r *Registry) Untrack(id string) bool {
	if _, ok := r.tracked[id]; !ok {
		return false
	}
	delete(r.tracked, id)
	return true
}

// IsTracked reports whether events for id are admitted.
func (r *Registry) IsTracked(id string) bool {
	if r.trackAll {
		return true
	}
	_, ok := r.tracked[id]
	return ok
}

// List returns the explicitly tracked ids, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.tracked))
	for id := range r.tracked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetTrackAll sets the track-everyone flag.
func (r *Registry) SetTrackAll(v bool) {
	r.trackAll = v
}

// TrackAll reports the track-everyone flag.
func (r *Registry) TrackAll() bool {
	return r.trackAll
}

// Reset removes every explicitly tracked id. The track-everyone flag is kept.
func (r *Registry) Reset() {
	r.tracked = make(map[string]struct{})
}
