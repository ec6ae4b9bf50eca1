package tracker

import "github.com/rpggio/watchlog/internal/domain/entry"

// LogStore is a fixed-capacity, insertion-ordered ring of entries. Appending
// past capacity evicts the single oldest entry. Not safe for concurrent use.
type LogStore struct {
	buf  []entry.LogEntry
	head int
	size int
}

// NewLogStore creates a LogStore holding at most capacity entries.
func NewLogStore(capacity int) *LogStore {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogStore{buf: make([]entry.LogEntry, capacity)}
}

// Append adds e at the end and reports whether an entry was evicted.
func (s *LogStore) Append(e entry.LogEntry) bool {
	capacity := len(s.buf)
	if s.size < capacity {
		s.buf[(s.head+s.size)%capacity] = e
		s.size++
		return false
	}
	s.buf[s.head] = e
	s.head = (s.head + 1) % capacity
	return true
}

// All returns a copy of the entries, oldest first.
func (s *LogStore) All() []entry.LogEntry {
	out := make([]entry.LogEntry, 0, s.size)
	for i := 0; i < s.size; i++ {
		out = append(out, s.at(i))
	}
	return out
}

// BySubject returns a copy of the subject's entries, oldest first.
func (s *LogStore) BySubject(subjectID string) []entry.LogEntry {
	var out []entry.LogEntry
	for i := 0; i < s.size; i++ {
		if e := s.at(i); e.SubjectID == subjectID {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the newest entry.
func (s *LogStore) Last() (entry.LogEntry, bool) {
	if s.size == 0 {
		return entry.LogEntry{}, false
	}
	return s.at(s.size - 1), true
}

// Len returns the number of retained entries.
func (s *LogStore) Len() int {
	return s.size
}

// Capacity returns the maximum number of retained entries.
func (s *LogStore) Capacity() int {
	return len(s.buf)
}

// Clear removes every entry.
func (s *LogStore) Clear() {
	clear(s.buf)
	s.head = 0
	s.size = 0
}

// Replace clears the store and appends entries in order; only the newest
// Capacity entries survive.
func (s *LogStore) Replace(entries []entry.LogEntry) {
	s.Clear()
	if over := len(entries) - len(s.buf); over > 0 {
		entries = entries[over:]
	}
	for _, e := range entries {
		s.Append(e)
	}
}

func (s *LogStore) at(i int) entry.LogEntry {
	return s.buf[(s.head+i)%len(s.buf)]
}
