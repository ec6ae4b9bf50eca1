package entry

import (
	"encoding/json"
	"fmt"
)

// Record is the wire form of a LogEntry: exactly one payload pointer is set,
// matching Category.
type Record struct {
	ID          string    `json:"id,omitempty"`
	SubjectID   string    `json:"subject_id"`
	DisplayName string    `json:"display_name"`
	Timestamp   int64     `json:"timestamp"`
	Category    Category  `json:"category"`
	Presence    *Presence `json:"presence,omitempty"`
	Voice       *Voice    `json:"voice,omitempty"`
	Message     *Message  `json:"message,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// Record converts the entry to its wire form.
func (e LogEntry) Record() Record {
	r := Record{
		ID:          e.ID,
		SubjectID:   e.SubjectID,
		DisplayName: e.DisplayName,
		Timestamp:   e.Timestamp,
		Category:    e.Category(),
	}
	switch p := e.Payload.(type) {
	case Presence:
		r.Presence = &p
	case Voice:
		r.Voice = &p
	case Message:
		r.Message = &p
	case Status:
		r.Status = &p
	}
	return r
}

// Entry converts a wire record back into a LogEntry, rejecting records whose
// populated payload does not match the category.
func (r Record) Entry() (LogEntry, error) {
	if !r.Category.Valid() {
		return LogEntry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
	}

	populated := 0
	for _, set := range []bool{r.Presence != nil, r.Voice != nil, r.Message != nil, r.Status != nil} {
		if set {
			populated++
		}
	}
	if populated != 1 {
		return LogEntry{}, fmt.Errorf("%w: %d payloads populated", ErrPayloadMismatch, populated)
	}

	var payload Payload
	switch {
	case r.Presence != nil && r.Category == CategoryPresence:
		payload = *r.Presence
	case r.Voice != nil && r.Category == CategoryVoice:
		payload = *r.Voice
	case r.Message != nil && r.Category == CategoryMessage:
		payload = *r.Message
	case r.Status != nil && r.Category == CategoryStatus:
		payload = *r.Status
	default:
		return LogEntry{}, fmt.Errorf("%w: category %s", ErrPayloadMismatch, r.Category)
	}

	e := LogEntry{
		ID:          r.ID,
		SubjectID:   r.SubjectID,
		DisplayName: r.DisplayName,
		Timestamp:   r.Timestamp,
		Payload:     payload,
	}
	if err := e.Validate(); err != nil {
		return LogEntry{}, err
	}
	return e, nil
}

// Records converts entries to wire records, preserving order.
func Records(entries []LogEntry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record())
	}
	return out
}

// FromRecords converts wire records to entries, failing on the first invalid record.
func FromRecords(records []Record) ([]LogEntry, error) {
	out := make([]LogEntry, 0, len(records))
	for i, r := range records {
		e, err := r.Entry()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// MarshalJSON encodes the entry in its wire form.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

// UnmarshalJSON decodes and validates the wire form.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := r.Entry()
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}
