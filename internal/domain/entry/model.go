// Package entry defines the immutable records held in the tracker log.
package entry

import (
	"fmt"
	"time"
)

// Category discriminates the payload carried by a LogEntry.
type Category string

const (
	CategoryPresence Category = "presence"
	CategoryVoice    Category = "voice"
	CategoryMessage  Category = "message"
	CategoryStatus   Category = "status"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPresence, CategoryVoice, CategoryMessage, CategoryStatus}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPresence, CategoryVoice, CategoryMessage, CategoryStatus:
		return true
	default:
		return false
	}
}

// Label returns the capitalized name used in text exports.
func (c Category) Label() string {
	switch c {
	case CategoryPresence:
		return "Presence"
	case CategoryVoice:
		return "Voice"
	case CategoryMessage:
		return "Message"
	case CategoryStatus:
		return "Status"
	default:
		return string(c)
	}
}

// Transition classifies a voice channel change.
type Transition string

const (
	TransitionJoin  Transition = "join"
	TransitionLeave Transition = "leave"
	TransitionMove  Transition = "move"
)

// Payload is the closed set of category-specific entry bodies.
// Only the types in this package implement it.
type Payload interface {
	Category() Category
	payload()
}

// Activity is one item of a presence activity list.
type Activity struct {
	Name      string `json:"name"`
	Kind      int    `json:"kind"`
	Details   string `json:"details,omitempty"`
	State     string `json:"state,omitempty"`
	StartTime int64  `json:"start_time,omitempty"`
	EndTime   int64  `json:"end_time,omitempty"`
}

// Presence carries the subject's activity list.
type Presence struct {
	Activities []Activity `json:"activities"`
}

// Voice carries a classified voice channel transition.
// For a leave, ChannelID is the channel that was left.
type Voice struct {
	ChannelID           string     `json:"channel_id"`
	ChannelName         string     `json:"channel_name"`
	Transition          Transition `json:"transition"`
	GuildID             string     `json:"guild_id,omitempty"`
	GuildName           string     `json:"guild_name,omitempty"`
	PreviousChannelID   string     `json:"previous_channel_id,omitempty"`
	PreviousChannelName string     `json:"previous_channel_name,omitempty"`
}

// Message carries a posted message.
type Message struct {
	MessageID   string `json:"message_id,omitempty"`
	Content     string `json:"content"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name,omitempty"`
	GuildID     string `json:"guild_id,omitempty"`
	GuildName   string `json:"guild_name,omitempty"`
}

// Status carries an online-status value and the per-client breakdown when known.
type Status struct {
	Value        string            `json:"value"`
	ClientStatus map[string]string `json:"client_status,omitempty"`
}

func (Presence) Category() Category { return CategoryPresence }
func (Voice) Category() Category    { return CategoryVoice }
func (Message) Category() Category  { return CategoryMessage }
func (Status) Category() Category   { return CategoryStatus }

func (Presence) payload() {}
func (Voice) payload()    {}
func (Message) payload()  {}
func (Status) payload()   {}

// LogEntry is one immutable record of the tracker log. DisplayName is captured
// at write time and is not updated by later renames.
type LogEntry struct {
	ID          string
	SubjectID   string
	DisplayName string
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64
	Payload   Payload
}

// Category returns the discriminator of the entry's payload.
func (e LogEntry) Category() Category {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Category()
}

// Time returns the entry timestamp in the given location.
func (e LogEntry) Time(loc *time.Location) time.Time {
	t := time.UnixMilli(e.Timestamp)
	if loc != nil {
		t = t.In(loc)
	}
	return t
}

// Validate checks the structural invariants of an entry.
func (e LogEntry) Validate() error {
	if e.SubjectID == "" {
		return fmt.Errorf("%w: missing subject id", ErrInvalidEntry)
	}
	if e.Payload == nil {
		return fmt.Errorf("%w: missing payload", ErrInvalidEntry)
	}
	switch p := e.Payload.(type) {
	case Presence:
		if len(p.Activities) == 0 {
			return fmt.Errorf("%w: presence without activities", ErrInvalidEntry)
		}
	case Voice:
		switch p.Transition {
		case TransitionJoin, TransitionLeave, TransitionMove:
		default:
			return fmt.Errorf("%w: voice transition %q", ErrInvalidEntry, p.Transition)
		}
	case Message, Status:
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCategory, p)
	}
	return nil
}
