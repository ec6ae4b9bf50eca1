package tracker

import (
	"context"

	"github.com/rpggio/watchlog/internal/domain/entry"
)

// NameResolver maps raw identifiers to display names. A miss reports false and
// must never block.
type NameResolver interface {
	ChannelName(channelID string) (string, bool)
	GuildName(guildID string) (string, bool)
	SubjectDisplayName(subjectID string) (string, bool)
}

// Notifier receives accepted status and voice transitions. Notify is called
// without waiting on delivery; implementations must return promptly.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Notification is the summary handed to a Notifier.
type Notification struct {
	SubjectID   string         `json:"subject_id"`
	DisplayName string         `json:"display_name"`
	Category    entry.Category `json:"category"`
	Summary     string         `json:"summary"`
	Timestamp   int64          `json:"timestamp"`
}

// Persistence stores and loads engine snapshots. The wire format belongs to
// the implementation.
type Persistence interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// Snapshot is the point-in-time data that survives persistence round trips.
type Snapshot struct {
	Logs     []entry.LogEntry `json:"logs"`
	Tracked  []string         `json:"tracked"`
	TrackAll bool             `json:"track_all"`
}

type noopResolver struct{}

func (noopResolver) ChannelName(string) (string, bool)        { return "", false }
func (noopResolver) GuildName(string) (string, bool)          { return "", false }
func (noopResolver) SubjectDisplayName(string) (string, bool) { return "", false }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}
