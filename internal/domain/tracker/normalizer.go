package tracker

import (
	"github.com/rpggio/watchlog/internal/domain/entry"
)

// Normalizer shapes raw inbound payloads into provisional log entries. It holds
// no state of its own; names come from the resolver and the timestamp from the caller.
type Normalizer struct {
	names NameResolver
}

// NewNormalizer creates a Normalizer. A nil resolver falls back to identifier labels.
func NewNormalizer(names NameResolver) Normalizer {
	if names == nil {
		names = noopResolver{}
	}
	return Normalizer{names: names}
}

// Presence yields up to two entries sharing ts: a status entry when the
// payload carries a status, and a presence entry when it carries at least one
// named activity. The status entry, when present, comes first.
func (n Normalizer) Presence(u PresenceUpdate, ts int64) []entry.LogEntry {
	if u.UserID == "" {
		return nil
	}
	display := n.displayName(u.UserID, u.Username)

	var out []entry.LogEntry
	if u.Status != "" {
		status := entry.Status{Value: u.Status}
		if len(u.ClientStatus) > 0 {
			status.ClientStatus = make(map[string]string, len(u.ClientStatus))
			for k, v := range u.ClientStatus {
				status.ClientStatus[k] = v
			}
		}
		out = append(out, entry.LogEntry{
			SubjectID:   u.UserID,
			DisplayName: display,
			Timestamp:   ts,
			Payload:     status,
		})
	}

	activities := make([]entry.Activity, 0, len(u.Activities))
	for _, a := range u.Activities {
		if a.Name == "" {
			continue
		}
		activities = append(activities, entry.Activity{
			Name:      a.Name,
			Kind:      a.Type,
			Details:   a.Details,
			State:     a.State,
			StartTime: a.Start,
			EndTime:   a.End,
		})
	}
	if len(activities) > 0 {
		out = append(out, entry.LogEntry{
			SubjectID:   u.UserID,
			DisplayName: display,
			Timestamp:   ts,
			Payload:     entry.Presence{Activities: activities},
		})
	}
	return out
}

// Voice yields the entry for one voice-state record. It reports false when the
// record is malformed or does not describe a channel change.
func (n Normalizer) Voice(v VoiceState, ts int64) (entry.LogEntry, bool) {
	if v.UserID == "" {
		return entry.LogEntry{}, false
	}
	transition, ok := ClassifyVoice(v.OldChannelID, v.ChannelID)
	if !ok {
		return entry.LogEntry{}, false
	}

	payload := entry.Voice{Transition: transition}
	switch transition {
	case entry.TransitionJoin:
		payload.ChannelID = v.ChannelID
	case entry.TransitionLeave:
		payload.ChannelID = v.OldChannelID
	case entry.TransitionMove:
		payload.ChannelID = v.ChannelID
		payload.PreviousChannelID = v.OldChannelID
		payload.PreviousChannelName = n.channelName(v.OldChannelID)
	}
	payload.ChannelName = n.channelName(payload.ChannelID)
	if v.GuildID != "" {
		payload.GuildID = v.GuildID
		payload.GuildName = n.guildName(v.GuildID)
	}

	return entry.LogEntry{
		SubjectID:   v.UserID,
		DisplayName: n.displayName(v.UserID, v.Username),
		Timestamp:   ts,
		Payload:     payload,
	}, true
}

// Message yields the entry for a posted message. It reports false when the
// author or message id is missing.
func (n Normalizer) Message(m MessageCreate, ts int64) (entry.LogEntry, bool) {
	if m.AuthorID == "" || m.MessageID == "" {
		return entry.LogEntry{}, false
	}
	payload := entry.Message{
		MessageID: m.MessageID,
		Content:   m.Content,
		ChannelID: m.ChannelID,
	}
	if m.ChannelID != "" {
		payload.ChannelName = n.channelName(m.ChannelID)
	}
	if m.GuildID != "" {
		payload.GuildID = m.GuildID
		payload.GuildName = n.guildName(m.GuildID)
	}
	return entry.LogEntry{
		SubjectID:   m.AuthorID,
		DisplayName: n.displayName(m.AuthorID, m.AuthorName),
		Timestamp:   ts,
		Payload:     payload,
	}, true
}

func (n Normalizer) displayName(subjectID, fallback string) string {
	if name, ok := n.names.SubjectDisplayName(subjectID); ok && name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return "User ID: " + subjectID
}

func (n Normalizer) channelName(channelID string) string {
	if name, ok := n.names.ChannelName(channelID); ok && name != "" {
		return name
	}
	return "Channel ID: " + channelID
}

func (n Normalizer) guildName(guildID string) string {
	if name, ok := n.names.GuildName(guildID); ok && name != "" {
		return name
	}
	return "Guild ID: " + guildID
}
