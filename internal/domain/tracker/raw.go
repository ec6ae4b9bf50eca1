package tracker

// PresenceUpdate is an inbound presence payload for one subject.
type PresenceUpdate struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Status   string `json:"status,omitempty"`
	// ClientStatus is the per-platform status map. A non-empty map is the
	// client-status marker that allows a first-ever status to be logged.
	ClientStatus map[string]string `json:"client_status,omitempty"`
	Activities   []RawActivity     `json:"activities,omitempty"`
}

// RawActivity is one inbound activity record.
type RawActivity struct {
	Name    string `json:"name,omitempty"`
	Type    int    `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
	State   string `json:"state,omitempty"`
	Start   int64  `json:"start,omitempty"`
	End     int64  `json:"end,omitempty"`
}

// VoiceState is one inbound voice-state record. An empty channel id means
// "not in a voice channel".
type VoiceState struct {
	UserID       string `json:"user_id,omitempty"`
	Username     string `json:"username,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	OldChannelID string `json:"old_channel_id,omitempty"`
	GuildID      string `json:"guild_id,omitempty"`
}

// MessageCreate is an inbound message payload.
type MessageCreate struct {
	MessageID  string `json:"message_id,omitempty"`
	AuthorID   string `json:"author_id,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	Content    string `json:"content,omitempty"`
	ChannelID  string `json:"channel_id,omitempty"`
	GuildID    string `json:"guild_id,omitempty"`
}
