package mcp

import (
	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
)

type EmptyParams struct{}

type IngestVoiceStateParams struct {
	States []tracker.VoiceState `json:"states" jsonschema:"voice-state records in delivery order"`
}

type SubjectParams struct {
	SubjectID string `json:"subject_id" jsonschema:"subject (user) id"`
}

type OptionalSubjectParams struct {
	SubjectID string `json:"subject_id,omitempty" jsonschema:"restrict to one subject; omit for all subjects"`
}

type SetTrackAllParams struct {
	Enabled bool `json:"enabled" jsonschema:"admit events for every subject"`
}

type ImportJSONParams struct {
	Data string `json:"data" jsonschema:"document produced by export_json"`
}

type SetNameParams struct {
	Kind string `json:"kind" jsonschema:"one of channel, guild, subject"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TrackResponse struct {
	SubjectID string `json:"subject_id"`
	Tracked   bool   `json:"tracked"`
}

type TrackedResponse struct {
	Tracked  []string `json:"tracked"`
	TrackAll bool     `json:"track_all"`
}

type LogsResponse struct {
	Entries []entry.Record `json:"entries"`
	Count   int            `json:"count"`
	// Capacity is the maximum number of entries the log retains.
	Capacity int `json:"capacity"`
}

type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

type ExportResponse struct {
	Data string `json:"data"`
}

type ImportResponse struct {
	Entries int      `json:"entries"`
	Tracked []string `json:"tracked"`
}

type SubjectStateResponse struct {
	SubjectID string `json:"subject_id"`
	Tracked   bool   `json:"tracked"`
	// Known is false when no event for the subject has been processed.
	Known          bool   `json:"known"`
	LastStatus     string `json:"last_status,omitempty"`
	HasStatus      bool   `json:"has_status"`
	VoiceChannelID string `json:"voice_channel_id,omitempty"`
}

type SetNameResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
}
