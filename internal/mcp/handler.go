package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/stats"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/names"
)

// Tracker defines the engine operations needed by MCP.
type Tracker interface {
	IngestPresence(ctx context.Context, u tracker.PresenceUpdate) tracker.IngestResult
	IngestVoiceStates(ctx context.Context, states []tracker.VoiceState) tracker.IngestResult
	IngestMessage(ctx context.Context, m tracker.MessageCreate) tracker.IngestResult
	Track(subjectID string) error
	Untrack(subjectID string) error
	IsTracked(subjectID string) bool
	ListTracked() []string
	SetTrackAll(v bool)
	TrackAll() bool
	Logs(subjectID string) []entry.LogEntry
	Capacity() int
	ClearAll()
	ExportJSON() (string, error)
	ExportText(subjectID string) string
	ImportJSON(data string) error
	Statistics(subjectID string) stats.Report
	SubjectState(subjectID string) (tracker.SubjectState, bool)
}

// NameSetter records display names.
type NameSetter interface {
	Set(ctx context.Context, n names.Name) error
}

// Handler implements every caller-facing operation. MCP tools and the plain
// JSON-RPC transport both dispatch into it.
type Handler struct {
	tracker Tracker
	names   NameSetter
}

// NewHandler creates a new MCP handler.
func NewHandler(t Tracker, n NameSetter) *Handler {
	return &Handler{tracker: t, names: n}
}

// Handle dispatches a method by tool name with JSON params.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "ingest_presence":
		return dispatch(ctx, params, h.IngestPresence)
	case "ingest_voice_state":
		return dispatch(ctx, params, h.IngestVoiceState)
	case "ingest_message":
		return dispatch(ctx, params, h.IngestMessage)
	case "track":
		return dispatch(ctx, params, h.Track)
	case "untrack":
		return dispatch(ctx, params, h.Untrack)
	case "list_tracked":
		return dispatch(ctx, params, h.ListTracked)
	case "set_track_all":
		return dispatch(ctx, params, h.SetTrackAll)
	case "get_logs":
		return dispatch(ctx, params, h.GetLogs)
	case "clear_all":
		return dispatch(ctx, params, h.ClearAll)
	case "export_json":
		return dispatch(ctx, params, h.ExportJSON)
	case "export_text":
		return dispatch(ctx, params, h.ExportText)
	case "import_json":
		return dispatch(ctx, params, h.ImportJSON)
	case "get_statistics":
		return dispatch(ctx, params, h.GetStatistics)
	case "get_subject_state":
		return dispatch(ctx, params, h.GetSubjectState)
	case "set_name":
		return dispatch(ctx, params, h.SetName)
	default:
		return nil, &APIError{Code: "METHOD_NOT_FOUND", Message: fmt.Sprintf("unknown method: %s", method), RecoveryHint: "Use one of the tool names from tools/list"}
	}
}

func (h *Handler) IngestPresence(ctx context.Context, req tracker.PresenceUpdate) (tracker.IngestResult, error) {
	return h.tracker.IngestPresence(ctx, req), nil
}

func (h *Handler) IngestVoiceState(ctx context.Context, req IngestVoiceStateParams) (tracker.IngestResult, error) {
	return h.tracker.IngestVoiceStates(ctx, req.States), nil
}

func (h *Handler) IngestMessage(ctx context.Context, req tracker.MessageCreate) (tracker.IngestResult, error) {
	return h.tracker.IngestMessage(ctx, req), nil
}

func (h *Handler) Track(_ context.Context, req SubjectParams) (TrackResponse, error) {
	if err := h.tracker.Track(req.SubjectID); err != nil {
		return TrackResponse{}, err
	}
	return TrackResponse{SubjectID: req.SubjectID, Tracked: true}, nil
}

func (h *Handler) Untrack(_ context.Context, req SubjectParams) (TrackResponse, error) {
	if err := h.tracker.Untrack(req.SubjectID); err != nil {
		return TrackResponse{}, err
	}
	return TrackResponse{SubjectID: req.SubjectID, Tracked: h.tracker.IsTracked(req.SubjectID)}, nil
}

func (h *Handler) ListTracked(_ context.Context, _ EmptyParams) (TrackedResponse, error) {
	return TrackedResponse{Tracked: h.tracker.ListTracked(), TrackAll: h.tracker.TrackAll()}, nil
}

func (h *Handler) SetTrackAll(_ context.Context, req SetTrackAllParams) (TrackedResponse, error) {
	h.tracker.SetTrackAll(req.Enabled)
	return TrackedResponse{Tracked: h.tracker.ListTracked(), TrackAll: h.tracker.TrackAll()}, nil
}

func (h *Handler) GetLogs(_ context.Context, req OptionalSubjectParams) (LogsResponse, error) {
	entries := h.tracker.Logs(req.SubjectID)
	return LogsResponse{
		Entries:  entry.Records(entries),
		Count:    len(entries),
		Capacity: h.tracker.Capacity(),
	}, nil
}

func (h *Handler) ClearAll(_ context.Context, _ EmptyParams) (ClearResponse, error) {
	h.tracker.ClearAll()
	return ClearResponse{Cleared: true}, nil
}

func (h *Handler) ExportJSON(_ context.Context, _ EmptyParams) (ExportResponse, error) {
	data, err := h.tracker.ExportJSON()
	if err != nil {
		return ExportResponse{}, err
	}
	return ExportResponse{Data: data}, nil
}

func (h *Handler) ExportText(_ context.Context, req OptionalSubjectParams) (ExportResponse, error) {
	return ExportResponse{Data: h.tracker.ExportText(req.SubjectID)}, nil
}

func (h *Handler) ImportJSON(_ context.Context, req ImportJSONParams) (ImportResponse, error) {
	if err := h.tracker.ImportJSON(req.Data); err != nil {
		return ImportResponse{}, err
	}
	return ImportResponse{
		Entries: len(h.tracker.Logs("")),
		Tracked: h.tracker.ListTracked(),
	}, nil
}

func (h *Handler) GetStatistics(_ context.Context, req OptionalSubjectParams) (stats.Report, error) {
	return h.tracker.Statistics(req.SubjectID), nil
}

func (h *Handler) GetSubjectState(_ context.Context, req SubjectParams) (SubjectStateResponse, error) {
	if req.SubjectID == "" {
		return SubjectStateResponse{}, tracker.ErrInvalidInput
	}
	state, known := h.tracker.SubjectState(req.SubjectID)
	return SubjectStateResponse{
		SubjectID:      req.SubjectID,
		Tracked:        h.tracker.IsTracked(req.SubjectID),
		Known:          known,
		LastStatus:     state.LastStatus,
		HasStatus:      state.HasStatus,
		VoiceChannelID: state.VoiceChannelID,
	}, nil
}

func (h *Handler) SetName(ctx context.Context, req SetNameParams) (SetNameResponse, error) {
	n := names.Name{Kind: names.Kind(req.Kind), ID: req.ID, Name: req.Name}
	if err := h.names.Set(ctx, n); err != nil {
		return SetNameResponse{}, err
	}
	return SetNameResponse{Kind: req.Kind, ID: req.ID, Name: req.Name}, nil
}

func dispatch[In, Out any](ctx context.Context, params json.RawMessage, fn func(context.Context, In) (Out, error)) (any, error) {
	var req In
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	out, err := fn(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: "invalid params", Details: err.Error()}
	}
	return nil
}
