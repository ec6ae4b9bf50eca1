package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	readOnly    = &sdkmcp.ToolAnnotations{ReadOnlyHint: true}
	idempotent  = &sdkmcp.ToolAnnotations{IdempotentHint: true, DestructiveHint: boolPtr(false)}
	destructive = &sdkmcp.ToolAnnotations{DestructiveHint: boolPtr(true)}
)

// registerTools exposes every Handler operation as an MCP tool.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Ingestion
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ingest_presence",
		Description: "Ingest one presence payload (status and activities) for a subject",
	}, toolHandler(h.IngestPresence))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ingest_voice_state",
		Description: "Ingest a batch of voice-state records; joins, leaves and moves are logged",
	}, toolHandler(h.IngestVoiceState))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ingest_message",
		Description: "Ingest one created message; redelivered message ids are ignored",
		Annotations: &sdkmcp.ToolAnnotations{IdempotentHint: true},
	}, toolHandler(h.IngestMessage))

	// Tracking
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "track",
		Description: "Start logging events for a subject",
		Annotations: idempotent,
	}, toolHandler(h.Track))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "untrack",
		Description: "Stop logging events for a subject; existing entries are kept",
		Annotations: idempotent,
	}, toolHandler(h.Untrack))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tracked",
		Description: "List explicitly tracked subjects and the track-all flag",
		Annotations: readOnly,
	}, toolHandler(h.ListTracked))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_track_all",
		Description: "Admit events for every subject, or only tracked ones",
		Annotations: idempotent,
	}, toolHandler(h.SetTrackAll))

	// Log
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_logs",
		Description: "Get log entries in insertion order, optionally for one subject",
		Annotations: readOnly,
	}, toolHandler(h.GetLogs))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_all",
		Description: "Clear the log and the tracked subject set",
		Annotations: destructive,
	}, toolHandler(h.ClearAll))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_json",
		Description: "Export the log and tracked subjects as JSON",
		Annotations: readOnly,
	}, toolHandler(h.ExportJSON))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_text",
		Description: "Export the log as human-readable text",
		Annotations: readOnly,
	}, toolHandler(h.ExportText))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_json",
		Description: "Replace the log and tracked subjects with a document from export_json",
		Annotations: destructive,
	}, toolHandler(h.ImportJSON))

	// Statistics
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_statistics",
		Description: "Get category counts, hour histogram, heatmap and voice minutes",
		Annotations: readOnly,
	}, toolHandler(h.GetStatistics))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_subject_state",
		Description: "Get the remembered status and voice channel of a subject",
		Annotations: readOnly,
	}, toolHandler(h.GetSubjectState))

	// Names
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_name",
		Description: "Record a display name for a channel, guild or subject",
		Annotations: idempotent,
	}, toolHandler(h.SetName))
}

func toolHandler[In, Out any](fn func(context.Context, In) (Out, error)) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			return nil, zero, mapError(err)
		}
		return nil, out, nil
	}
}

func boolPtr(v bool) *bool {
	return &v
}
