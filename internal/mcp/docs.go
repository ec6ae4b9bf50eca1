package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `watchlog keeps a bounded, chronological log of what tracked subjects do: status changes, activities, voice channel joins/leaves/moves and messages.

Core concepts:
- Subject: a user-like entity identified by id. Only tracked subjects are logged, unless track-all is on.
- Entry: one immutable log record with category presence, voice, message or status. The log keeps the newest 1000 entries.
- Transition: a status value change or voice channel change. Repeated identical statuses are not logged.

Typical workflow:
1) track(subject_id) or set_track_all(enabled=true).
2) Feed events with ingest_presence / ingest_voice_state / ingest_message. Each call returns counts of accepted, skipped, ignored, suppressed and duplicate records.
3) Read with get_logs, get_statistics, get_subject_state, export_text.
4) Back up with export_json; restore with import_json.

Use set_name to teach channel, guild and subject display names; entries written afterwards use them.

Docs:
- watchlog://docs/index
- watchlog://docs/ingestion
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "watchlog://docs/index",
		Name:        "docs_index",
		Title:       "watchlog docs index",
		Description: "Entry point: tools, categories and statistics fields.",
		Content: `# watchlog: Docs Index

## Tools

| Tool | Purpose |
|---|---|
| ingest_presence | status + activities for one subject |
| ingest_voice_state | batch of voice-state records |
| ingest_message | one created message |
| track / untrack / list_tracked / set_track_all | admission control |
| get_logs | entries oldest first, optional subject filter |
| clear_all | empty the log and the tracked set |
| export_json / import_json | backup and restore |
| export_text | human-readable rendering |
| get_statistics | aggregates over the log |
| get_subject_state | last status and voice channel |
| set_name | channel, guild and subject display names |

## Statistics

- category_counts: entries per category (all four always present).
- hour_counts: 24 buckets by local hour.
- busiest_hour: hour with the most entries, lowest hour on ties, -1 when empty.
- heatmap: non-zero (day, hour) cells, day 0 is Sunday.
- total_voice_minutes: time between the latest open join and the next leave in scope, floored to minutes. A later join replaces an unmatched one.
`,
	},
	{
		URI:         "watchlog://docs/ingestion",
		Name:        "docs_ingestion",
		Title:       "Ingestion rules",
		Description: "How raw events become log entries.",
		Content: `# Ingestion rules

## Presence
- A status entry is written when the value differs from the last logged status.
- The first status for a subject is only written when client_status is non-empty.
- A presence entry lists every activity with a name; activities without one are dropped.

## Voice
- channel_id empty and old_channel_id set: leave.
- channel_id set and old_channel_id empty: join.
- both set and different: move.
- Anything else is suppressed.

## Messages
- message_id and author_id are required.
- A message id seen among the most recent ids is dropped as a duplicate.

## Skips
Records with no subject id are skipped and counted, never rejected as errors.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
