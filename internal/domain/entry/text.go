package entry

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// TimeLayout is the timestamp layout used in text exports.
const TimeLayout = "2006-01-02 15:04:05 MST"

// activityKinds maps activity kind codes to labels.
var activityKinds = map[int]string{
	0: "Playing",
	1: "Streaming",
	2: "Listening to",
	3: "Watching",
	4: "Custom status",
	5: "Competing in",
}

// RenderText renders entries as the human-readable export: a header line per
// entry, indented detail lines, and a blank line between entries.
func RenderText(entries []LogEntry, loc *time.Location) string {
	var b strings.Builder
	_ = WriteText(&b, entries, loc)
	return b.String()
}

// WriteText writes the text export of entries to w.
func WriteText(w io.Writer, entries []LogEntry, loc *time.Location) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, textBlock(e, loc)); err != nil {
			return err
		}
	}
	return nil
}

func textBlock(e LogEntry, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s - %s\n", e.DisplayName, e.Category().Label(), e.Time(loc).Format(TimeLayout))

	switch p := e.Payload.(type) {
	case Presence:
		for _, a := range p.Activities {
			fmt.Fprintf(&b, "  %s: %s\n", activityLabel(a.Kind), a.Name)
			if a.Details != "" {
				fmt.Fprintf(&b, "    Details: %s\n", a.Details)
			}
			if a.State != "" {
				fmt.Fprintf(&b, "    State: %s\n", a.State)
			}
			if a.StartTime > 0 {
				fmt.Fprintf(&b, "    Started: %s\n", time.UnixMilli(a.StartTime).In(location(loc)).Format(TimeLayout))
			}
		}
	case Voice:
		switch p.Transition {
		case TransitionJoin:
			fmt.Fprintf(&b, "  Joined %s\n", p.ChannelName)
		case TransitionLeave:
			fmt.Fprintf(&b, "  Left %s\n", p.ChannelName)
		case TransitionMove:
			if p.PreviousChannelName != "" {
				fmt.Fprintf(&b, "  Moved from %s to %s\n", p.PreviousChannelName, p.ChannelName)
			} else {
				fmt.Fprintf(&b, "  Moved to %s\n", p.ChannelName)
			}
		}
		if p.GuildName != "" {
			fmt.Fprintf(&b, "  Server: %s\n", p.GuildName)
		}
	case Message:
		if p.ChannelName != "" {
			fmt.Fprintf(&b, "  Channel: %s\n", p.ChannelName)
		}
		if p.GuildName != "" {
			fmt.Fprintf(&b, "  Server: %s\n", p.GuildName)
		}
		fmt.Fprintf(&b, "  Content: %s\n", p.Content)
	case Status:
		fmt.Fprintf(&b, "  Status: %s\n", p.Value)
		if len(p.ClientStatus) > 0 {
			clients := make([]string, 0, len(p.ClientStatus))
			for client, status := range p.ClientStatus {
				clients = append(clients, client+"="+status)
			}
			sort.Strings(clients)
			fmt.Fprintf(&b, "  Clients: %s\n", strings.Join(clients, ", "))
		}
	}
	return b.String()
}

func activityLabel(kind int) string {
	if label, ok := activityKinds[kind]; ok {
		return label
	}
	return "Activity"
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
