// Package stats computes activity statistics over log entries. Every function
// is read-only and deterministic for a given input.
package stats

import (
	"sort"
	"time"

	"github.com/rpggio/watchlog/internal/domain/entry"
)

// DefaultTopActivities is the number of activity names kept in a report.
const DefaultTopActivities = 5

// Report is the statistics summary for a set of entries.
type Report struct {
	SubjectID      string                 `json:"subject_id,omitempty"`
	TotalEntries   int                    `json:"total_entries"`
	CategoryCounts map[entry.Category]int `json:"category_counts"`
	HourCounts     [24]int                `json:"hour_counts"`
	// BusiestHour is -1 when there are no entries.
	BusiestHour       int            `json:"busiest_hour"`
	Heatmap           []HeatCell     `json:"heatmap,omitempty"`
	TotalVoiceMinutes int64          `json:"total_voice_minutes"`
	TopActivities     []NameCount    `json:"top_activities,omitempty"`
	SubjectCounts     []SubjectCount `json:"subject_counts,omitempty"`
}

// HeatCell is one non-zero cell of the weekday by hour heatmap. Day 0 is Sunday.
type HeatCell struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// NameCount is an activity name and how many presence entries listed it.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SubjectCount is the number of entries for one subject.
type SubjectCount struct {
	SubjectID   string `json:"subject_id"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// Options tunes Compute.
type Options struct {
	// Location for hour and weekday bucketing. Nil means time.Local.
	Location *time.Location
	// SubjectID labels the report; it does not filter entries.
	SubjectID string
	// TopActivities caps TopActivities. Zero means DefaultTopActivities.
	TopActivities int
}

// Compute builds a Report in a single pass over entries, which are expected in
// chronological order.
func Compute(entries []entry.LogEntry, opts Options) Report {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	top := opts.TopActivities
	if top <= 0 {
		top = DefaultTopActivities
	}

	r := Report{
		SubjectID:      opts.SubjectID,
		TotalEntries:   len(entries),
		CategoryCounts: make(map[entry.Category]int, len(entry.Categories)),
	}
	for _, c := range entry.Categories {
		r.CategoryCounts[c] = 0
	}

	heat := make(map[[2]int]int)
	activities := make(map[string]int)
	subjects := make(map[string]*SubjectCount)

	for _, e := range entries {
		r.CategoryCounts[e.Category()]++

		t := e.Time(loc)
		r.HourCounts[t.Hour()]++
		heat[[2]int{int(t.Weekday()), t.Hour()}]++

		if p, ok := e.Payload.(entry.Presence); ok {
			for _, a := range p.Activities {
				activities[a.Name]++
			}
		}

		sc, ok := subjects[e.SubjectID]
		if !ok {
			sc = &SubjectCount{SubjectID: e.SubjectID}
			subjects[e.SubjectID] = sc
		}
		sc.DisplayName = e.DisplayName
		sc.Count++
	}

	r.BusiestHour = BusiestHour(r.HourCounts)
	r.Heatmap = heatCells(heat)
	r.TotalVoiceMinutes = VoiceMinutes(entries)
	r.TopActivities = topNames(activities, top)
	if opts.SubjectID == "" {
		r.SubjectCounts = subjectCounts(subjects)
	}
	return r
}

// BusiestHour returns the hour with the highest count, the lowest hour on a
// tie, or -1 when every bucket is zero.
func BusiestHour(hours [24]int) int {
	best := -1
	for h, c := range hours {
		if c == 0 {
			continue
		}
		if best < 0 || c > hours[best] {
			best = h
		}
	}
	return best
}

// VoiceMinutes approximates cumulative voice time over the scope. At most one
// join is open at a time: a join replaces any unmatched open join and a leave
// closes it, adding its length. Moves neither open nor close a session, and a
// leave with nothing open adds nothing.
func VoiceMinutes(entries []entry.LogEntry) int64 {
	var (
		open    int64
		hasOpen bool
		totalMs int64
	)
	for _, e := range entries {
		v, ok := e.Payload.(entry.Voice)
		if !ok {
			continue
		}
		switch v.Transition {
		case entry.TransitionJoin:
			open, hasOpen = e.Timestamp, true
		case entry.TransitionLeave:
			if !hasOpen {
				continue
			}
			if d := e.Timestamp - open; d > 0 {
				totalMs += d
			}
			hasOpen = false
		}
	}
	return totalMs / time.Minute.Milliseconds()
}

func heatCells(heat map[[2]int]int) []HeatCell {
	if len(heat) == 0 {
		return nil
	}
	cells := make([]HeatCell, 0, len(heat))
	for k, c := range heat {
		cells = append(cells, HeatCell{Day: k[0], Hour: k[1], Count: c})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Day != cells[j].Day {
			return cells[i].Day < cells[j].Day
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells
}

func topNames(counts map[string]int, n int) []NameCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]NameCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, NameCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func subjectCounts(subjects map[string]*SubjectCount) []SubjectCount {
	if len(subjects) == 0 {
		return nil
	}
	out := make([]SubjectCount, 0, len(subjects))
	for _, sc := range subjects {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out
}

// Count returns the heatmap count for a weekday and hour.
func (r Report) Count(day time.Weekday, hour int) int {
	for _, c := range r.Heatmap {
		if c.Day == int(day) && c.Hour == hour {
			return c.Count
		}
	}
	return 0
}
