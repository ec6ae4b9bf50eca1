// Package tracker implements the ingestion pipeline for subject presence,
// voice and message events: admission filtering, normalization, message
// de-duplication, transition detection and the bounded event log.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/stats"
)

// Engine owns the log, subject state, dedup window and registry. All
// mutations run under one mutex so ingestion is a single logical writer;
// reads copy what they need and release the lock before computing.
type Engine struct {
	mu         sync.Mutex
	log        *LogStore
	state      *StateTracker
	dedup      *Deduplicator
	registry   *Registry
	normalizer Normalizer
	notifier   Notifier
	logger     *slog.Logger
	cfg        Config
	lastTS     int64
	version    uint64
	saved      uint64 // version last loaded or saved
}

// NewEngine creates an Engine. names and notifier may be nil.
func NewEngine(cfg Config, names NameResolver, notifier Notifier, logger *slog.Logger) *Engine {
	cfg = cfg.withDefaults()
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		log:        NewLogStore(cfg.LogCapacity),
		state:      NewStateTracker(),
		dedup:      NewDeduplicator(cfg.DedupLimit, cfg.DedupKeep),
		registry:   NewRegistry(cfg.TrackAll, cfg.Tracked...),
		normalizer: NewNormalizer(names),
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

// IngestPresence processes one presence payload.
func (e *Engine) IngestPresence(ctx context.Context, u PresenceUpdate) IngestResult {
	var res IngestResult
	var notes []Notification

	e.mu.Lock()
	switch {
	case u.UserID == "":
		res.Skipped++
		e.logger.Debug("skipping presence update", "reason", "missing user id")
	case !e.registry.IsTracked(u.UserID):
		res.Ignored++
	default:
		ts := e.nextTimestamp()
		candidates := e.normalizer.Presence(u, ts)
		if len(candidates) == 0 {
			res.Skipped++
			e.logger.Debug("skipping presence update", "reason", "no status or activities", "subject_id", u.UserID)
		}
		for _, c := range candidates {
			if s, ok := c.Payload.(entry.Status); ok {
				if !e.state.AcceptStatus(u.UserID, s.Value, len(u.ClientStatus) > 0) {
					res.Suppressed++
					continue
				}
				if e.cfg.NotifyStatus {
					notes = append(notes, notification(c, fmt.Sprintf("%s is now %s", c.DisplayName, s.Value)))
				}
			}
			e.commit(c)
			res.Accepted++
		}
	}
	e.mu.Unlock()

	e.dispatch(ctx, notes)
	return res
}

// IngestVoiceStates processes a batch of voice-state records in order.
func (e *Engine) IngestVoiceStates(ctx context.Context, states []VoiceState) IngestResult {
	var res IngestResult
	var notes []Notification

	e.mu.Lock()
	for _, v := range states {
		if v.UserID == "" {
			res.Skipped++
			e.logger.Debug("skipping voice state", "reason", "missing user id")
			continue
		}
		if !e.registry.IsTracked(v.UserID) {
			res.Ignored++
			continue
		}

		c, ok := e.normalizer.Voice(v, e.nextTimestamp())
		e.state.ObserveVoice(v.UserID, v.ChannelID)
		if !ok {
			res.Suppressed++
			continue
		}
		e.commit(c)
		res.Accepted++
		if e.cfg.NotifyVoice {
			notes = append(notes, notification(c, voiceSummary(c)))
		}
	}
	e.mu.Unlock()

	e.dispatch(ctx, notes)
	return res
}

// IngestMessage processes one message payload. Redelivered message ids are dropped.
func (e *Engine) IngestMessage(_ context.Context, m MessageCreate) IngestResult {
	var res IngestResult

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case m.AuthorID == "" || m.MessageID == "":
		res.Skipped++
		e.logger.Debug("skipping message", "reason", "missing author or message id", "message_id", m.MessageID)
	case !e.registry.IsTracked(m.AuthorID):
		res.Ignored++
	case !e.dedup.Observe(m.MessageID):
		res.Duplicates++
		e.logger.Debug("dropping duplicate message", "message_id", m.MessageID)
	default:
		c, ok := e.normalizer.Message(m, e.nextTimestamp())
		if !ok {
			res.Skipped++
			return res
		}
		e.commit(c)
		res.Accepted++
	}
	return res
}

// Track adds a subject to the registry.
func (e *Engine) Track(subjectID string) error {
	if subjectID == "" {
		return ErrInvalidInput
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.registry.Track(subjectID) {
		e.version++
	}
	return nil
}

// Untrack removes a subject from the registry. Its logged entries are kept.
func (e *Engine) Untrack(subjectID string) error {
	if subjectID == "" {
		return ErrInvalidInput
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.registry.Untrack(subjectID) {
		e.version++
	}
	return nil
}

// IsTracked reports whether events for the subject are admitted.
func (e *Engine) IsTracked(subjectID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.IsTracked(subjectID)
}

// ListTracked returns the explicitly tracked subject ids, sorted.
func (e *Engine) ListTracked() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.List()
}

// SetTrackAll sets the track-everyone flag.
func (e *Engine) SetTrackAll(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.registry.TrackAll() != v {
		e.registry.SetTrackAll(v)
		e.version++
	}
}

// TrackAll reports the track-everyone flag.
func (e *Engine) TrackAll() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.TrackAll()
}

// Logs returns entries oldest first, for every subject when subjectID is empty.
func (e *Engine) Logs(subjectID string) []entry.LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if subjectID == "" {
		return e.log.All()
	}
	return e.log.BySubject(subjectID)
}

// SubjectState returns the remembered state of a subject.
func (e *Engine) SubjectState(subjectID string) (SubjectState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Get(subjectID)
}

// ClearAll empties the log and the tracked set in one step, and forgets
// subject state and seen message ids.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Clear()
	e.registry.Reset()
	e.state.Reset()
	e.dedup.Reset()
	e.version++
}

// Statistics aggregates over a snapshot of the log, for every subject when
// subjectID is empty. The computation runs without holding the engine lock.
func (e *Engine) Statistics(subjectID string) stats.Report {
	entries := e.Logs(subjectID)
	return stats.Compute(entries, stats.Options{
		Location:  e.cfg.Location,
		SubjectID: subjectID,
	})
}

// ExportText renders the log as human-readable text.
func (e *Engine) ExportText(subjectID string) string {
	return entry.RenderText(e.Logs(subjectID), e.cfg.Location)
}

// Version increases on every mutation that should be persisted.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Capacity returns the log capacity.
func (e *Engine) Capacity() int {
	return e.cfg.LogCapacity
}

// Location returns the location used for time bucketing and text export.
func (e *Engine) Location() *time.Location {
	return e.cfg.Location
}

// nextTimestamp returns the normalization time, clamped so the log stays
// non-decreasing. Caller holds e.mu.
func (e *Engine) nextTimestamp() int64 {
	ts := e.cfg.Clock().UnixMilli()
	if ts < e.lastTS {
		ts = e.lastTS
	}
	return ts
}

// commit appends an accepted candidate. Caller holds e.mu.
func (e *Engine) commit(c entry.LogEntry) {
	c.ID = uuid.NewString()
	if c.Timestamp < e.lastTS {
		c.Timestamp = e.lastTS
	}
	e.lastTS = c.Timestamp
	if e.log.Append(c) {
		e.logger.Debug("evicted oldest log entry", "capacity", e.log.Capacity())
	}
	e.version++
}

func (e *Engine) dispatch(ctx context.Context, notes []Notification) {
	for _, n := range notes {
		e.notifier.Notify(ctx, n)
	}
}

func notification(c entry.LogEntry, summary string) Notification {
	return Notification{
		SubjectID:   c.SubjectID,
		DisplayName: c.DisplayName,
		Category:    c.Category(),
		Summary:     summary,
		Timestamp:   c.Timestamp,
	}
}

func voiceSummary(c entry.LogEntry) string {
	v := c.Payload.(entry.Voice)
	var s string
	switch v.Transition {
	case entry.TransitionJoin:
		s = fmt.Sprintf("%s joined %s", c.DisplayName, v.ChannelName)
	case entry.TransitionLeave:
		s = fmt.Sprintf("%s left %s", c.DisplayName, v.ChannelName)
	default:
		s = fmt.Sprintf("%s moved from %s to %s", c.DisplayName, v.PreviousChannelName, v.ChannelName)
	}
	if v.GuildName != "" {
		s += " in " + v.GuildName
	}
	return s
}
