package tracker

import "time"

const (
	// DefaultLogCapacity is the maximum number of retained log entries.
	DefaultLogCapacity = 1000
	// DefaultDedupLimit is the dedup window size that triggers a trim.
	DefaultDedupLimit = 1000
	// DefaultDedupKeep is the number of most recent ids retained after a trim.
	DefaultDedupKeep = 500
)

// Config controls engine limits and notification toggles. Zero values select defaults.
type Config struct {
	LogCapacity  int
	DedupLimit   int
	DedupKeep    int
	TrackAll     bool
	Tracked      []string
	NotifyStatus bool
	NotifyVoice  bool
	// Location is used for hour and weekday bucketing. Nil means time.Local.
	Location *time.Location
	// Clock supplies normalization time. Nil means time.Now.
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.LogCapacity <= 0 {
		c.LogCapacity = DefaultLogCapacity
	}
	if c.DedupLimit <= 0 {
		c.DedupLimit = DefaultDedupLimit
	}
	if c.DedupKeep <= 0 || c.DedupKeep > c.DedupLimit {
		c.DedupKeep = c.DedupLimit / 2
		if c.DedupKeep == 0 {
			c.DedupKeep = 1
		}
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// IngestResult counts what happened to the records of one ingestion call.
type IngestResult struct {
	Accepted   int `json:"accepted"`
	Skipped    int `json:"skipped"`
	Ignored    int `json:"ignored"`
	Suppressed int `json:"suppressed"`
	Duplicates int `json:"duplicates"`
}
