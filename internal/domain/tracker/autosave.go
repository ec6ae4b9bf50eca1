package tracker

import (
	"context"
	"time"
)

// Autosave saves to p every interval while the engine is dirty, and once more
// when ctx is done. It blocks until then and returns the error of the final save.
func (e *Engine) Autosave(ctx context.Context, p Persistence, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if !e.Dirty() {
				return nil
			}
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return e.Save(final, p)
		case <-ticker.C:
			if !e.Dirty() {
				continue
			}
			if err := e.Save(ctx, p); err != nil {
				e.logger.Warn("autosave failed", "error", err)
			}
		}
	}
}
