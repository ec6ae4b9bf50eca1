package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/watchlog/internal/domain/tracker"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Async implements tracker.Notifier by queueing notifications for a
// background goroutine. Notify never blocks: when the queue is full the
// notification is dropped and logged.
type Async struct {
	sender    Sender
	ch        chan tracker.Notification
	done      chan struct{}
	logger    *slog.Logger
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewAsync starts draining into sender. bufSize <= 0 uses the default.
func NewAsync(sender Sender, bufSize int, logger *slog.Logger) *Async {
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Async{
		sender: sender,
		ch:     make(chan tracker.Notification, bufSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go a.drain()
	return a
}

// Notify queues n for delivery.
func (a *Async) Notify(_ context.Context, n tracker.Notification) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.ch <- n:
	default:
		a.logger.Warn("notification queue full, dropping", "subject_id", n.SubjectID, "category", n.Category)
	}
}

// Close stops accepting notifications and waits for queued ones to drain.
func (a *Async) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()

		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			a.logger.Warn("notification drain timed out")
		}
	})
}

func (a *Async) drain() {
	defer close(a.done)
	for n := range a.ch {
		if err := a.sender.Send(context.Background(), n); err != nil {
			a.logger.Warn("notification delivery failed", "subject_id", n.SubjectID, "error", err)
		}
	}
}
