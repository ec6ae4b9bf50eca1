package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	got     []tracker.Notification
	started chan struct{}
	release chan struct{}
	err     error
}

func (s *recordingSender) Send(_ context.Context, n tracker.Notification) error {
	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func (s *recordingSender) received() []tracker.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tracker.Notification(nil), s.got...)
}

func note(subject string) tracker.Notification {
	return tracker.Notification{SubjectID: subject, DisplayName: subject, Category: entry.CategoryStatus, Summary: subject + " is now online"}
}

func TestAsync_DeliversInOrder(t *testing.T) {
	sender := &recordingSender{}
	a := NewAsync(sender, 8, nil)

	a.Notify(context.Background(), note("u1"))
	a.Notify(context.Background(), note("u2"))
	a.Close()

	got := sender.received()
	require.Len(t, got, 2)
	require.Equal(t, "u1", got[0].SubjectID)
	require.Equal(t, "u2", got[1].SubjectID)
}

func TestAsync_DropsWhenFull(t *testing.T) {
	sender := &recordingSender{started: make(chan struct{}, 1), release: make(chan struct{})}
	a := NewAsync(sender, 1, nil)

	a.Notify(context.Background(), note("u1"))
	<-sender.started // u1 is in flight, the queue is empty

	a.Notify(context.Background(), note("u2"))
	a.Notify(context.Background(), note("u3"))

	close(sender.release)
	a.Close()

	got := sender.received()
	require.Len(t, got, 2)
	require.Equal(t, "u1", got[0].SubjectID)
	require.Equal(t, "u2", got[1].SubjectID)
}

func TestAsync_NotifyAfterCloseIsIgnored(t *testing.T) {
	sender := &recordingSender{}
	a := NewAsync(sender, 1, nil)
	a.Close()
	a.Close()

	a.Notify(context.Background(), note("u1"))
	require.Empty(t, sender.received())
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &recordingSender{}
	bad := &recordingSender{err: errors.New("boom")}

	err := Multi{bad, ok}.Send(context.Background(), note("u1"))
	require.ErrorContains(t, err, "boom")
	require.Len(t, ok.received(), 1)
	require.Len(t, bad.received(), 1)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, NewLogSender(nil).Send(context.Background(), note("u1")))
}

func TestWebhookSender_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var body tracker.Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, nil)
	w.backoff = time.Millisecond

	require.NoError(t, w.Send(context.Background(), note("u1")))
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, "u1 is now online", body.Summary)
}

func TestWebhookSender_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, nil)
	w.backoff = time.Millisecond

	require.ErrorContains(t, w.Send(context.Background(), note("u1")), "HTTP 503")
	require.Equal(t, int32(maxWebhookRetries+1), calls.Load())
}

func TestWebhookSender_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, nil)
	require.ErrorContains(t, w.Send(context.Background(), note("u1")), "HTTP 400")
	require.Equal(t, int32(1), calls.Load())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWebhookSender_RetriesTransportErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection reset")
		}
		return http.DefaultTransport.RoundTrip(r)
	})}
	w := NewWebhookSender(srv.URL, client)
	w.backoff = time.Millisecond

	require.NoError(t, w.Send(context.Background(), note("u1")))
	require.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	failing := NewWebhookSender(srv.URL, &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	})})
	failing.backoff = time.Millisecond
	require.ErrorContains(t, failing.Send(context.Background(), note("u1")), "connection refused")
	require.Equal(t, int32(maxWebhookRetries+1), calls.Load())
}
