// Package testserver starts a fully wired watchlog HTTP server for tests.
package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/watchlog/internal/config"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/mcp"
	"github.com/rpggio/watchlog/internal/names"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/rpggio/watchlog/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is a running server over an in-memory database.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Engine    *tracker.Engine
	Names     *names.Directory
	Snapshots *sqlite.SnapshotRepository
	Token     string
}

// Options tunes the engine behind a TestServer.
type Options struct {
	Tracker tracker.Config
	// Notifier receives engine notifications. Nil disables them.
	Notifier tracker.Notifier
}

// New starts a server that requires token on every route except /health.
func New(t *testing.T, token string) *TestServer {
	return NewWithOptions(t, token, Options{})
}

// NewWithOptions is New with a custom engine configuration. The engine clock
// defaults to a fixed UTC time so hour buckets are stable.
func NewWithOptions(t *testing.T, token string, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	directory := names.NewDirectory(sqlite.NewNameRepository(db), nil)

	cfg := opts.Tracker
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
		cfg.Clock = func() time.Time { return now }
	}
	engine := tracker.NewEngine(cfg, directory, opts.Notifier, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Tracker:       engine,
		Names:         directory,
		AuthEnabled:   true,
		AuthToken:     token,
		TransportMode: config.TransportHTTP,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(mcp.NewHandler(engine, directory), transport.Options{
		Auth: transport.BearerAuth(token),
		MCP:  mcpHandler,
	}))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Engine:    engine,
		Names:     directory,
		Snapshots: sqlite.NewSnapshotRepository(db),
		Token:     token,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// HTTPClient returns a client that sends the server's bearer token.
func (ts *TestServer) HTTPClient() *http.Client {
	return &http.Client{Transport: &bearerTransport{token: ts.Token, base: http.DefaultTransport}}
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}
