package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/watchlog/internal/cli"
	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/stats"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func seedDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "watchlog.db")
	db, err := sqlite.New(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	snap := tracker.Snapshot{
		Logs: []entry.LogEntry{
			{ID: "e1", SubjectID: "u1", DisplayName: "Alice", Timestamp: 1_000, Payload: entry.Status{Value: "online"}},
			{ID: "e2", SubjectID: "u2", DisplayName: "Bob", Timestamp: 2_000, Payload: entry.Message{MessageID: "m1", Content: "hi", ChannelID: "c1"}},
			{ID: "e3", SubjectID: "u1", DisplayName: "Alice", Timestamp: 3_000, Payload: entry.Voice{ChannelID: "c9", ChannelName: "Lounge", Transition: entry.TransitionJoin}},
		},
		Tracked:  []string{"u1", "u2"},
		TrackAll: false,
	}
	require.NoError(t, sqlite.NewSnapshotRepository(db).Save(context.Background(), snap))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

type trackedOutput struct {
	Tracked  []string `json:"tracked"`
	TrackAll bool     `json:"track_all"`
}

func TestLogs(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "", "logs", "-d", path, "-f", "json", "-s", "u1")
	require.NoError(t, err)
	var records []entry.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	require.Equal(t, "e1", records[0].ID)
	require.Equal(t, "e3", records[1].ID)

	out, err = run(t, "", "logs", "-d", path, "-f", "json", "-c", "message")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, "hi", records[0].Message.Content)

	out, err = run(t, "", "logs", "-d", path, "-f", "json", "-l", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, "e3", records[0].ID)

	out, err = run(t, "", "logs", "-d", path)
	require.NoError(t, err)
	require.Contains(t, out, "Alice - Status - ")
	require.Contains(t, out, "Bob - Message - ")

	_, err = run(t, "", "logs", "-d", path, "-c", "typing")
	require.Error(t, err)
}

func TestLogsEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	out, err := run(t, "", "logs", "-d", path)
	require.NoError(t, err)
	require.Equal(t, "no entries\n", out)
}

func TestTrackUntrack(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "", "track", "-d", path, "-f", "json", "u3")
	require.NoError(t, err)
	var got trackedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, []string{"u1", "u2", "u3"}, got.Tracked)

	_, err = run(t, "", "untrack", "-d", path, "u1")
	require.NoError(t, err)

	out, err = run(t, "", "tracked", "-d", path, "-f", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, []string{"u2", "u3"}, got.Tracked)
	require.False(t, got.TrackAll)

	// Untracking keeps the subject's history.
	out, err = run(t, "", "logs", "-d", path, "-f", "json", "-s", "u1")
	require.NoError(t, err)
	var records []entry.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
}

func TestTrackAll(t *testing.T) {
	path := seedDB(t)

	_, err := run(t, "", "track-all", "-d", path, "true")
	require.NoError(t, err)

	out, err := run(t, "", "tracked", "-d", path)
	require.NoError(t, err)
	require.Contains(t, out, "track-all: on")

	_, err = run(t, "", "track-all", "-d", path, "maybe")
	require.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := seedDB(t)
	exported, err := run(t, "", "export", "-d", src, "-f", "json")
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "copy.db")
	out, err := run(t, exported, "import", "-d", dst)
	require.NoError(t, err)
	require.Equal(t, "imported 3 entries, 2 tracked subjects\n", out)

	again, err := run(t, "", "export", "-d", dst, "-f", "json")
	require.NoError(t, err)
	require.JSONEq(t, exported, again)
}

func TestExportText(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "", "export", "-d", path, "-s", "u2")
	require.NoError(t, err)
	require.Contains(t, out, "Bob - Message - ")
	require.NotContains(t, out, "Alice")
}

func TestImportRejectsCorruptDocument(t *testing.T) {
	path := seedDB(t)

	_, err := run(t, `{"logs":[{"subject_id":"u1","category":"typing"}]}`, "import", "-d", path)
	require.ErrorIs(t, err, tracker.ErrCorruptSnapshot)

	// The saved data is untouched.
	out, err := run(t, "", "logs", "-d", path, "-f", "json")
	require.NoError(t, err)
	var records []entry.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)
}

func TestStats(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "", "stats", "-d", path, "-f", "json", "--timezone", "UTC")
	require.NoError(t, err)
	var report stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 3, report.TotalEntries)
	require.Equal(t, 1, report.CategoryCounts[entry.CategoryVoice])
	require.Equal(t, 0, report.BusiestHour)
	require.Len(t, report.SubjectCounts, 2)

	out, err = run(t, "", "stats", "-d", path, "-s", "u2")
	require.NoError(t, err)
	require.Contains(t, out, "Subject: u2")
	require.Contains(t, out, "Total entries: 1")

	_, err = run(t, "", "stats", "-d", path, "--timezone", "Mars/Olympus")
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	path := seedDB(t)

	_, err := run(t, "", "names", "set", "-d", path, "channel", "c1", "general")
	require.NoError(t, err)

	out, err := run(t, "", "names", "get", "-d", path, "channel", "c1")
	require.NoError(t, err)
	require.Equal(t, "general\n", out)

	out, err = run(t, "", "names", "list", "-d", path)
	require.NoError(t, err)
	require.Equal(t, "channel c1 = general\n", out)

	_, err = run(t, "", "names", "set", "-d", path, "planet", "p1", "Earth")
	require.Error(t, err)

	_, err = run(t, "", "names", "get", "-d", path, "guild", "g1")
	require.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	path := seedDB(t)

	_, err := run(t, "", "logs", "-d", path, "-f", "yaml")
	require.Error(t, err)
}

func TestWriteCommandsWarnAboutRunningServer(t *testing.T) {
	for _, name := range []string{"track", "untrack", "track-all", "import"} {
		out, err := run(t, "", name, "--help")
		require.NoError(t, err, name)
		require.Contains(t, out, "Stop the watchlog server first", name)
	}

	out, err := run(t, "", "logs", "--help")
	require.NoError(t, err)
	require.NotContains(t, out, "Stop the watchlog server first")
}
