package tracker

import (
	"fmt"
	"testing"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/stretchr/testify/require"
)

func TestDeduplicator_TrimsToMostRecent(t *testing.T) {
	d := NewDeduplicator(4, 2)

	for i := 1; i <= 4; i++ {
		require.True(t, d.Observe(fmt.Sprintf("m%d", i)))
	}
	require.False(t, d.Observe("m1"))
	require.Equal(t, 4, d.Len())

	// The fifth id pushes the window past its limit.
	require.True(t, d.Observe("m5"))
	require.Equal(t, 2, d.Len())
	require.True(t, d.Contains("m4"))
	require.True(t, d.Contains("m5"))
	require.False(t, d.Contains("m1"))

	// Trimmed ids are accepted again.
	require.True(t, d.Observe("m1"))

	d.Reset()
	require.Zero(t, d.Len())
	require.True(t, d.Observe("m5"))
}

func TestDeduplicator_DefaultWindow(t *testing.T) {
	d := NewDeduplicator(0, 0)
	for i := 0; i <= DefaultDedupLimit; i++ {
		d.Observe(fmt.Sprintf("m%d", i))
	}
	require.Equal(t, DefaultDedupKeep, d.Len())
	require.True(t, d.Contains(fmt.Sprintf("m%d", DefaultDedupLimit)))
	require.False(t, d.Contains(fmt.Sprintf("m%d", DefaultDedupLimit-DefaultDedupKeep)))
}

func msg(id string) entry.LogEntry {
	return entry.LogEntry{ID: id, SubjectID: "u-" + id, Payload: entry.Message{Content: id}}
}

func TestLogStore_Ring(t *testing.T) {
	s := NewLogStore(3)

	require.False(t, s.Append(msg("a")))
	require.False(t, s.Append(msg("b")))
	require.False(t, s.Append(msg("c")))
	require.True(t, s.Append(msg("d")))

	all := s.All()
	require.Len(t, all, 3)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "d", all[2].ID)

	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, "d", last.ID)

	require.Len(t, s.BySubject("u-c"), 1)
	require.Empty(t, s.BySubject("u-a"))

	s.Replace([]entry.LogEntry{msg("1"), msg("2"), msg("3"), msg("4"), msg("5")})
	all = s.All()
	require.Equal(t, []string{"3", "4", "5"}, []string{all[0].ID, all[1].ID, all[2].ID})

	s.Clear()
	require.Zero(t, s.Len())
	_, ok = s.Last()
	require.False(t, ok)
	require.Equal(t, 3, s.Capacity())
}

func TestStateTracker_AcceptStatus(t *testing.T) {
	st := NewStateTracker()

	require.False(t, st.AcceptStatus("u1", "online", false))
	require.False(t, st.AcceptStatus("u1", "idle", false))
	s, known := st.Get("u1")
	require.True(t, known)
	require.False(t, s.HasStatus)
	require.Empty(t, s.LastStatus)

	require.True(t, st.AcceptStatus("u1", "online", true))
	require.False(t, st.AcceptStatus("u1", "online", true))
	require.True(t, st.AcceptStatus("u1", "idle", false))

	s, _ = st.Get("u1")
	require.Equal(t, "idle", s.LastStatus)
	require.True(t, s.HasStatus)

	st.ObserveVoice("u1", "c1")
	s, _ = st.Get("u1")
	require.Equal(t, "c1", s.VoiceChannelID)

	st.Reset()
	require.Zero(t, st.Len())
}

func TestClassifyVoice(t *testing.T) {
	tests := []struct {
		previous, current string
		want              entry.Transition
		ok                bool
	}{
		{"", "c1", entry.TransitionJoin, true},
		{"c1", "", entry.TransitionLeave, true},
		{"c1", "c2", entry.TransitionMove, true},
		{"c1", "c1", "", false},
		{"", "", "", false},
	}
	for _, tc := range tests {
		got, ok := ClassifyVoice(tc.previous, tc.current)
		require.Equal(t, tc.ok, ok, "%q -> %q", tc.previous, tc.current)
		require.Equal(t, tc.want, got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(false, "b", "a", "")
	require.Equal(t, []string{"a", "b"}, r.List())
	require.True(t, r.Track("c"))
	require.False(t, r.Track("c"))
	require.True(t, r.Untrack("a"))
	require.False(t, r.Untrack("a"))
	require.False(t, r.IsTracked("zzz"))

	r.SetTrackAll(true)
	require.True(t, r.IsTracked("zzz"))

	r.Reset()
	require.Empty(t, r.List())
	require.True(t, r.TrackAll())
}
