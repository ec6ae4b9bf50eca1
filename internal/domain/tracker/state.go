package tracker

import "github.com/rpggio/watchlog/internal/domain/entry"

// SubjectState is the remembered state of one subject.
type SubjectState struct {
	LastStatus     string `json:"last_status,omitempty"`
	HasStatus      bool   `json:"has_status"`
	VoiceChannelID string `json:"voice_channel_id,omitempty"`
}

// StateTracker remembers the last status and voice channel per subject and
// decides which status changes are worth logging. Not safe for concurrent use.
type StateTracker struct {
	subjects map[string]*SubjectState
}

// NewStateTracker creates an empty StateTracker.
func NewStateTracker() *StateTracker {
	return &StateTracker{subjects: make(map[string]*SubjectState)}
}

func (t *StateTracker) state(subjectID string) *SubjectState {
	s, ok := t.subjects[subjectID]
	if !ok {
		s = &SubjectState{}
		t.subjects[subjectID] = s
	}
	return s
}

// AcceptStatus reports whether value is a new status for the subject and
// records it when it is. With no prior status, the first value is accepted
// only when the payload carried a client-status marker.
func (t *StateTracker) AcceptStatus(subjectID, value string, hasClientStatus bool) bool {
	s := t.state(subjectID)
	if !s.HasStatus {
		if !hasClientStatus {
			return false
		}
	} else if s.LastStatus == value {
		return false
	}
	s.LastStatus = value
	s.HasStatus = true
	return true
}

// ObserveVoice records the subject's current voice channel; an empty id clears it.
func (t *StateTracker) ObserveVoice(subjectID, channelID string) {
	t.state(subjectID).VoiceChannelID = channelID
}

// Get returns a copy of the subject's state.
func (t *StateTracker) Get(subjectID string) (SubjectState, bool) {
	s, ok := t.subjects[subjectID]
	if !ok {
		return SubjectState{}, false
	}
	return *s, true
}

// Len returns the number of subjects with state.
func (t *StateTracker) Len() int {
	return len(t.subjects)
}

// Reset forgets all subjects.
func (t *StateTracker) Reset() {
	t.subjects = make(map[string]*SubjectState)
}

// ClassifyVoice derives the transition from the previous and current channel
// ids. It reports false when nothing changed.
func ClassifyVoice(previous, current string) (entry.Transition, bool) {
	switch {
	case previous == "" && current != "":
		return entry.TransitionJoin, true
	case previous != "" && current == "":
		return entry.TransitionLeave, true
	case previous != "" && current != "" && previous != current:
		return entry.TransitionMove, true
	default:
		return "", false
	}
}
