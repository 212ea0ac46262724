package model

import "time"

// AssessmentPhase is the state machine phase of a symptom thread.
type AssessmentPhase string

const (
	AssessmentGathering AssessmentPhase = "GATHERING"
	AssessmentComplete  AssessmentPhase = "ASSESSMENT_COMPLETE"
)

// AssessmentState is the slot-filling state for one session's symptom
// thread. It lives in redis keyed by session id and is evicted after an
// inactivity TTL. Every slot is optional until filled; empty string means
// not yet collected.
type AssessmentState struct {
	SessionID string          `json:"session_id"`
	Phase     AssessmentPhase `json:"phase"`
	Symptom   string          `json:"symptom"` // the complaint that opened the thread
	Severity  string          `json:"severity"`
	Duration  string          `json:"duration"`
	Location  string          `json:"location"`
	Context   string          `json:"context"` // triggers, patterns, surrounding detail
	Turns     int             `json:"turns"`   // user turns consumed while GATHERING
	StartedAt time.Time       `json:"started_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MissingSlots returns the unfilled slot names in priority order. Location
// and severity come first: they matter most for triage, and the follow-up
// question targets the head of this list.
func (s *AssessmentState) MissingSlots() []string {
	var missing []string
	if s.Location == "" {
		missing = append(missing, "location")
	}
	if s.Severity == "" {
		missing = append(missing, "severity")
	}
	if s.Duration == "" {
		missing = append(missing, "duration")
	}
	if s.Context == "" {
		missing = append(missing, "context")
	}
	return missing
}

// Complete reports whether every required slot is filled.
func (s *AssessmentState) Complete() bool {
	return len(s.MissingSlots()) == 0
}
