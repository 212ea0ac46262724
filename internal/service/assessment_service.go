package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/internal/repository"
	"arogya_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AssessmentResult is the outcome of feeding one user turn into the state
// machine. Exactly one of Question / Completed is meaningful: while
// gathering, Question carries the single clarifying follow-up; once the
// thread completes, Completed carries the accumulated state for the
// advisory hand-off and Question is empty.
type AssessmentResult struct {
	Question  string
	Completed *model.AssessmentState
}

// AssessmentService drives multi-turn symptom slot-filling. State lives in
// the injected store keyed by session id; mutations are all-or-nothing per
// turn: the stored state is only replaced after extraction succeeds and
// the context is still live.
type AssessmentService struct {
	llm   LLMClient
	store repository.AssessmentStore
	chat  *config.ChatTunables
}

func NewAssessmentService(llm LLMClient, store repository.AssessmentStore, chat *config.ChatTunables) *AssessmentService {
	return &AssessmentService{llm: llm, store: store, chat: chat}
}

// Active returns the session's GATHERING state, or nil.
func (s *AssessmentService) Active(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.Phase != model.AssessmentGathering {
		return nil, nil
	}
	return state, nil
}

// Begin opens a new symptom thread for the session.
func (s *AssessmentService) Begin(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	state := &model.AssessmentState{
		SessionID: sessionID,
		Phase:     model.AssessmentGathering,
		StartedAt: time.Now(),
	}
	if err := s.store.Put(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Advance consumes one user turn. It extracts any slots present in the
// message into a copy of the state, then either completes the thread (all
// slots filled, or the turn cap reached) or emits exactly one clarifying
// question targeting the most important missing slot.
func (s *AssessmentService) Advance(ctx context.Context, state *model.AssessmentState, message string) (*AssessmentResult, error) {
	// Work on a copy; the stored state is untouched until commit.
	next := *state
	next.Turns++

	extracted, exErr := s.extractSlots(ctx, state, message)
	if exErr != nil {
		logger.Log.Warn("slot extraction failed", zap.String("session", state.SessionID), zap.Error(exErr))
	} else {
		mergeSlots(&next, extracted)
	}

	// The turn cap binds whether or not extraction succeeded; a failing
	// upstream must not hold the thread in GATHERING indefinitely.
	if next.Complete() || next.Turns >= s.chat.Snapshot().AssessmentMaxTurns {
		next.Phase = model.AssessmentComplete
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// The thread is torn down; the accumulated state travels to the
		// advisory responder with the caller.
		if err := s.store.Delete(ctx, next.SessionID); err != nil {
			return nil, err
		}
		return &AssessmentResult{Completed: &next}, nil
	}

	if err := s.commit(ctx, &next); err != nil {
		return nil, err
	}
	if exErr != nil {
		return &AssessmentResult{Question: genericFollowUp}, nil
	}
	return &AssessmentResult{Question: followUpQuestion(&next)}, nil
}

// commit persists the advanced state unless the request was cancelled.
func (s *AssessmentService) commit(ctx context.Context, state *model.AssessmentState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Put(ctx, state)
}

type extractedSlots struct {
	Symptom  string `json:"symptom"`
	Severity string `json:"severity"`
	Duration string `json:"duration"`
	Location string `json:"location"`
	Context  string `json:"context"`
}

func (s *AssessmentService) extractSlots(ctx context.Context, state *model.AssessmentState, message string) (*extractedSlots, error) {
	user := fmt.Sprintf("Already collected: symptom=%q severity=%q duration=%q location=%q context=%q\n\nLatest message: %s",
		state.Symptom, state.Severity, state.Duration, state.Location, state.Context, message)

	raw, err := s.llm.ChatJSON(ctx, slotExtractionPrompt, user)
	if err != nil {
		return nil, err
	}

	var slots extractedSlots
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, err
	}
	return &slots, nil
}

// mergeSlots fills empty slots only; a thread never overwrites information
// the user already gave.
func mergeSlots(state *model.AssessmentState, slots *extractedSlots) {
	if state.Symptom == "" {
		state.Symptom = slots.Symptom
	}
	if state.Severity == "" {
		state.Severity = slots.Severity
	}
	if state.Duration == "" {
		state.Duration = slots.Duration
	}
	if state.Location == "" {
		state.Location = slots.Location
	}
	if state.Context == "" {
		state.Context = slots.Context
	}
}

// followUpQuestion renders one question for the head of the missing-slot
// priority list. Capping the output to a single question here makes the
// one-question-per-turn rule structural rather than a prompt instruction.
func followUpQuestion(state *model.AssessmentState) string {
	missing := state.MissingSlots()
	if len(missing) == 0 {
		return genericFollowUp
	}

	subject := state.Symptom
	if subject == "" {
		subject = "your symptoms"
	}

	switch missing[0] {
	case "location":
		return fmt.Sprintf("I'm sorry to hear that. Where exactly are you experiencing %s?", subject)
	case "severity":
		return fmt.Sprintf("How severe is it? For example, mild, moderate, or on a scale of 1 to 10 for %s.", subject)
	case "duration":
		return fmt.Sprintf("How long have you been experiencing %s?", subject)
	case "context":
		return "Is there anything that triggers it or makes it better or worse?"
	default:
		return genericFollowUp
	}
}
