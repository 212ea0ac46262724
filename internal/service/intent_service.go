package service

import (
	"arogya_backend/internal/model"
	"arogya_backend/pkg/logger"
	"arogya_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Classification is the combined safety check and intent label for one
// message.
type Classification struct {
	Safe   bool
	Reason string
	Intent model.Intent
}

// IntentService maps a user message plus recent history to one label from
// the fixed set. It never returns an error to the caller: any failure
// degrades to the safe default label.
type IntentService struct {
	llm LLMClient
}

func NewIntentService(llm LLMClient) *IntentService {
	return &IntentService{llm: llm}
}

// Classify resolves the intent of message. Identical input yields identical
// output up to the model's determinism; temperature is pinned to zero in the
// JSON call. Ambiguity, parse failures and upstream errors all fall back to
// general_conversation.
func (s *IntentService) Classify(ctx context.Context, message string, history []model.ChatMessage) Classification {
	fallback := Classification{Safe: true, Intent: model.IntentGeneral}

	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for i, m := range history {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Latest message: %s", message)

	raw, err := s.llm.ChatJSON(ctx, intentPrompt, b.String())
	if err != nil {
		logger.Log.Warn("intent classification failed, using safe default", zap.Error(err))
		return fallback
	}

	var parsed struct {
		IsSafe       bool   `json:"is_safe"`
		SafetyReason string `json:"safety_reason"`
		Intent       string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Log.Warn("intent response unparsable, using safe default", zap.Error(err))
		return fallback
	}

	intent := model.Intent(parsed.Intent)
	if !intent.Valid() {
		intent = model.IntentGeneral
	}
	monitoring.IntentCounter.WithLabelValues(string(intent)).Inc()

	return Classification{
		Safe:   parsed.IsSafe,
		Reason: parsed.SafetyReason,
		Intent: intent,
	}
}
