package service

import (
	"arogya_backend/internal/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyParsesLabel(t *testing.T) {
	llm := &fakeLLM{intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "symptom_checker"}`}
	svc := NewIntentService(llm)

	cls := svc.Classify(context.Background(), "I have a headache", nil)

	assert.True(t, cls.Safe)
	assert.Equal(t, model.IntentSymptomChecker, cls.Intent)
}

func TestClassifyFallsBackOnUpstreamError(t *testing.T) {
	llm := &fakeLLM{intentErr: errors.New("timeout")}
	svc := NewIntentService(llm)

	cls := svc.Classify(context.Background(), "I have a headache", nil)

	assert.True(t, cls.Safe)
	assert.Equal(t, model.IntentGeneral, cls.Intent)
}

func TestClassifyFallsBackOnUnparsableResponse(t *testing.T) {
	llm := &fakeLLM{intentJSON: "not json at all"}
	svc := NewIntentService(llm)

	cls := svc.Classify(context.Background(), "hello", nil)

	assert.True(t, cls.Safe)
	assert.Equal(t, model.IntentGeneral, cls.Intent)
}

func TestClassifyCoercesUnknownLabel(t *testing.T) {
	llm := &fakeLLM{intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "made_up_label"}`}
	svc := NewIntentService(llm)

	cls := svc.Classify(context.Background(), "hello", nil)

	assert.Equal(t, model.IntentGeneral, cls.Intent)
}

func TestClassifyPreservesUnsafeFlag(t *testing.T) {
	llm := &fakeLLM{intentJSON: `{"is_safe": false, "safety_reason": "violent content", "intent": "general_conversation"}`}
	svc := NewIntentService(llm)

	cls := svc.Classify(context.Background(), "something harmful", nil)

	assert.False(t, cls.Safe)
	assert.Equal(t, "violent content", cls.Reason)
}
