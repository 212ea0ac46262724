package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdvisoryService(llm LLMClient, profiles ProfileSource, docs DocumentFinder) *AdvisoryService {
	chat := config.NewChatTunables(config.ChatConfig{MaxDocsPerQuery: 5})
	return NewAdvisoryService(profiles, docs, llm, zap.NewNop(), chat)
}

func TestRespondSelectsIntentFragment(t *testing.T) {
	tests := []struct {
		intent model.Intent
		want   string
	}{
		{model.IntentYogaSupport, "asanas"},
		{model.IntentAyushSupport, "Ayurvedic"},
		{model.IntentMentalWellness, "well-being"},
		{model.IntentGovernmentScheme, "Ayushman Bharat"},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			llm := &fakeLLM{chatReply: "guidance"}
			svc := newAdvisoryService(llm, &fakeProfiles{}, &fakeDocFinder{})

			svc.Respond(context.Background(), 1, tt.intent, "help me", nil, nil)

			require.Len(t, llm.chatCalls, 1)
			assert.Contains(t, llm.chatCalls[0], tt.want)
		})
	}
}

func TestRespondInjectsProfileAndAssessment(t *testing.T) {
	llm := &fakeLLM{chatReply: "guidance"}
	profiles := &fakeProfiles{profile: model.UserProfile{
		Age:       34,
		Gender:    "female",
		Allergies: "penicillin",
	}}
	svc := newAdvisoryService(llm, profiles, &fakeDocFinder{})

	completed := &model.AssessmentState{
		Symptom:  "burns",
		Severity: "moderate",
		Duration: "since yesterday",
		Location: "left arm",
		Context:  "while cooking",
	}
	svc.Respond(context.Background(), 1, model.IntentSymptomChecker, "what should I do?", nil, completed)

	require.Len(t, llm.chatCalls, 1)
	system := llm.chatCalls[0]
	assert.Contains(t, system, "Age: 34")
	assert.Contains(t, system, "penicillin")
	assert.Contains(t, system, "Symptom: burns")
	assert.Contains(t, system, "Location: left arm")
}

func TestRespondUsesDocumentSummariesNotFullText(t *testing.T) {
	llm := &fakeLLM{chatReply: "guidance"}
	docs := &fakeDocFinder{docs: []model.MedicalDocument{{
		FileName:      "blood_report.pdf",
		DocumentType:  "Lab Report",
		Summary:       "Mild anemia, otherwise normal.",
		EncryptedText: "ciphertext-that-must-never-reach-a-prompt",
	}}}
	svc := newAdvisoryService(llm, &fakeProfiles{}, docs)

	svc.Respond(context.Background(), 1, model.IntentHealthAdvisory, "any advice?", nil, nil)

	require.Len(t, llm.chatCalls, 1)
	system := llm.chatCalls[0]
	assert.Contains(t, system, "Mild anemia")
	assert.NotContains(t, system, "ciphertext-that-must-never-reach-a-prompt")
}

func TestRespondFallsBackOnUpstreamError(t *testing.T) {
	llm := &fakeLLM{chatErr: errors.New("timeout")}
	svc := newAdvisoryService(llm, &fakeProfiles{}, &fakeDocFinder{})

	reply := svc.Respond(context.Background(), 1, model.IntentGeneral, "hello", nil, nil)

	assert.Equal(t, fallbackReply, reply)
}
