package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/internal/repository"
	"arogya_backend/internal/util"
	"arogya_backend/pkg/security"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type workflowFixture struct {
	svc   *WorkflowService
	llm   *fakeLLM
	conv  *fakeConvStore
	audit *fakeAudit
	store *repository.MemoryAssessmentStore
	docs  *fakeDocFinder
}

func newWorkflowFixture(t *testing.T, llm *fakeLLM) *workflowFixture {
	t.Helper()

	cipher, err := security.NewFieldCipher(testDocKey)
	require.NoError(t, err)

	chat := config.NewChatTunables(config.ChatConfig{
		HistoryWindow:      5,
		AssessmentMaxTurns: 5,
		DocExcerptChars:    2000,
		MaxDocsPerQuery:    5,
	})

	conv := newFakeConvStore()
	audit := &fakeAudit{}
	store := repository.NewMemoryAssessmentStore()
	docs := &fakeDocFinder{}

	assessment := NewAssessmentService(llm, store, chat)
	docQA := NewDocQAService(docs, llm, cipher, chat)
	advisory := NewAdvisoryService(&fakeProfiles{}, docs, llm, zap.NewNop(), chat)
	svc := NewWorkflowService(conv, audit, NewIntentService(llm), assessment, docQA, advisory, zap.NewNop(), chat)

	return &workflowFixture{svc: svc, llm: llm, conv: conv, audit: audit, store: store, docs: docs}
}

func TestHandleAppendsUserAndAssistantTurns(t *testing.T) {
	llm := &fakeLLM{
		intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "general_conversation"}`,
		chatReply:  "Namaste! How can I help you today?",
	}
	f := newWorkflowFixture(t, llm)

	reply, err := f.svc.Handle(context.Background(), "", 1, "hello")
	require.NoError(t, err)

	assert.Equal(t, model.IntentGeneral, reply.Intent)
	assert.Equal(t, "Namaste! How can I help you today?", reply.Text)
	assert.NotEmpty(t, reply.SessionID)

	msgs := f.conv.messages[reply.SessionID]
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.IntentGeneral, msgs[0].Intent)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)

	assert.True(t, f.audit.has(model.AuditChatQuery))
	assert.True(t, f.audit.has(model.AuditCreateSession))
}

func TestHandleUnsafeMessageShortCircuits(t *testing.T) {
	llm := &fakeLLM{
		intentJSON: `{"is_safe": false, "safety_reason": "violence", "intent": "general_conversation"}`,
		chatReply:  "should never be used",
	}
	f := newWorkflowFixture(t, llm)

	reply, err := f.svc.Handle(context.Background(), "", 1, "harmful request")
	require.NoError(t, err)

	assert.Equal(t, unsafeReply, reply.Text)
	// No responder family was invoked.
	assert.Empty(t, llm.chatCalls)

	// The refusal is still part of the transcript.
	msgs := f.conv.messages[reply.SessionID]
	require.Len(t, msgs, 2)
	assert.Equal(t, unsafeReply, msgs[1].Content)
}

func TestHandleSymptomFlowCompletesOverThreeTurns(t *testing.T) {
	llm := &fakeLLM{
		intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "symptom_checker"}`,
		slotJSONs: []string{
			`{"symptom":"burns","severity":"","duration":"","location":"","context":""}`,
			`{"symptom":"","severity":"moderate","duration":"","location":"left arm","context":""}`,
			`{"symptom":"","severity":"","duration":"since yesterday","location":"","context":"while cooking"}`,
		},
		chatReply: "For moderate burns on the arm, cool the area under running water and watch for blistering.",
	}
	f := newWorkflowFixture(t, llm)
	ctx := context.Background()

	first, err := f.svc.Handle(ctx, "", 1, "I have burns")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(first.Text, "?"))

	second, err := f.svc.Handle(ctx, first.SessionID, 1, "on my left arm, moderate")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(second.Text, "?"))

	third, err := f.svc.Handle(ctx, first.SessionID, 1, "since yesterday while cooking")
	require.NoError(t, err)
	assert.Contains(t, third.Text, "burns")

	// The completed thread was torn down.
	state, err := f.store.Get(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Nil(t, state)

	// Every turn produced a user/assistant pair.
	assert.Len(t, f.conv.messages[first.SessionID], 6)
}

func TestHandleDocumentQueryKeepsAssessmentAlive(t *testing.T) {
	llm := &fakeLLM{
		intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "document_query"}`,
	}
	f := newWorkflowFixture(t, llm)
	ctx := context.Background()

	session := &model.ChatSession{UserID: 1, Title: "burns"}
	require.NoError(t, f.conv.Create(session))
	require.NoError(t, f.store.Put(ctx, &model.AssessmentState{
		SessionID: session.ID,
		Phase:     model.AssessmentGathering,
		Symptom:   "burns",
		Turns:     1,
	}))

	reply, err := f.svc.Handle(ctx, session.ID, 1, "what does my blood report say?")
	require.NoError(t, err)

	// No documents uploaded, so the responder declines.
	assert.Equal(t, noDocumentsReply, reply.Text)

	// The open symptom thread is untouched and resumes next turn.
	state, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "burns", state.Symptom)
	assert.Equal(t, 1, state.Turns)
}

func TestHandleRejectsForeignSession(t *testing.T) {
	llm := &fakeLLM{
		intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "general_conversation"}`,
	}
	f := newWorkflowFixture(t, llm)

	session := &model.ChatSession{UserID: 2, Title: "not yours"}
	require.NoError(t, f.conv.Create(session))

	_, err := f.svc.Handle(context.Background(), session.ID, 1, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrForbidden)

	assert.True(t, f.audit.has(model.AuditAccessDenied))
	// No message was recorded in the foreign session.
	assert.Empty(t, f.conv.messages[session.ID])
}

func TestHandleUnknownSession(t *testing.T) {
	llm := &fakeLLM{
		intentJSON: `{"is_safe": true, "safety_reason": "", "intent": "general_conversation"}`,
	}
	f := newWorkflowFixture(t, llm)

	_, err := f.svc.Handle(context.Background(), "no-such-session", 1, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSessionTitleTruncation(t *testing.T) {
	assert.Equal(t, "short", sessionTitle("short"))

	long := strings.Repeat("x", 40)
	title := sessionTitle(long)
	assert.Equal(t, strings.Repeat("x", 30)+"...", title)
}

func TestSweepLocksDropsIdleEntriesOnly(t *testing.T) {
	f := newWorkflowFixture(t, &fakeLLM{})
	s := f.svc

	stale := &turnLock{lastSeen: time.Now().Add(-2 * lockIdleExpiry)}
	fresh := &turnLock{lastSeen: time.Now()}
	held := &turnLock{lastSeen: time.Now().Add(-2 * lockIdleExpiry)}
	held.mu.Lock()
	defer held.mu.Unlock()

	s.mu.Lock()
	s.locks["stale"] = stale
	s.locks["fresh"] = fresh
	s.locks["held"] = held
	s.mu.Unlock()

	s.sweepLocks()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.NotContains(t, s.locks, "stale")
	assert.Contains(t, s.locks, "fresh")
	assert.Contains(t, s.locks, "held")
}
