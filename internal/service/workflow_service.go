package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/internal/util"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reply is the outcome of one chat turn.
type Reply struct {
	SessionID string       `json:"sessionId"`
	Text      string       `json:"reply"`
	Intent    model.Intent `json:"intent"`
}

// WorkflowService routes each user message to exactly one responder family:
// document Q&A, symptom assessment or advisory. Turns within a session run
// strictly one at a time; concurrent requests on the same session queue
// behind a per-session lock so the conversation history and assessment
// state never interleave.
// ConversationStore is the slice of session persistence the orchestrator
// needs.
type ConversationStore interface {
	Create(session *model.ChatSession) error
	FindByID(id string) (*model.ChatSession, error)
	AppendMessage(msg *model.ChatMessage) error
	RecentMessages(sessionID string, n int) ([]model.ChatMessage, error)
}

// AuditTrail records security-relevant events.
type AuditTrail interface {
	Append(userID uint, action, detail string) error
}

// turnLock pairs a session mutex with its last acquisition so idle entries
// can be swept, mirroring the rate limiter's visitor eviction.
type turnLock struct {
	mu       sync.Mutex
	lastSeen time.Time
}

type WorkflowService struct {
	sessions   ConversationStore
	audit      AuditTrail
	intents    *IntentService
	assessment *AssessmentService
	docQA      *DocQAService
	advisory   *AdvisoryService
	logger     *zap.Logger
	chat       *config.ChatTunables

	mu    sync.Mutex
	locks map[string]*turnLock
}

func NewWorkflowService(
	sessions ConversationStore,
	audit AuditTrail,
	intents *IntentService,
	assessment *AssessmentService,
	docQA *DocQAService,
	advisory *AdvisoryService,
	logger *zap.Logger,
	chat *config.ChatTunables,
) *WorkflowService {
	s := &WorkflowService{
		sessions:   sessions,
		audit:      audit,
		intents:    intents,
		assessment: assessment,
		docQA:      docQA,
		advisory:   advisory,
		logger:     logger,
		chat:       chat,
		locks:      make(map[string]*turnLock),
	}

	go func() {
		ticker := time.NewTicker(lockSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			s.sweepLocks()
		}
	}()

	return s
}

const (
	lockSweepInterval = 10 * time.Minute
	lockIdleExpiry    = time.Hour
)

// sweepLocks drops lock entries idle past expiry. TryLock guards against
// removing a mutex some turn still holds.
func (s *WorkflowService) sweepLocks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range s.locks {
		if time.Since(l.lastSeen) > lockIdleExpiry && l.mu.TryLock() {
			l.mu.Unlock()
			delete(s.locks, id)
		}
	}
}

// Handle processes one user message for the session and returns the
// assistant reply together with the recorded intent. An empty sessionID
// starts a new conversation owned by the user.
func (s *WorkflowService) Handle(ctx context.Context, sessionID string, userID uint, message string) (*Reply, error) {
	session, err := s.ensureSession(sessionID, userID, message)
	if err != nil {
		return nil, err
	}

	lock := s.sessionLock(session.ID)
	lock.Lock()
	defer lock.Unlock()

	// History is read before the new turn is appended so the window the
	// responders see ends at the previous assistant reply.
	history, err := s.sessions.RecentMessages(session.ID, s.chat.Snapshot().HistoryWindow)
	if err != nil {
		return nil, err
	}

	cls := s.intents.Classify(ctx, message, history)

	if err := s.sessions.AppendMessage(&model.ChatMessage{
		SessionID: session.ID,
		Role:      model.RoleUser,
		Content:   message,
		Intent:    cls.Intent,
	}); err != nil {
		return nil, err
	}

	text, err := s.dispatch(ctx, session.ID, userID, message, cls, history)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.AppendMessage(&model.ChatMessage{
		SessionID: session.ID,
		Role:      model.RoleAssistant,
		Content:   text,
	}); err != nil {
		return nil, err
	}

	if err := s.audit.Append(userID, model.AuditChatQuery, string(cls.Intent)); err != nil {
		s.logger.Warn("audit append failed", zap.Error(err))
	}

	return &Reply{SessionID: session.ID, Text: text, Intent: cls.Intent}, nil
}

// dispatch picks the single responder family for this turn.
func (s *WorkflowService) dispatch(ctx context.Context, sessionID string, userID uint, message string, cls Classification, history []model.ChatMessage) (string, error) {
	if !cls.Safe {
		s.logger.Warn("message flagged unsafe",
			zap.Uint("user_id", userID),
			zap.String("reason", cls.Reason))
		return unsafeReply, nil
	}

	// Document questions are answered even while an assessment is open;
	// the gathering state stays put and resumes on the next symptom turn.
	if cls.Intent == model.IntentDocumentQuery {
		answer, err := s.docQA.Answer(ctx, userID, message, history)
		if err != nil {
			return "", err
		}
		return answer, nil
	}

	active, err := s.assessment.Active(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if active == nil && cls.Intent == model.IntentSymptomChecker {
		active, err = s.assessment.Begin(ctx, sessionID)
		if err != nil {
			return "", err
		}
	}

	if active != nil {
		result, err := s.assessment.Advance(ctx, active, message)
		if err != nil {
			return "", err
		}
		if result.Completed != nil {
			// The thread just finished; fold the collected slots into an
			// advisory wrap-up in the same turn.
			return s.advisory.Respond(ctx, userID, model.IntentSymptomChecker, message, history, result.Completed), nil
		}
		return result.Question, nil
	}

	return s.advisory.Respond(ctx, userID, cls.Intent, message, history, nil), nil
}

// ensureSession resolves or creates the conversation and enforces
// ownership.
func (s *WorkflowService) ensureSession(sessionID string, userID uint, message string) (*model.ChatSession, error) {
	if sessionID == "" {
		session := &model.ChatSession{
			UserID: userID,
			Title:  sessionTitle(message),
		}
		if err := s.sessions.Create(session); err != nil {
			return nil, err
		}
		if err := s.audit.Append(userID, model.AuditCreateSession, session.ID); err != nil {
			s.logger.Warn("audit append failed", zap.Error(err))
		}
		return session, nil
	}

	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.UserID != userID {
		if err := s.audit.Append(userID, model.AuditAccessDenied, "session "+sessionID); err != nil {
			s.logger.Warn("audit append failed", zap.Error(err))
		}
		return nil, util.ErrForbidden
	}
	return session, nil
}

func (s *WorkflowService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &turnLock{}
		s.locks[sessionID] = lock
	}
	lock.lastSeen = time.Now()
	return &lock.mu
}

// sessionTitle derives a short conversation title from the opening message.
func sessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return message
}
