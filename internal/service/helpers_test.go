package service

import (
	"arogya_backend/internal/model"
	"context"
	"fmt"
	"strings"
	"sync"
)

// fakeLLM scripts model behavior per call. ChatJSON answers are routed by
// the system prompt so one fake can serve the classifier and the slot
// extractor in the same scenario.
type fakeLLM struct {
	mu sync.Mutex

	chatReply string
	chatErr   error
	chatCalls []string // system prompts seen by Chat
	lastUser  string   // final user turn of the last Chat call

	intentJSON  string
	intentErr   error
	slotJSONs   []string // consumed front to back; last one repeats
	slotErr     error
	genericJSON string // answer for any other system prompt
	genericErr  error
}

func (f *fakeLLM) Chat(ctx context.Context, system string, turns []Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chatCalls = append(f.chatCalls, system)
	if len(turns) > 0 {
		f.lastUser = turns[len(turns)-1].Content
	}
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if f.chatReply != "" {
		return f.chatReply, nil
	}
	return "ok", nil
}

func (f *fakeLLM) ChatJSON(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.Contains(system, "SAFETY CHECK"):
		if f.intentErr != nil {
			return "", f.intentErr
		}
		return f.intentJSON, nil
	case strings.Contains(system, "symptom details"):
		if f.slotErr != nil {
			return "", f.slotErr
		}
		if len(f.slotJSONs) == 0 {
			return `{"symptom":"","severity":"","duration":"","location":"","context":""}`, nil
		}
		reply := f.slotJSONs[0]
		if len(f.slotJSONs) > 1 {
			f.slotJSONs = f.slotJSONs[1:]
		}
		return reply, nil
	default:
		if f.genericErr != nil {
			return "", f.genericErr
		}
		return f.genericJSON, nil
	}
}

// fakeConvStore keeps sessions and messages in memory.
type fakeConvStore struct {
	mu       sync.Mutex
	sessions map[string]*model.ChatSession
	messages map[string][]model.ChatMessage
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{
		sessions: make(map[string]*model.ChatSession),
		messages: make(map[string][]model.ChatMessage),
	}
}

func (s *fakeConvStore) Create(session *model.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = fmt.Sprintf("session-%d", len(s.sessions)+1)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeConvStore) FindByID(id string) (*model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return session, nil
}

func (s *fakeConvStore) AppendMessage(msg *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)
	return nil
}

func (s *fakeConvStore) RecentMessages(sessionID string, n int) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.messages[sessionID]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]model.ChatMessage, len(all))
	copy(out, all)
	return out, nil
}

// fakeAudit records appended events.
type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAudit) Append(userID uint, action, detail string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.actions = append(a.actions, action)
	return nil
}

func (a *fakeAudit) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, got := range a.actions {
		if got == action {
			return true
		}
	}
	return false
}

// fakeDocFinder serves a fixed document list.
type fakeDocFinder struct {
	docs []model.MedicalDocument
}

func (f *fakeDocFinder) FindRecent(userID uint, n int) ([]model.MedicalDocument, error) {
	if len(f.docs) > n {
		return f.docs[:n], nil
	}
	return f.docs, nil
}

// fakeProfiles serves one profile for every user.
type fakeProfiles struct {
	profile model.UserProfile
}

func (f *fakeProfiles) GetOrCreateProfile(userID uint) (*model.UserProfile, error) {
	cp := f.profile
	cp.UserID = userID
	return &cp, nil
}
