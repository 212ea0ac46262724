package repository

import (
	"arogya_backend/internal/model"

	"gorm.io/gorm"
)

// SessionRepository is the conversation history tracker. Full history is
// retained for audit; the context window bound is enforced at read time by
// RecentMessages, never by truncating storage.
type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.ChatSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.DB.First(&session, "id = ?", id).Error
	return &session, err
}

func (r *SessionRepository) FindByUser(userID uint) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// AppendMessage records one turn. Turns for a session arrive strictly
// ordered because the workflow serializes per-session processing.
func (r *SessionRepository) AppendMessage(msg *model.ChatMessage) error {
	return r.DB.Create(msg).Error
}

// RecentMessages returns at most n most-recent turns, oldest first. It is
// side-effect-free and never returns more than has been appended.
func (r *SessionRepository) RecentMessages(sessionID string, n int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	return oldestFirst(msgs), nil
}

// oldestFirst flips a newest-first query result in place for prompt
// assembly, which wants chronological order.
func oldestFirst(msgs []model.ChatMessage) []model.ChatMessage {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}

// AllMessages returns the full ordered history for the session detail view.
func (r *SessionRepository) AllMessages(sessionID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}
