package repository

import (
	"arogya_backend/internal/model"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// AssessmentStore keeps per-session slot-filling state. Get returns nil when
// no thread is active for the session (not an error). Put resets the
// inactivity TTL so abandoned threads are evicted automatically.
type AssessmentStore interface {
	Get(ctx context.Context, sessionID string) (*model.AssessmentState, error)
	Put(ctx context.Context, state *model.AssessmentState) error
	Delete(ctx context.Context, sessionID string) error
}

const assessmentKeyPrefix = "assessment:session:"

// RedisAssessmentStore is the production store.
type RedisAssessmentStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAssessmentStore(rdb *redis.Client, ttl time.Duration) *RedisAssessmentStore {
	return &RedisAssessmentStore{rdb: rdb, ttl: ttl}
}

func (s *RedisAssessmentStore) Get(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	raw, err := s.rdb.Get(ctx, assessmentKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state model.AssessmentState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisAssessmentStore) Put(ctx context.Context, state *model.AssessmentState) error {
	state.UpdatedAt = time.Now()
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, assessmentKeyPrefix+state.SessionID, raw, s.ttl).Err()
}

func (s *RedisAssessmentStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, assessmentKeyPrefix+sessionID).Err()
}

// MemoryAssessmentStore backs tests and single-node development runs.
type MemoryAssessmentStore struct {
	mu     sync.RWMutex
	states map[string]*model.AssessmentState
}

func NewMemoryAssessmentStore() *MemoryAssessmentStore {
	return &MemoryAssessmentStore{states: make(map[string]*model.AssessmentState)}
}

func (s *MemoryAssessmentStore) Get(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *state
	return &cp, nil
}

func (s *MemoryAssessmentStore) Put(ctx context.Context, state *model.AssessmentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.UpdatedAt = time.Now()
	cp := *state
	s.states[state.SessionID] = &cp
	return nil
}

func (s *MemoryAssessmentStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, sessionID)
	return nil
}
