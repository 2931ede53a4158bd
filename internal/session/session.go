// Package session models one listing screen: the filter form the user is
// editing, the filters last applied, and the page selector. Every mutation
// recomputes the filtered set and the page count explicitly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/paging"
	"github.com/yourorg/housing-api/internal/redisx"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID string `json:"id"`
	// Draft is the form as typed; it only takes effect on ApplyFilters.
	Draft      housing.Criteria `json:"filters"`
	Applied    housing.Criteria `json:"appliedFilters"`
	Paging     paging.State     `json:"pagination"`
	SelectedID string           `json:"selectedListingId,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{m: map[string]Session{}} }

func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.m, id)
	return nil
}

// KV is the subset of redisx.Client the Redis store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, val string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RedisStore keeps sessions as JSON with a sliding TTL.
type RedisStore struct {
	KV  KV
	TTL time.Duration
}

func sessionKey(id string) string { return "session:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	val, err := s.KV.Get(ctx, sessionKey(id))
	if errors.Is(err, redisx.ErrMiss) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return s.KV.Set(ctx, sessionKey(sess.ID), string(b), ttl)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	ok, err := s.KV.Exists(ctx, sessionKey(id))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.KV.Del(ctx, sessionKey(id))
}
