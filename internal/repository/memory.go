package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
)

type storedSession struct {
	data      []byte
	expiresAt time.Time
}

// memorySession keeps sessions in process. Sessions are stored as JSON so callers never share pointers with the store.
type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]storedSession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySession{
		sessions: make(map[string]storedSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *battleship.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	stored := storedSession{data: sessionJSON}
	if that.ttl > 0 {
		stored.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	that.sweep()
	that.sessions[session.ID] = stored
	that.mu.Unlock()

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*battleship.Session, error) {
	that.mu.RLock()
	stored, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	if that.expired(stored) {
		that.mu.Lock()
		// the session may have been saved again since the read lock was released
		if current, found := that.sessions[id]; found && that.expired(current) {
			delete(that.sessions, id)
		}
		that.mu.Unlock()

		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	var session battleship.Session
	if err := json.Unmarshal(stored.data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	delete(that.sessions, id)

	if that.expired(stored) {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return nil
}

// sweep - drops every expired session, the caller holds the write lock.
func (that *memorySession) sweep() {
	for id, stored := range that.sessions {
		if that.expired(stored) {
			delete(that.sessions, id)
		}
	}
}

func (that *memorySession) expired(stored storedSession) bool {
	return !stored.expiresAt.IsZero() && that.now().After(stored.expiresAt)
}
