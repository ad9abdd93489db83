package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// SessionRepository manages persistence for roster sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// Update stores session only if the stored record is still at
	// expectedVersion; otherwise it returns domain.ErrVersionConflict.
	Update(ctx context.Context, session *domain.Session, expectedVersion int) error
}

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemorySessionRepository constructs a process-local repository.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]*domain.Session)}
}

func (r *memorySessionRepository) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return domain.Errorf(domain.ErrVersionConflict, "session %s already exists", session.ID)
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *memorySessionRepository) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrSessionNotFound, "%s", id)
	}
	return s.Clone(), nil
}

func (r *memorySessionRepository) Update(_ context.Context, session *domain.Session, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[session.ID]
	if !ok {
		return domain.Errorf(domain.ErrSessionNotFound, "%s", session.ID)
	}
	if current.Version != expectedVersion {
		return domain.Errorf(domain.ErrVersionConflict, "session %s is at version %d, not %d", session.ID, current.Version, expectedVersion)
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}
