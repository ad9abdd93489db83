package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/repository"
)

type pgSessionRepository struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresSessionRepository stores sessions as rows of the sessions table.
// Rows idle for longer than ttl read as missing; ttl <= 0 keeps them forever.
func NewPostgresSessionRepository(pool *pgxpool.Pool, ttl time.Duration) repository.SessionRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &pgSessionRepository{pool: pool, ttl: ttl}
}

func (r *pgSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	cfg, ops, err := encodeSession(session)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO sessions (id, version, config, operations, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query,
		session.ID,
		session.Version,
		cfg,
		ops,
		session.CreatedAt,
		updatedAt(session),
	)
	if err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.Errorf(domain.ErrVersionConflict, "session %s already exists", session.ID)
	}
	return nil
}

func (r *pgSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	const query = `
        SELECT id, version, config, operations, created_at, updated_at
        FROM sessions WHERE id=$1 AND updated_at > $2`
	var (
		s        domain.Session
		cfg, ops []byte
	)
	err := r.pool.QueryRow(ctx, query, id, r.cutoff()).Scan(&s.ID, &s.Version, &cfg, &ops, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrSessionNotFound, "%s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := json.Unmarshal(cfg, &s.Config); err != nil {
		return nil, fmt.Errorf("decode session %s config: %w", id, err)
	}
	if err := json.Unmarshal(ops, &s.Operations); err != nil {
		return nil, fmt.Errorf("decode session %s operations: %w", id, err)
	}
	return &s, nil
}

// Update is a compare-and-swap on the version column. When no row matches,
// a second read tells a missing session from a stale version.
func (r *pgSessionRepository) Update(ctx context.Context, session *domain.Session, expectedVersion int) error {
	cfg, ops, err := encodeSession(session)
	if err != nil {
		return err
	}
	const query = `
        UPDATE sessions SET version=$3, config=$4, operations=$5, updated_at=$6
        WHERE id=$1 AND version=$2 AND updated_at > $7`
	cmd, err := r.pool.Exec(ctx, query,
		session.ID,
		expectedVersion,
		session.Version,
		cfg,
		ops,
		updatedAt(session),
		r.cutoff(),
	)
	if err != nil {
		return fmt.Errorf("update session %s: %w", session.ID, err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, session.ID)
	if err != nil {
		return err
	}
	return domain.Errorf(domain.ErrVersionConflict, "session %s is at version %d, not %d", session.ID, current.Version, expectedVersion)
}

func (r *pgSessionRepository) cutoff() time.Time {
	if r.ttl == 0 {
		return time.Time{}
	}
	return time.Now().Add(-r.ttl)
}

func encodeSession(s *domain.Session) ([]byte, []byte, error) {
	cfg, err := json.Marshal(s.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("encode session %s config: %w", s.ID, err)
	}
	ops := s.Operations
	if ops == nil {
		ops = []domain.Operation{}
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, nil, fmt.Errorf("encode session %s operations: %w", s.ID, err)
	}
	return cfg, raw, nil
}

func updatedAt(s *domain.Session) time.Time {
	if s.UpdatedAt.IsZero() {
		return time.Now()
	}
	return s.UpdatedAt
}
