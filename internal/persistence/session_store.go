package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/repository"
)

const sessionKeyPrefix = "roster:session:"

type redisSessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisSessionRepository stores sessions as JSON records, one key per
// session. ttl <= 0 keeps records until deleted.
func NewRedisSessionRepository(client redis.UniversalClient, ttl time.Duration) repository.SessionRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &redisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (r *redisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(session.ID), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	if !ok {
		return domain.Errorf(domain.ErrVersionConflict, "session %s already exists", session.ID)
	}
	return nil
}

func (r *redisSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	return r.get(ctx, r.client, id)
}

// getter is the subset of commands shared by clients and transactions.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisSessionRepository) get(ctx context.Context, c getter, id string) (*domain.Session, error) {
	raw, err := c.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.Errorf(domain.ErrSessionNotFound, "%s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// Update compares and swaps under WATCH, so a concurrent writer makes the
// transaction fail with a version conflict instead of being overwritten.
func (r *redisSessionRepository) Update(ctx context.Context, session *domain.Session, expectedVersion int) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	key := sessionKey(session.ID)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx, session.ID)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return domain.Errorf(domain.ErrVersionConflict, "session %s is at version %d, not %d", session.ID, current.Version, expectedVersion)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return domain.Errorf(domain.ErrVersionConflict, "session %s changed during update", session.ID)
	}
	return err
}
