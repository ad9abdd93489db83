package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/config"
	"github.com/spec-kit/shift-roster/internal/domain"
)

// Runs against a live database only when POSTGRES_TEST_DSN is set.
func testPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 2}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
	return pg
}

func TestPostgresSessionRepository(t *testing.T) {
	pg := testPostgres(t)
	ctx := context.Background()
	repo := NewPostgresSessionRepository(pg.PoolHandle(), time.Hour)

	now := time.Now().UTC().Truncate(time.Millisecond)
	s := &domain.Session{
		ID:      uuid.NewString(),
		Version: 1,
		Config: domain.RosterConfig{
			EmployeeCount: 2,
			ShiftsPerDay:  1,
			HorizonDays:   2,
			Categories:    []domain.Category{domain.CategoryManager, domain.CategoryPartTime},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Cleanup(func() { _, _ = pg.Pool.Exec(ctx, "DELETE FROM sessions WHERE id=$1", s.ID) })

	require.NoError(t, repo.Create(ctx, s))
	assert.ErrorIs(t, repo.Create(ctx, s), domain.ErrVersionConflict)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Config, got.Config)
	assert.Empty(t, got.Operations)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))

	next := got.Clone()
	next.Version = 2
	next.Operations = []domain.Operation{{Kind: domain.OperationAddEmployee, Category: domain.CategoryFullTime}}
	next.UpdatedAt = now.Add(time.Second)
	require.NoError(t, repo.Update(ctx, next, 1))
	assert.ErrorIs(t, repo.Update(ctx, next, 1), domain.ErrVersionConflict)

	got, err = repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, next.Operations, got.Operations)

	missing := next.Clone()
	missing.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Update(ctx, missing, 2), domain.ErrSessionNotFound)
	_, err = repo.GetByID(ctx, missing.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPostgresSessionRepositoryExpiresIdleSessions(t *testing.T) {
	pg := testPostgres(t)
	ctx := context.Background()
	repo := NewPostgresSessionRepository(pg.PoolHandle(), time.Minute)

	stale := time.Now().Add(-time.Hour)
	s := &domain.Session{
		ID:        uuid.NewString(),
		Version:   1,
		Config:    domain.RosterConfig{EmployeeCount: 1, ShiftsPerDay: 1, HorizonDays: 1, Categories: []domain.Category{domain.CategoryManager}},
		CreatedAt: stale,
		UpdatedAt: stale,
	}
	t.Cleanup(func() { _, _ = pg.Pool.Exec(ctx, "DELETE FROM sessions WHERE id=$1", s.ID) })

	require.NoError(t, repo.Create(ctx, s))
	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPostgresWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
	pg.Close()
}

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_sessions.sql", names[0])

	raw, err := migrationFiles.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS sessions")
	assert.Contains(t, string(raw), "version")
}
