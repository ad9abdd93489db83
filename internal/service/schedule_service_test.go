package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/shift-roster/internal/config"
	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/events"
	"github.com/spec-kit/shift-roster/internal/observability"
	"github.com/spec-kit/shift-roster/internal/repository"
	"github.com/spec-kit/shift-roster/internal/solver"
)

type fixture struct {
	svc     *ScheduleService
	repo    repository.SessionRepository
	metrics *observability.Metrics
	logs    *observer.ObservedLogs
}

func defaultRoster(policy domain.ExtensionPolicy) config.RosterConfig {
	return config.RosterConfig{
		FullTimeHours:   40,
		PartTimeHours:   20,
		ManagerHours:    40,
		FullShiftHours:  8,
		HalfShiftHours:  4,
		ExtensionPolicy: policy,
	}
}

func newFixture(t *testing.T, policy domain.ExtensionPolicy, repo repository.SessionRepository) fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	if repo == nil {
		repo = repository.NewMemorySessionRepository()
	}
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	NewDiagnosticsService(dispatcher, logger, metrics).RegisterHandlers()
	svc := NewScheduleService(ScheduleDependencies{
		Sessions:   repo,
		Driver:     solver.NewDriver(nil, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
		Solver:     config.SolverConfig{DefaultLimit: 2, MaxLimit: 4},
		Roster:     defaultRoster(policy),
	})
	return fixture{svc: svc, repo: repo, metrics: metrics, logs: logs}
}

func unitRestaurant() domain.RosterConfig {
	return domain.RosterConfig{
		EmployeeCount: 4,
		ShiftsPerDay:  4,
		HorizonDays:   7,
		Categories: []domain.Category{
			domain.CategoryFullTime,
			domain.CategoryPartTime,
			domain.CategoryManager,
			domain.CategoryPartTime,
		},
		Rules: domain.RuleTable{
			domain.CategoryFullTime: {ShiftHours: 1, MaxHours: 40},
			domain.CategoryPartTime: {ShiftHours: 1, MaxHours: 20},
			domain.CategoryManager:  {ShiftHours: 1, MaxHours: 40},
		},
	}
}

func tooFewEmployees() domain.RosterConfig {
	return domain.RosterConfig{
		EmployeeCount: 2,
		ShiftsPerDay:  3,
		HorizonDays:   7,
		Categories:    []domain.Category{domain.CategoryManager, domain.CategoryPartTime},
	}
}

func TestCreateAndGetSession(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	ctx := context.Background()

	view, err := f.svc.CreateSession(ctx, domain.RosterConfig{
		EmployeeCount: 1,
		ShiftsPerDay:  2,
		HorizonDays:   3,
		Categories:    []domain.Category{domain.CategoryPartTime},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.Session.ID)
	assert.Equal(t, 1, view.Session.Version)
	assert.Equal(t, 6, view.Model.Variables)
	assert.Equal(t, domain.ExtensionRebuild, view.Session.Config.ExtensionPolicy)
	require.Contains(t, view.Session.Config.Rules, domain.CategoryPartTime, "defaults are frozen into the record")
	assert.Equal(t, 4, view.Session.Config.Rules[domain.CategoryPartTime].ShiftHours)

	got, err := f.svc.GetSession(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Model, got.Model)
	assert.Equal(t, 1, f.logs.FilterMessage("ModelBuilt").Len())

	_, err = f.svc.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCreateSessionRejectsBadConfiguration(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	cfg := unitRestaurant()
	cfg.Categories = cfg.Categories[:3]
	_, err := f.svc.CreateSession(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	cfg = unitRestaurant()
	cfg.Categories[0] = "contractor"
	_, err = f.svc.CreateSession(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedCategory)
}

func TestAddEmployeeRebuildPolicy(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx, unitRestaurant())
	require.NoError(t, err)

	next, added, err := f.svc.AddEmployee(ctx, view.Session.ID, domain.CategoryManager)
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)
	assert.Equal(t, 2, next.Session.Version)
	assert.Equal(t, 2, next.Model.Version)
	assert.Equal(t, view.Model.Variables+28, next.Model.Variables)
	assert.Empty(t, next.Model.Dormant)
	assert.Equal(t, int64(1), f.metrics.Snapshot().Extensions)

	out, err := f.svc.Solve(ctx, view.Session.ID)
	require.NoError(t, err)
	require.Equal(t, solver.StatusFeasible, out.Status)
	require.NotNil(t, out.Snapshot)
	assert.Equal(t, 5, out.Snapshot.EmployeeCount())
	for d := 0; d < 7; d++ {
		for s := 0; s < 4; s++ {
			assert.Len(t, out.Snapshot.WorkersOn(d, s), 1)
		}
	}
}

func TestAddEmployeeOptionalPolicyThenRebuild(t *testing.T) {
	f := newFixture(t, domain.ExtensionOptional, nil)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx, unitRestaurant())
	require.NoError(t, err)

	next, added, err := f.svc.AddEmployee(ctx, view.Session.ID, domain.CategoryPartTime)
	require.NoError(t, err)
	assert.Equal(t, []int{added.ID}, next.Model.Dormant)

	out, err := f.svc.Solve(ctx, view.Session.ID)
	require.NoError(t, err)
	require.Equal(t, solver.StatusFeasible, out.Status)
	assert.Zero(t, out.Snapshot.ShiftCount(added.ID))

	rebuilt, err := f.svc.Rebuild(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rebuilt.Session.Version)
	assert.Empty(t, rebuilt.Model.Dormant)
	assert.Equal(t, []domain.Operation{
		{Kind: domain.OperationAddEmployee, Category: domain.CategoryPartTime},
		{Kind: domain.OperationRebuildCoverage},
	}, rebuilt.Session.Operations)
	assert.Equal(t, 1, f.logs.FilterMessage("CoverageRebuilt").Len())
}

func TestAddFullTimeEmployeeUnderOptionalPolicyStaysFeasible(t *testing.T) {
	f := newFixture(t, domain.ExtensionOptional, nil)
	ctx := context.Background()
	cfg := unitRestaurant()
	cfg.Rules[domain.CategoryFullTime] = domain.CategoryRule{ShiftHours: 1, MaxHours: 40, MinShifts: 1}
	view, err := f.svc.CreateSession(ctx, cfg)
	require.NoError(t, err)

	_, added, err := f.svc.AddEmployee(ctx, view.Session.ID, domain.CategoryFullTime)
	require.NoError(t, err)
	out, err := f.svc.Solve(ctx, view.Session.ID)
	require.NoError(t, err)
	require.Equal(t, solver.StatusFeasible, out.Status)
	assert.Zero(t, out.Snapshot.ShiftCount(added.ID))

	_, err = f.svc.Rebuild(ctx, view.Session.ID)
	require.NoError(t, err)
	out, err = f.svc.Solve(ctx, view.Session.ID)
	require.NoError(t, err)
	require.Equal(t, solver.StatusFeasible, out.Status)
	assert.GreaterOrEqual(t, out.Snapshot.ShiftCount(added.ID), 1)
}

func TestAddEmployeeUnknownCategoryLeavesSessionUnchanged(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx, unitRestaurant())
	require.NoError(t, err)

	_, _, err = f.svc.AddEmployee(ctx, view.Session.ID, "intern")
	assert.ErrorIs(t, err, domain.ErrUnrecognizedCategory)

	got, err := f.svc.GetSession(ctx, view.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Session.Version)

	_, _, err = f.svc.AddEmployee(ctx, "missing", domain.CategoryManager)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// racingRepo lets another writer commit between a read and the service's write.
type racingRepo struct {
	repository.SessionRepository
}

func (r racingRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s, err := r.SessionRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	other := s.Clone()
	other.Version++
	if err := r.SessionRepository.Update(ctx, other, s.Version); err != nil {
		return nil, err
	}
	return s, nil
}

func TestAddEmployeeVersionConflict(t *testing.T) {
	mem := repository.NewMemorySessionRepository()
	f := newFixture(t, domain.ExtensionRebuild, racingRepo{mem})
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx, unitRestaurant())
	require.NoError(t, err)

	_, _, err = f.svc.AddEmployee(ctx, view.Session.ID, domain.CategoryManager)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestSolveConfigInfeasible(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	out, err := f.svc.SolveConfig(context.Background(), tooFewEmployees())
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, out.Status)
	assert.Nil(t, out.Snapshot)
	assert.Equal(t, int64(1), f.metrics.Snapshot().Searches["solve|infeasible"])
}

func TestEnumerateClampsLimit(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	ctx := context.Background()
	view, err := f.svc.CreateSession(ctx, unitRestaurant())
	require.NoError(t, err)

	c := &solver.Collector{}
	out, err := f.svc.Enumerate(ctx, view.Session.ID, 50, c)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Summary.Limit)
	assert.Equal(t, 4, out.Summary.Delivered)
	assert.Len(t, c.Snapshots(), 4)
	assert.True(t, out.Summary.Stopped)

	out, err = f.svc.EnumerateConfig(ctx, unitRestaurant(), 0, &solver.Collector{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Summary.Delivered, "zero means the default limit")

	snap := f.metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Searches["enumerate|feasible"])
	assert.Equal(t, int64(6), snap.Solutions)
	assert.Equal(t, 6, f.logs.FilterMessage("SolutionFound").Len())
}

func TestEnumerateStopsWhenContextCancelled(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var got []int
	out, err := f.svc.EnumerateConfig(ctx, unitRestaurant(), 4, solver.SinkFunc(func(ordinal int, _ domain.Snapshot) bool {
		got = append(got, ordinal)
		cancel()
		return true
	}))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, out)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, out.Summary.Delivered)

	_, err = f.svc.EnumerateConfig(ctx, unitRestaurant(), 4, &solver.Collector{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = f.svc.SolveConfig(ctx, unitRestaurant())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnumerateMalformedOrMissing(t *testing.T) {
	f := newFixture(t, domain.ExtensionRebuild, nil)
	_, err := f.svc.Enumerate(context.Background(), "missing", 1, &solver.Collector{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = f.svc.EnumerateConfig(context.Background(), domain.RosterConfig{EmployeeCount: -1}, 1, &solver.Collector{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestDiagnosticsStop(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	diagnostics := NewDiagnosticsService(dispatcher, zap.NewNop(), metrics)
	diagnostics.RegisterHandlers()
	diagnostics.RegisterHandlers()
	svc := NewScheduleService(ScheduleDependencies{Dispatcher: dispatcher, Roster: defaultRoster(domain.ExtensionRebuild)})

	_, err := svc.SolveConfig(context.Background(), tooFewEmployees())
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.Snapshot().Searches["solve|infeasible"], "registering twice subscribes once")

	diagnostics.Stop()
	_, err = svc.SolveConfig(context.Background(), tooFewEmployees())
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.Snapshot().Searches["solve|infeasible"])
}
