package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/config"
	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/events"
	"github.com/spec-kit/shift-roster/internal/repository"
	"github.com/spec-kit/shift-roster/internal/roster"
	"github.com/spec-kit/shift-roster/internal/solver"
)

const (
	modeSolve     = "solve"
	modeEnumerate = "enumerate"
)

// ScheduleService coordinates roster sessions and solver runs.
type ScheduleService struct {
	sessions   repository.SessionRepository
	driver     *solver.Driver
	dispatcher events.Dispatcher
	logger     *zap.Logger
	limits     config.SolverConfig
	defaults   config.RosterConfig
	now        func() time.Time
}

// ScheduleDependencies bundles collaborators for the schedule service.
type ScheduleDependencies struct {
	Sessions   repository.SessionRepository
	Driver     *solver.Driver
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Solver     config.SolverConfig
	Roster     config.RosterConfig
}

// SessionView is a stored session plus a summary of its current model.
type SessionView struct {
	Session *domain.Session `json:"session"`
	Model   roster.Summary  `json:"model"`
}

// SolveOutcome is the result of a single-mode solve. Snapshot is set only
// when Status is feasible.
type SolveOutcome struct {
	Status   solver.Status    `json:"status"`
	Stats    solver.Stats     `json:"stats"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Model    roster.Summary   `json:"model"`
}

// EnumerateOutcome is the result of a bounded enumeration.
type EnumerateOutcome struct {
	Summary solver.Summary `json:"summary"`
	Model   roster.Summary `json:"model"`
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	driver := deps.Driver
	if driver == nil {
		driver = solver.NewDriver(nil, logger)
	}
	sessions := deps.Sessions
	if sessions == nil {
		sessions = repository.NewMemorySessionRepository()
	}
	return &ScheduleService{
		sessions:   sessions,
		driver:     driver,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		limits:     deps.Solver,
		defaults:   deps.Roster,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// normalize fills rules and extension policy from the service defaults, so a
// stored session replays identically regardless of later default changes.
func (s *ScheduleService) normalize(cfg domain.RosterConfig) domain.RosterConfig {
	out := cfg.Clone()
	if len(out.Rules) == 0 {
		out.Rules = s.defaults.Rules()
	}
	if out.ExtensionPolicy == "" {
		out.ExtensionPolicy = s.defaults.ExtensionPolicy.Effective()
	}
	return out
}

// CreateSession validates cfg by building it and stores version 1.
func (s *ScheduleService) CreateSession(ctx context.Context, cfg domain.RosterConfig) (*SessionView, error) {
	cfg = s.normalize(cfg)
	m, _, err := roster.Build(cfg)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Version:   1,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	summary := roster.Describe(m)
	s.publish(ctx, events.New(events.EventModelBuilt, session.ID, modelBuiltPayload(summary)))
	return &SessionView{Session: session, Model: summary}, nil
}

// GetSession loads a session and summarizes its replayed model.
func (s *ScheduleService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	session, m, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: session, Model: roster.Describe(m)}, nil
}

// AddEmployee appends an employee of category c under the session's
// extension policy and stores the next version.
func (s *ScheduleService) AddEmployee(ctx context.Context, id string, c domain.Category) (*SessionView, domain.Employee, error) {
	session, m, idx, err := s.load(ctx, id)
	if err != nil {
		return nil, domain.Employee{}, err
	}
	next, _, err := roster.Extend(m, idx, c)
	if err != nil {
		return nil, domain.Employee{}, err
	}
	op := domain.Operation{Kind: domain.OperationAddEmployee, Category: c}
	stored, err := s.commit(ctx, session, op)
	if err != nil {
		return nil, domain.Employee{}, err
	}

	emps := next.Employees()
	added := emps[len(emps)-1]
	s.publish(ctx, events.New(events.EventEmployeeAdded, id, events.EmployeeAddedPayload{
		EmployeeID: added.ID,
		Category:   added.Category,
		Policy:     next.Policy(),
		Version:    next.Version(),
	}))
	return &SessionView{Session: stored, Model: roster.Describe(next)}, added, nil
}

// Rebuild folds every employee into coverage and fairness and stores the
// next version.
func (s *ScheduleService) Rebuild(ctx context.Context, id string) (*SessionView, error) {
	session, m, idx, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, _, err := roster.RebuildCoverage(m, idx)
	if err != nil {
		return nil, err
	}
	stored, err := s.commit(ctx, session, domain.Operation{Kind: domain.OperationRebuildCoverage})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventCoverageRebuilt, id, events.CoverageRebuiltPayload{
		Version:   next.Version(),
		Employees: len(next.Employees()),
	}))
	return &SessionView{Session: stored, Model: roster.Describe(next)}, nil
}

// Solve searches one assignment for the session's current model.
func (s *ScheduleService) Solve(ctx context.Context, id string) (*SolveOutcome, error) {
	_, m, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.solve(ctx, id, m)
}

// SolveConfig builds cfg and searches one assignment without a session.
func (s *ScheduleService) SolveConfig(ctx context.Context, cfg domain.RosterConfig) (*SolveOutcome, error) {
	m, _, err := roster.Build(s.normalize(cfg))
	if err != nil {
		return nil, err
	}
	return s.solve(ctx, "", m)
}

// Enumerate streams up to limit solutions of the session's model into sink.
// limit is clamped to the configured bounds.
func (s *ScheduleService) Enumerate(ctx context.Context, id string, limit int, sink solver.Sink) (*EnumerateOutcome, error) {
	_, m, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enumerate(ctx, id, m, limit, sink)
}

// EnumerateConfig is Enumerate for a one-shot configuration.
func (s *ScheduleService) EnumerateConfig(ctx context.Context, cfg domain.RosterConfig, limit int, sink solver.Sink) (*EnumerateOutcome, error) {
	m, _, err := roster.Build(s.normalize(cfg))
	if err != nil {
		return nil, err
	}
	return s.enumerate(ctx, "", m, limit, sink)
}

// ClampLimit exposes the effective limit for a requested one.
func (s *ScheduleService) ClampLimit(requested int) int {
	return s.limits.ClampLimit(requested)
}

func (s *ScheduleService) solve(ctx context.Context, sessionID string, m *roster.Model) (*SolveOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := s.driver.Solve(m)
	if err != nil {
		return nil, err
	}
	out := &SolveOutcome{Status: res.Status, Stats: res.Stats, Model: roster.Describe(m)}
	if snap, ok := res.Snapshot(); ok {
		out.Snapshot = &snap
	}

	delivered := 0
	if out.Snapshot != nil {
		delivered = 1
	}
	s.publish(ctx, events.New(events.EventSearchCompleted, sessionID, searchPayload(modeSolve, solver.Summary{
		Status:    res.Status,
		Delivered: delivered,
		Stats:     res.Stats,
	})))
	return out, nil
}

// enumerate checks ctx between solutions; the solver itself cannot be
// interrupted mid-search.
func (s *ScheduleService) enumerate(ctx context.Context, sessionID string, m *roster.Model, limit int, sink solver.Sink) (*EnumerateOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := s.driver.Stream(m, s.limits.ClampLimit(limit))
	if err != nil {
		return nil, err
	}

	var ctxErr error
	for ordinal, snap := range st.All() {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		s.publish(ctx, events.New(events.EventSolutionFound, sessionID, events.SolutionFoundPayload{
			Ordinal: ordinal,
			Version: m.Version(),
		}))
		if !sink.Receive(ordinal, snap) {
			break
		}
	}

	summary := st.Summary()
	if ctxErr != nil {
		// The solution found after cancellation was never handed out.
		summary.Delivered--
	}
	s.publish(ctx, events.New(events.EventSearchCompleted, sessionID, searchPayload(modeEnumerate, summary)))
	out := &EnumerateOutcome{Summary: summary, Model: roster.Describe(m)}
	if err := st.Err(); err != nil {
		return out, err
	}
	return out, ctxErr
}

// load replays the stored session into its current model.
func (s *ScheduleService) load(ctx context.Context, id string) (*domain.Session, *roster.Model, *roster.VariableIndex, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	m, idx, err := roster.Replay(session.Config, session.Operations)
	if err != nil {
		return nil, nil, nil, err
	}
	return session, m, idx, nil
}

// commit appends op and stores the session at the next version.
func (s *ScheduleService) commit(ctx context.Context, session *domain.Session, op domain.Operation) (*domain.Session, error) {
	next := session.Clone()
	next.Operations = append(next.Operations, op)
	next.Version = session.Version + 1
	next.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, next, session.Version); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *ScheduleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("session_id", event.SessionID),
			zap.Error(err))
	}
}

func modelBuiltPayload(summary roster.Summary) events.ModelBuiltPayload {
	total := 0
	for _, n := range summary.Constraints {
		total += n
	}
	return events.ModelBuiltPayload{
		Version:     summary.Version,
		Employees:   summary.Employees,
		Variables:   summary.Variables,
		Constraints: total,
	}
}

func searchPayload(mode string, summary solver.Summary) events.SearchCompletedPayload {
	return events.SearchCompletedPayload{
		Mode:      mode,
		Status:    summary.Status.String(),
		Solutions: summary.Delivered,
		Stopped:   summary.Stopped,
		Conflicts: summary.Stats.Conflicts,
		Branches:  summary.Stats.Branches,
		WallTime:  summary.Stats.WallTime,
	}
}
