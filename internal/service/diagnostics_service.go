package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/events"
	"github.com/spec-kit/shift-roster/internal/observability"
)

// DiagnosticsService turns schedule events into log lines and metrics.
type DiagnosticsService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cancels    []func()
}

// NewDiagnosticsService creates the service.
func NewDiagnosticsService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *DiagnosticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticsService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events. Calling it again is a no-op until
// Stop.
func (d *DiagnosticsService) RegisterHandlers() {
	if d.dispatcher == nil || len(d.cancels) > 0 {
		return
	}
	d.cancels = []func(){
		d.dispatcher.Subscribe(events.EventModelBuilt, d.handleModelBuilt),
		d.dispatcher.Subscribe(events.EventEmployeeAdded, d.handleEmployeeAdded),
		d.dispatcher.Subscribe(events.EventCoverageRebuilt, d.handleCoverageRebuilt),
		d.dispatcher.Subscribe(events.EventSolutionFound, d.handleSolutionFound),
		d.dispatcher.Subscribe(events.EventSearchCompleted, d.handleSearchCompleted),
	}
}

// Stop removes the subscriptions made by RegisterHandlers.
func (d *DiagnosticsService) Stop() {
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
}

func (d *DiagnosticsService) handleModelBuilt(_ context.Context, event events.Event) error {
	d.logger.Info("ModelBuilt", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (d *DiagnosticsService) handleEmployeeAdded(_ context.Context, event events.Event) error {
	d.logger.Info("EmployeeAdded", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	d.metrics.RecordExtension()
	return nil
}

func (d *DiagnosticsService) handleCoverageRebuilt(_ context.Context, event events.Event) error {
	d.logger.Info("CoverageRebuilt", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (d *DiagnosticsService) handleSolutionFound(_ context.Context, event events.Event) error {
	d.logger.Debug("SolutionFound", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (d *DiagnosticsService) handleSearchCompleted(_ context.Context, event events.Event) error {
	p, ok := event.Payload.(events.SearchCompletedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	d.metrics.RecordSearch(p.Mode, p.Status, p.Solutions, p.Conflicts, p.Branches, p.WallTime)
	d.logger.Info("SearchCompleted",
		zap.String("session_id", event.SessionID),
		zap.String("mode", p.Mode),
		zap.String("status", p.Status),
		zap.Int("solutions", p.Solutions),
		zap.Bool("stopped", p.Stopped),
		zap.Int("conflicts", p.Conflicts),
		zap.Int("branches", p.Branches),
		zap.Duration("wall_time", p.WallTime))
	return nil
}
