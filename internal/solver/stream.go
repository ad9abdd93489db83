package solver

import (
	"errors"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/roster"
)

// ErrStreamConsumed is reported by a Stream ranged over more than once.
var ErrStreamConsumed = errors.New("solution stream already consumed")

// Summary describes a finished enumeration.
type Summary struct {
	Status    Status `json:"status"`
	Delivered int    `json:"delivered"`
	Limit     int    `json:"limit"`
	// Stopped is true when the search ended before exhausting the
	// solution space, because the limit was reached or the consumer quit.
	Stopped bool  `json:"stopped"`
	Stats   Stats `json:"stats"`
}

// Stream is a lazy, finite, non-restartable sequence of snapshots.
type Stream struct {
	driver  *Driver
	model   *roster.Model
	problem Problem
	limit   int

	used    bool
	summary Summary
	err     error
}

// Stream prepares an enumeration of at most limit solutions of m; limit <= 0
// means every solution. The model is validated here, so a malformed model
// fails before the solver is reached.
func (d *Driver) Stream(m *roster.Model, limit int) (*Stream, error) {
	p, err := NewProblem(m)
	if err != nil {
		d.logger.Error("model rejected", zap.Int("version", modelVersion(m)), zap.Error(err))
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	return &Stream{
		driver:  d,
		model:   m,
		problem: p,
		limit:   limit,
		summary: Summary{Status: StatusUnsolved, Limit: limit},
	}, nil
}

// All yields (ordinal, snapshot) pairs in discovery order, starting at 1.
// Breaking out of the loop stops the search. Ranging a second time yields
// nothing and sets Err to ErrStreamConsumed.
func (s *Stream) All() iter.Seq2[int, domain.Snapshot] {
	return func(yield func(int, domain.Snapshot) bool) {
		if s.used {
			s.err = ErrStreamConsumed
			return
		}
		s.used = true

		start := time.Now()
		delivered := 0
		stopped := false
		status, stats, err := s.driver.capability.Enumerate(s.problem, func(values []bool) bool {
			delivered++
			snap := project(s.model, values)
			s.driver.logger.Debug("solution found",
				zap.Int("version", s.model.Version()),
				zap.Int("ordinal", delivered),
			)
			if !yield(delivered, snap) {
				stopped = true
				return false
			}
			if s.limit > 0 && delivered >= s.limit {
				stopped = true
				return false
			}
			return true
		})
		if stats.WallTime == 0 {
			stats.WallTime = time.Since(start)
		}

		s.err = err
		s.summary = Summary{
			Status:    status,
			Delivered: delivered,
			Limit:     s.limit,
			Stopped:   stopped,
			Stats:     stats,
		}
		fields := []zap.Field{
			zap.Int("version", s.model.Version()),
			zap.String("status", status.String()),
			zap.Int("solutions", delivered),
			zap.Bool("stopped", stopped),
			zap.Int("conflicts", stats.Conflicts),
			zap.Int("branches", stats.Branches),
			zap.Duration("wall_time", stats.WallTime),
		}
		if err != nil {
			s.driver.logger.Error("enumeration failed", append(fields, zap.Error(err))...)
			return
		}
		s.driver.logger.Info("search completed", fields...)
	}
}

// Summary is valid once All has finished.
func (s *Stream) Summary() Summary { return s.summary }

// Err returns the solver fault, if any, that ended the stream.
func (s *Stream) Err() error { return s.err }

// Enumerate streams up to limit solutions of m into sink.
func (d *Driver) Enumerate(m *roster.Model, limit int, sink Sink) (Summary, error) {
	st, err := d.Stream(m, limit)
	if err != nil {
		return Summary{}, err
	}
	for ordinal, snap := range st.All() {
		if !sink.Receive(ordinal, snap) {
			break
		}
	}
	return st.Summary(), st.Err()
}
