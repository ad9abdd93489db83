package solver

import "github.com/spec-kit/shift-roster/internal/domain"

// Sink receives each discovered snapshot with its 1-based ordinal. Receive
// runs on the search path and returns false to stop the search.
type Sink interface {
	Receive(ordinal int, snap domain.Snapshot) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ordinal int, snap domain.Snapshot) bool

func (f SinkFunc) Receive(ordinal int, snap domain.Snapshot) bool { return f(ordinal, snap) }

// Collector keeps every snapshot it receives.
type Collector struct {
	snapshots []domain.Snapshot
}

func (c *Collector) Receive(_ int, snap domain.Snapshot) bool {
	c.snapshots = append(c.snapshots, snap)
	return true
}

// Snapshots returns the received snapshots in delivery order.
func (c *Collector) Snapshots() []domain.Snapshot {
	return append([]domain.Snapshot(nil), c.snapshots...)
}
