package solver

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// fakeCapability reports `available` solutions and records how the driver
// drives it.
type fakeCapability struct {
	available    int
	fail         error
	solves       int
	enumerations int
	found        int
}

func (f *fakeCapability) Solve(p Problem) (Status, []bool, Stats, error) {
	f.solves++
	if f.available == 0 {
		return StatusInfeasible, nil, Stats{}, f.fail
	}
	return StatusFeasible, make([]bool, p.NumVars), Stats{Solves: 1}, f.fail
}

func (f *fakeCapability) Enumerate(p Problem, found func([]bool) bool) (Status, Stats, error) {
	f.enumerations++
	for i := 0; i < f.available; i++ {
		f.found++
		if !found(make([]bool, p.NumVars)) {
			return StatusFeasible, Stats{Branches: i + 1}, nil
		}
	}
	if f.fail != nil {
		return StatusUnknown, Stats{}, f.fail
	}
	if f.available == 0 {
		return StatusInfeasible, Stats{}, nil
	}
	return StatusFeasible, Stats{Branches: f.available}, nil
}

func TestStreamStopsAtLimit(t *testing.T) {
	defer goleak.VerifyNone(t)
	fake := &fakeCapability{available: 10}
	st, err := NewDriver(fake, nil).Stream(build(t, restaurant()), 3)
	require.NoError(t, err)

	var ordinals []int
	for ordinal := range st.All() {
		ordinals = append(ordinals, ordinal)
	}
	assert.Equal(t, []int{1, 2, 3}, ordinals)
	assert.Equal(t, 3, fake.found, "the solver is told to stop on the limit-th solution")

	sum := st.Summary()
	assert.Equal(t, StatusFeasible, sum.Status)
	assert.Equal(t, 3, sum.Delivered)
	assert.Equal(t, 3, sum.Limit)
	assert.True(t, sum.Stopped)
	assert.NoError(t, st.Err())
}

func TestStreamConsumerBreakStopsSearch(t *testing.T) {
	defer goleak.VerifyNone(t)
	fake := &fakeCapability{available: 10}
	st, err := NewDriver(fake, nil).Stream(build(t, restaurant()), 0)
	require.NoError(t, err)

	for ordinal := range st.All() {
		if ordinal == 2 {
			break
		}
	}
	assert.Equal(t, 2, fake.found)
	assert.Equal(t, 2, st.Summary().Delivered)
	assert.True(t, st.Summary().Stopped)
}

func TestStreamUnboundedExhaustsSearch(t *testing.T) {
	fake := &fakeCapability{available: 4}
	st, err := NewDriver(fake, nil).Stream(build(t, restaurant()), -1)
	require.NoError(t, err)

	n := 0
	for range st.All() {
		n++
	}
	assert.Equal(t, 4, n)
	assert.False(t, st.Summary().Stopped)
	assert.Zero(t, st.Summary().Limit)
}

func TestStreamIsNotRestartable(t *testing.T) {
	fake := &fakeCapability{available: 2}
	st, err := NewDriver(fake, nil).Stream(build(t, restaurant()), 0)
	require.NoError(t, err)

	for range st.All() {
	}
	again := 0
	for range st.All() {
		again++
	}
	assert.Zero(t, again)
	assert.Equal(t, 1, fake.enumerations)
	assert.ErrorIs(t, st.Err(), ErrStreamConsumed)
}

func TestStreamReportsSolverFault(t *testing.T) {
	boom := errors.New("solver crashed")
	fake := &fakeCapability{available: 1, fail: boom}
	sum, err := NewDriver(fake, nil).Enumerate(build(t, restaurant()), 5, &Collector{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusUnknown, sum.Status)
	assert.Equal(t, 1, sum.Delivered)
}

func TestEnumerateSinkCanStop(t *testing.T) {
	fake := &fakeCapability{available: 10}
	var seen []int
	sum, err := NewDriver(fake, nil).Enumerate(build(t, restaurant()), 0, SinkFunc(func(ordinal int, _ domain.Snapshot) bool {
		seen = append(seen, ordinal)
		return ordinal < 4
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.Equal(t, 4, sum.Delivered)
	assert.True(t, sum.Stopped)
}

func TestEnumerateLimitOneYieldsOneSnapshot(t *testing.T) {
	m := build(t, restaurant())
	c := &Collector{}
	sum, err := NewDriver(nil, nil).Enumerate(m, 1, c)
	require.NoError(t, err)
	require.Len(t, c.Snapshots(), 1)
	assert.Equal(t, StatusFeasible, sum.Status)
	assert.Equal(t, 1, sum.Delivered)
	assert.True(t, sum.Stopped)
	assertLegal(t, m, c.Snapshots()[0])
}

func TestEnumerateDeliversDistinctLegalSolutions(t *testing.T) {
	m := build(t, restaurant())
	c := &Collector{}
	sum, err := NewDriver(nil, nil).Enumerate(m, 5, c)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Delivered)
	assert.GreaterOrEqual(t, sum.Stats.Solves, 5)

	seen := make(map[string]bool)
	for _, snap := range c.Snapshots() {
		assertLegal(t, m, snap)
		raw, err := json.Marshal(snap)
		require.NoError(t, err)
		assert.False(t, seen[string(raw)], "solutions must be distinct")
		seen[string(raw)] = true
	}
}

func TestEnumerateExhaustsSmallSpace(t *testing.T) {
	// Two interchangeable employees over one slot per day for two days.
	m := build(t, domain.RosterConfig{
		EmployeeCount: 2,
		ShiftsPerDay:  1,
		HorizonDays:   2,
		Categories:    []domain.Category{domain.CategoryManager, domain.CategoryManager},
		Rules:         unitRules(),
	})
	c := &Collector{}
	sum, err := NewDriver(nil, nil).Enumerate(m, 0, c)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Delivered)
	assert.False(t, sum.Stopped)
	assert.Equal(t, StatusFeasible, sum.Status)

	sum, err = NewDriver(nil, nil).Enumerate(m, 10, &Collector{})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Delivered, "a limit above the solution count delivers everything")
	assert.False(t, sum.Stopped)
}

func TestEnumerateInfeasible(t *testing.T) {
	m := build(t, domain.RosterConfig{
		EmployeeCount: 2,
		ShiftsPerDay:  3,
		HorizonDays:   7,
		Categories:    []domain.Category{domain.CategoryFullTime, domain.CategoryPartTime},
		Rules:         unitRules(),
	})
	c := &Collector{}
	sum, err := NewDriver(nil, nil).Enumerate(m, 3, c)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sum.Status)
	assert.Zero(t, sum.Delivered)
	assert.Empty(t, c.Snapshots())
}

func TestEnumerateWithoutVariables(t *testing.T) {
	m := build(t, domain.RosterConfig{
		EmployeeCount: 1,
		HorizonDays:   3,
		Categories:    []domain.Category{domain.CategoryPartTime},
	})
	sum, err := NewDriver(nil, nil).Enumerate(m, 0, &Collector{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Delivered, "an empty variable set has exactly one assignment")
	assert.Equal(t, StatusFeasible, sum.Status)
}
