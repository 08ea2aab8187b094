// Package ledgertest holds the behaviour every types.Ledger backend must show.
// Backend packages call Run from their own tests.
package ledgertest

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty ledger for one subtest
type Factory func(t *testing.T) types.Ledger

// Run executes the full suite against ledgers built by newLedger
func Run(t *testing.T, newLedger Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, l types.Ledger)
	}{
		{"GetOrCreateIsIdempotent", testGetOrCreateIsIdempotent},
		{"AccountHandleIsLive", testAccountHandleIsLive},
		{"CreateCounterStartsAtZero", testCreateCounterStartsAtZero},
		{"CreateCounterOverwrites", testCreateCounterOverwrites},
		{"IncrementDecrementSequence", testIncrementDecrementSequence},
		{"MissingCounter", testMissingCounter},
		{"GetCounterAbsent", testGetCounterAbsent},
		{"MutationCreatesAccount", testMutationCreatesAccount},
		{"Scenarios", testScenarios},
		{"EventsLogAtDebug", testEventsLogAtDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger(t)
			t.Cleanup(func() { _ = l.Close() })
			tt.fn(t, l)
		})
	}
}

func testGetOrCreateIsIdempotent(t *testing.T, l types.Ledger) {
	acc, err := l.GetOrCreateAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, types.Address("alice"), acc.Address())
	assert.Equal(t, types.StartingBalance, acc.Balance())
	assert.Empty(t, acc.Counters())

	require.NoError(t, l.CreateCounter("alice", "c"))
	require.NoError(t, l.IncrementCounter("alice", "c"))

	again, err := l.GetOrCreateAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, types.StartingBalance, again.Balance())
	assert.Equal(t, map[string]int64{"c": 1}, again.Counters())
	assert.Equal(t, []types.Address{"alice"}, l.Accounts())
}

func testAccountHandleIsLive(t *testing.T, l types.Ledger) {
	acc, err := l.GetOrCreateAccount("bob")
	require.NoError(t, err)
	require.NoError(t, acc.SetCounter("votes", 41))

	v, ok := l.GetCounter("bob", "votes")
	assert.True(t, ok)
	assert.Equal(t, int64(41), v)

	require.NoError(t, l.IncrementCounter("bob", "votes"))
	v, ok = acc.Counter("votes")
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok = acc.Counter("nope")
	assert.False(t, ok)
}

func testCreateCounterStartsAtZero(t *testing.T, l types.Ledger) {
	for _, name := range []string{"default", "", "with space", "ünïcode"} {
		require.NoError(t, l.CreateCounter("user1", name))
		v, ok := l.GetCounter("user1", name)
		assert.True(t, ok, name)
		assert.Equal(t, int64(0), v, name)
	}
}

func testCreateCounterOverwrites(t *testing.T, l types.Ledger) {
	require.NoError(t, l.CreateCounter("user1", "c"))
	for i := 0; i < 7; i++ {
		require.NoError(t, l.IncrementCounter("user1", "c"))
	}
	require.NoError(t, l.CreateCounter("user1", "c"))

	v, ok := l.GetCounter("user1", "c")
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)
}

func testIncrementDecrementSequence(t *testing.T, l types.Ledger) {
	require.NoError(t, l.CreateCounter("user1", "c"))
	steps := []int{+1, +1, -1, -1, -1, -1, +1, -1, -1, +1}
	var want int64
	for _, s := range steps {
		if s > 0 {
			require.NoError(t, l.IncrementCounter("user1", "c"))
		} else {
			require.NoError(t, l.DecrementCounter("user1", "c"))
		}
		want += int64(s)
		got, ok := l.GetCounter("user1", "c")
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	assert.Equal(t, int64(-2), want)
}

func testMissingCounter(t *testing.T, l types.Ledger) {
	require.NoError(t, l.CreateCounter("user1", "kept"))
	require.NoError(t, l.IncrementCounter("user1", "kept"))

	for _, op := range []func(types.Address, string) error{l.IncrementCounter, l.DecrementCounter} {
		err := op("user1", "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrCounterNotFound))

		var nf *core.CounterNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "missing", nf.Name)
	}

	_, ok := l.GetCounter("user1", "missing")
	assert.False(t, ok)
	acc, err := l.GetOrCreateAccount("user1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"kept": 1}, acc.Counters())
}

func testGetCounterAbsent(t *testing.T, l types.Ledger) {
	_, ok := l.GetCounter("ghost", "default")
	assert.False(t, ok)
	assert.Empty(t, l.Accounts(), "reads must not create accounts")

	require.NoError(t, l.CreateCounter("user1", "zero"))
	v, ok := l.GetCounter("user1", "zero")
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)

	_, ok = l.GetCounter("user1", "other")
	assert.False(t, ok)
}

func testMutationCreatesAccount(t *testing.T, l types.Ledger) {
	err := l.DecrementCounter("carol", "x")
	assert.ErrorIs(t, err, core.ErrCounterNotFound)
	assert.Equal(t, []types.Address{"carol"}, l.Accounts())

	acc, err := l.GetOrCreateAccount("carol")
	require.NoError(t, err)
	assert.Equal(t, types.StartingBalance, acc.Balance())
	assert.Empty(t, acc.Counters())
}

func testScenarios(t *testing.T, l types.Ledger) {
	// a counter that was never created
	err := l.IncrementCounter("user1", "missing")
	var nf *core.CounterNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Name)
	_, ok := l.GetCounter("user1", "missing")
	assert.False(t, ok)

	require.NoError(t, l.CreateCounter("user1", "default"))
	v, ok := l.GetCounter("user1", "default")
	require.True(t, ok)
	assert.Equal(t, int64(0), v)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.IncrementCounter("user1", "default"))
	}
	v, _ = l.GetCounter("user1", "default")
	assert.Equal(t, int64(3), v)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.DecrementCounter("user1", "default"))
	}
	v, _ = l.GetCounter("user1", "default")
	assert.Equal(t, int64(-2), v)
}

// captureLogs routes the default logger to a buffer for the rest of the test
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func testEventsLogAtDebug(t *testing.T, l types.Ledger) {
	buf := captureLogs(t, slog.LevelInfo)
	require.NoError(t, l.CreateCounter("user1", "default"))
	require.NoError(t, l.IncrementCounter("user1", "default"))
	assert.Empty(t, buf.String(), "ledger events must stay below info")

	buf = captureLogs(t, slog.LevelDebug)
	require.NoError(t, l.DecrementCounter("user1", "default"))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "event=CounterDecremented")
}
