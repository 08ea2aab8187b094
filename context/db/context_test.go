package db

import (
	"testing"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/context/ledgertest"
	"github.com/govm-net/counter/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Context {
	l, err := NewContext(nil)
	require.NoError(t, err)
	return l.(*Context)
}

func TestLedger(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) types.Ledger {
		return setupTestDB(t)
	})
}

func TestRegistered(t *testing.T) {
	l, err := context.Get(context.DBContextType, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	assert.IsType(t, &Context{}, l)
}

func TestDatabasesAreIsolated(t *testing.T) {
	a := setupTestDB(t)
	b := setupTestDB(t)
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})

	require.NoError(t, a.CreateCounter("user1", "default"))
	_, ok := b.GetCounter("user1", "default")
	assert.False(t, ok)
	assert.Empty(t, b.Accounts())
}

func TestNamedDatabase(t *testing.T) {
	l, err := NewContext(map[string]any{"db_name": "named-ledger-test"})
	require.NoError(t, err)
	ctx := l.(*Context)
	t.Cleanup(func() { _ = ctx.Close() })
	assert.Equal(t, "named-ledger-test", ctx.name)

	require.NoError(t, ctx.CreateCounter("user1", "default"))
	require.NoError(t, ctx.IncrementCounter("user1", "default"))

	var rows []DBCounter
	require.NoError(t, ctx.db.Find(&rows).Error)
	assert.Equal(t, []DBCounter{{Address: "user1", Name: "default", Value: 1}}, rows)

	var acc DBAccount
	require.NoError(t, ctx.db.Where("address = ?", "user1").First(&acc).Error)
	assert.Equal(t, types.StartingBalance, acc.Balance)
}

func TestSetCounterThroughHandle(t *testing.T) {
	ctx := setupTestDB(t)
	t.Cleanup(func() { _ = ctx.Close() })

	acc, err := ctx.GetOrCreateAccount("user1")
	require.NoError(t, err)
	require.NoError(t, acc.SetCounter("a", -5))
	require.NoError(t, acc.SetCounter("a", 3))
	require.NoError(t, acc.SetCounter("b", 0))

	assert.Equal(t, map[string]int64{"a": 3, "b": 0}, acc.Counters())
}
