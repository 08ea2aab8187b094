package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/govm-net/counter/context/memory"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T) types.Ledger {
	l, err := memory.NewLedger(nil)
	require.NoError(t, err)
	return l
}

func run(t *testing.T, ledger types.Ledger, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Run(ledger, NewReader(strings.NewReader(input)), &out, Options{NoColor: true})
	return out.String(), err
}

const menu = "Choose an action:\n1. Increment counter\n2. Decrement counter\n3. Exit\n"

func TestRunTranscript(t *testing.T) {
	out, err := run(t, newLedger(t), "1\n2\n3\n")
	require.NoError(t, err)

	want := "Simple Counter DApp\n-------------------\n" +
		"\nCurrent counter value: 0\n" + menu +
		"\nCurrent counter value: 1\n" + menu +
		"\nCurrent counter value: 0\n" + menu
	assert.Equal(t, want, out)
}

func TestRunCounts(t *testing.T) {
	ledger := newLedger(t)
	out, err := run(t, ledger, "1\n1\n 1 \n2\n2\n2\n2\n2\n3\n")
	require.NoError(t, err)

	v, ok := ledger.GetCounter(DefaultAddress, DefaultCounter)
	require.True(t, ok)
	assert.Equal(t, int64(-2), v)
	assert.Contains(t, out, "Current counter value: 3\n")
	assert.Contains(t, out, "Current counter value: -2\n")
}

func TestRunInvalidChoice(t *testing.T) {
	ledger := newLedger(t)
	out, err := run(t, ledger, "4\n\nhello\n1\n3\n")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "Invalid choice\n"))
	v, _ := ledger.GetCounter(DefaultAddress, DefaultCounter)
	assert.Equal(t, int64(1), v)
}

func TestRunExitStopsReading(t *testing.T) {
	ledger := newLedger(t)
	_, err := run(t, ledger, "3\n1\n1\n")
	require.NoError(t, err)

	v, _ := ledger.GetCounter(DefaultAddress, DefaultCounter)
	assert.Equal(t, int64(0), v)
}

func TestRunLastLineWithoutNewline(t *testing.T) {
	_, err := run(t, newLedger(t), "1\r\n3")
	assert.NoError(t, err)
}

func TestRunReadFailure(t *testing.T) {
	ledger := newLedger(t)
	_, err := run(t, ledger, "1\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIO)
	assert.ErrorIs(t, err, io.EOF)

	v, _ := ledger.GetCounter(DefaultAddress, DefaultCounter)
	assert.Equal(t, int64(1), v)
}

func TestRunResetsExistingCounter(t *testing.T) {
	ledger := newLedger(t)
	require.NoError(t, ledger.CreateCounter(DefaultAddress, DefaultCounter))
	require.NoError(t, ledger.IncrementCounter(DefaultAddress, DefaultCounter))

	out, err := run(t, ledger, "3\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Current counter value: 0\n")
}

func TestRunCustomTarget(t *testing.T) {
	ledger := newLedger(t)
	var out bytes.Buffer
	err := Run(ledger, NewReader(strings.NewReader("1\n3\n")), &out, Options{
		Address: "alice",
		Counter: "clicks",
		NoColor: true,
	})
	require.NoError(t, err)

	v, ok := ledger.GetCounter("alice", "clicks")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
	_, ok = ledger.GetCounter(DefaultAddress, DefaultCounter)
	assert.False(t, ok)
}

// vanishingLedger loses its counters after creation
type vanishingLedger struct {
	types.Ledger
}

func (v vanishingLedger) IncrementCounter(addr types.Address, name string) error {
	return core.NewCounterNotFound(name)
}

func (v vanishingLedger) DecrementCounter(addr types.Address, name string) error {
	return core.NewCounterNotFound(name)
}

func (v vanishingLedger) GetCounter(addr types.Address, name string) (int64, bool) {
	return 0, false
}

func TestRunReportsCounterErrors(t *testing.T) {
	out, err := run(t, vanishingLedger{newLedger(t)}, "1\n2\n3\n")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "Error: Counter 'default' not found\n"))
	assert.Equal(t, 3, strings.Count(out, "Current counter value: 0\n"))
}

type failingCreate struct {
	types.Ledger
}

func (failingCreate) CreateCounter(types.Address, string) error {
	return errors.New("disk on fire")
}

func TestRunCreateFailure(t *testing.T) {
	_, err := run(t, failingCreate{newLedger(t)}, "3\n")
	assert.ErrorContains(t, err, "disk on fire")
}
