package memory

import (
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
)

// account is the in-memory record behind an Account handle
type account struct {
	addr     types.Address
	balance  uint64
	counters map[string]int64
}

// ledgerContext implements the map-backed ledger
type ledgerContext struct {
	accounts map[types.Address]*account
	mu       sync.Mutex
}

func init() {
	context.Register(context.MemoryContextType, NewLedger)
}

// NewLedger creates an empty in-memory ledger. params are ignored.
func NewLedger(params map[string]any) (types.Ledger, error) {
	return &ledgerContext{
		accounts: make(map[types.Address]*account),
	}, nil
}

// getOrCreate must be called with mu held
func (ctx *ledgerContext) getOrCreate(addr types.Address) *account {
	acc, exists := ctx.accounts[addr]
	if !exists {
		acc = &account{
			addr:     addr,
			balance:  types.StartingBalance,
			counters: make(map[string]int64),
		}
		ctx.accounts[addr] = acc
		ctx.Log("AccountCreated", "address", addr, "balance", acc.balance)
	}
	return acc
}

// GetOrCreateAccount gets the account, creating it on first reference
func (ctx *ledgerContext) GetOrCreateAccount(addr types.Address) (types.Account, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return &accountHandle{ctx: ctx, acc: ctx.getOrCreate(addr)}, nil
}

// CreateCounter sets the counter to zero, overwriting any previous value
func (ctx *ledgerContext) CreateCounter(addr types.Address, name string) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	acc := ctx.getOrCreate(addr)
	acc.counters[name] = 0
	ctx.Log("CounterCreated", "address", addr, "counter", name)
	return nil
}

// IncrementCounter adds one to an existing counter
func (ctx *ledgerContext) IncrementCounter(addr types.Address, name string) error {
	return ctx.add(addr, name, 1, "CounterIncremented")
}

// DecrementCounter subtracts one from an existing counter
func (ctx *ledgerContext) DecrementCounter(addr types.Address, name string) error {
	return ctx.add(addr, name, -1, "CounterDecremented")
}

func (ctx *ledgerContext) add(addr types.Address, name string, delta int64, event string) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	acc := ctx.getOrCreate(addr)
	value, exists := acc.counters[name]
	if !exists {
		return core.NewCounterNotFound(name)
	}
	acc.counters[name] = value + delta
	ctx.Log(event, "address", addr, "counter", name, "old_value", value, "new_value", value+delta)
	return nil
}

// GetCounter reads a counter without creating the account
func (ctx *ledgerContext) GetCounter(addr types.Address, name string) (int64, bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	acc, exists := ctx.accounts[addr]
	if !exists {
		return 0, false
	}
	value, exists := acc.counters[name]
	return value, exists
}

// Accounts lists known addresses
func (ctx *ledgerContext) Accounts() []types.Address {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	addrs := make([]types.Address, 0, len(ctx.accounts))
	for addr := range ctx.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (ctx *ledgerContext) Close() error {
	return nil
}

// Log records ledger events
func (ctx *ledgerContext) Log(eventName string, keyValues ...any) {
	params := []any{
		"backend", context.MemoryContextType,
		"event", eventName,
	}
	params = append(params, keyValues...)
	slog.Debug("Ledger event", params...)
}

// accountHandle implements the Account interface
type accountHandle struct {
	ctx *ledgerContext
	acc *account
}

func (h *accountHandle) Address() types.Address {
	return h.acc.addr
}

func (h *accountHandle) Balance() uint64 {
	h.ctx.mu.Lock()
	defer h.ctx.mu.Unlock()
	return h.acc.balance
}

func (h *accountHandle) Counter(name string) (int64, bool) {
	h.ctx.mu.Lock()
	defer h.ctx.mu.Unlock()
	value, exists := h.acc.counters[name]
	return value, exists
}

func (h *accountHandle) SetCounter(name string, value int64) error {
	h.ctx.mu.Lock()
	defer h.ctx.mu.Unlock()
	h.acc.counters[name] = value
	return nil
}

func (h *accountHandle) Counters() map[string]int64 {
	h.ctx.mu.Lock()
	defer h.ctx.mu.Unlock()
	return maps.Clone(h.acc.counters)
}
