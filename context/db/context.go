package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DBAccount represents an account in database
type DBAccount struct {
	Address string `gorm:"column:address;primaryKey;size:255"`
	Balance uint64 `gorm:"column:balance;not null"`
}

// TableName specifies the table name for DBAccount
func (DBAccount) TableName() string {
	return "accounts"
}

// DBCounter represents a named counter of an account
type DBCounter struct {
	Address string `gorm:"column:address;primaryKey;size:255"`
	Name    string `gorm:"column:name;primaryKey;size:255"`
	Value   int64  `gorm:"column:value;not null"`
}

// TableName specifies the table name for DBCounter
func (DBCounter) TableName() string {
	return "counters"
}

// Context implements the Ledger interface using SQLite with GORM.
// The database lives in memory and disappears with the process.
type Context struct {
	db   *gorm.DB
	name string
}

func init() {
	context.Register(context.DBContextType, NewContext)
}

// NewContext creates a new SQLite-backed ledger. The optional "db_name"
// param names the in-memory database; a random name is used otherwise.
func NewContext(params map[string]any) (types.Ledger, error) {
	if params == nil {
		params = make(map[string]any)
	}
	name := uuid.NewString()
	if n, ok := params["db_name"].(string); ok && n != "" {
		name = n
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection keeps the shared in-memory database alive and serialises writes
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := &Context{db: db, name: name}
	if err := ctx.initDB(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return ctx, nil
}

func (c *Context) initDB() error {
	if err := c.db.AutoMigrate(&DBAccount{}, &DBCounter{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (c *Context) getOrCreate(tx *gorm.DB, addr types.Address) (*DBAccount, error) {
	var acc DBAccount
	result := tx.Where("address = ?", addr.String()).Limit(1).Find(&acc)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get account: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return &acc, nil
	}

	acc = DBAccount{
		Address: addr.String(),
		Balance: types.StartingBalance,
	}
	if err := tx.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	c.Log("AccountCreated", "address", addr, "balance", acc.Balance)
	return &acc, nil
}

// GetOrCreateAccount implements types.Ledger
func (c *Context) GetOrCreateAccount(addr types.Address) (types.Account, error) {
	acc, err := c.getOrCreate(c.db, addr)
	if err != nil {
		return nil, err
	}
	return &Account{ctx: c, addr: types.Address(acc.Address)}, nil
}

// CreateCounter implements types.Ledger
func (c *Context) CreateCounter(addr types.Address, name string) error {
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if _, err := c.getOrCreate(tx, addr); err != nil {
			return err
		}
		return c.setCounter(tx, addr, name, 0)
	})
	if err != nil {
		return err
	}
	c.Log("CounterCreated", "address", addr, "counter", name)
	return nil
}

func (c *Context) setCounter(tx *gorm.DB, addr types.Address, name string, value int64) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}, {Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{"value": value}),
	}).Create(&DBCounter{Address: addr.String(), Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to set counter: %w", err)
	}
	return nil
}

// IncrementCounter implements types.Ledger
func (c *Context) IncrementCounter(addr types.Address, name string) error {
	return c.add(addr, name, 1, "CounterIncremented")
}

// DecrementCounter implements types.Ledger
func (c *Context) DecrementCounter(addr types.Address, name string) error {
	return c.add(addr, name, -1, "CounterDecremented")
}

func (c *Context) add(addr types.Address, name string, delta int64, event string) error {
	var (
		counter  DBCounter
		notFound bool
	)
	// the account must survive even when the counter is missing, so a missing
	// counter commits instead of rolling back
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if _, err := c.getOrCreate(tx, addr); err != nil {
			return err
		}
		result := tx.Where("address = ? AND name = ?", addr.String(), name).First(&counter)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			notFound = true
			return nil
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get counter: %w", result.Error)
		}
		if err := tx.Model(&DBCounter{}).Where("address = ? AND name = ?", addr.String(), name).
			Update("value", counter.Value+delta).Error; err != nil {
			return fmt.Errorf("failed to update counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if notFound {
		return core.NewCounterNotFound(name)
	}
	c.Log(event, "address", addr, "counter", name, "old_value", counter.Value, "new_value", counter.Value+delta)
	return nil
}

// GetCounter implements types.Ledger
func (c *Context) GetCounter(addr types.Address, name string) (int64, bool) {
	return c.counter(addr, name)
}

func (c *Context) counter(addr types.Address, name string) (int64, bool) {
	var counter DBCounter
	result := c.db.Where("address = ? AND name = ?", addr.String(), name).Limit(1).Find(&counter)
	if result.Error != nil {
		slog.Error("Failed to get counter", "address", addr, "counter", name, "error", result.Error)
		return 0, false
	}
	if result.RowsAffected == 0 {
		return 0, false
	}
	return counter.Value, true
}

// Accounts implements types.Ledger
func (c *Context) Accounts() []types.Address {
	var addrs []string
	if err := c.db.Model(&DBAccount{}).Order("address").Pluck("address", &addrs).Error; err != nil {
		slog.Error("Failed to list accounts", "error", err)
		return nil
	}
	out := make([]types.Address, len(addrs))
	for i, a := range addrs {
		out[i] = types.Address(a)
	}
	return out
}

// Close releases the database; its contents are gone afterwards
func (c *Context) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Log records ledger events
func (c *Context) Log(eventName string, keyValues ...any) {
	params := []any{
		"backend", context.DBContextType,
		"db", c.name,
		"event", eventName,
	}
	params = append(params, keyValues...)
	slog.Debug("Ledger event", params...)
}

// Account implements the types.Account interface
type Account struct {
	ctx  *Context
	addr types.Address
}

func (a *Account) Address() types.Address {
	return a.addr
}

func (a *Account) Balance() uint64 {
	var acc DBAccount
	result := a.ctx.db.Where("address = ?", a.addr.String()).Limit(1).Find(&acc)
	if result.Error != nil {
		slog.Error("Failed to get balance", "address", a.addr, "error", result.Error)
		return 0
	}
	return acc.Balance
}

func (a *Account) Counter(name string) (int64, bool) {
	return a.ctx.counter(a.addr, name)
}

func (a *Account) SetCounter(name string, value int64) error {
	return a.ctx.setCounter(a.ctx.db, a.addr, name, value)
}

func (a *Account) Counters() map[string]int64 {
	var rows []DBCounter
	counters := make(map[string]int64)
	if err := a.ctx.db.Where("address = ?", a.addr.String()).Find(&rows).Error; err != nil {
		slog.Error("Failed to list counters", "address", a.addr, "error", err)
		return counters
	}
	for _, row := range rows {
		counters[row.Name] = row.Value
	}
	return counters
}
