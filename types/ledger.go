// Package types contains shared type definitions and constants
// used by the ledger backends and their callers
package types

// StartingBalance is the balance every account is created with
const StartingBalance uint64 = 100

// Address identifies an account. Any string is accepted.
type Address string

func (addr Address) String() string {
	return string(addr)
}

// Account is a handle to one account held by a Ledger. Changes made through
// the handle are visible to the ledger immediately.
type Account interface {
	Address() Address                          // Get account address
	Balance() uint64                           // Get account balance
	Counter(name string) (int64, bool)         // Get counter value, false if absent
	SetCounter(name string, value int64) error // Create or overwrite a counter
	Counters() map[string]int64                // Copy of all counters
}

// Ledger is the collection of all accounts for the lifetime of the process
type Ledger interface {
	// GetOrCreateAccount returns the account for addr, creating it with
	// StartingBalance and no counters when it does not exist yet
	GetOrCreateAccount(addr Address) (Account, error)

	// Counter operations; every mutating call creates the account first
	CreateCounter(addr Address, name string) error    // Set counter to 0, overwriting
	IncrementCounter(addr Address, name string) error // Add 1 to an existing counter
	DecrementCounter(addr Address, name string) error // Subtract 1 from an existing counter

	// GetCounter never creates anything. Unknown account and unknown counter
	// both report false.
	GetCounter(addr Address, name string) (int64, bool)

	Accounts() []Address // Known addresses, sorted
	Close() error
}
