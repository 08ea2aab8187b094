package context

import (
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/counter/types"
)

// ContextType represents the type of ledger backend
type ContextType string

const (
	// MemoryContextType represents the map-backed ledger
	MemoryContextType ContextType = "memory"
	// DBContextType represents the ledger backed by a private in-memory SQLite database
	DBContextType ContextType = "db"
)

// ContextConstructor is a function type that creates a new Ledger instance
type ContextConstructor func(params map[string]any) (types.Ledger, error)

// Registry defines the interface for managing Ledger implementations
type Registry interface {
	// Register adds a new Ledger implementation to the registry
	Register(ct ContextType, constructor ContextConstructor) error
	// SetDefault sets the default context type
	SetDefault(ct ContextType) error
	// Get returns a new instance of the specified context type
	Get(ct ContextType, params map[string]any) (types.Ledger, error)
	// GetDefault returns a new instance of the default context type
	GetDefault(params map[string]any) (types.Ledger, error)
	// DefaultContextType returns the current default context type
	DefaultContextType() ContextType
	// ListRegistered returns the registered context types, sorted
	ListRegistered() []ContextType
}

// registry implements the Registry interface
type registry struct {
	mu        sync.RWMutex
	contexts  map[ContextType]ContextConstructor
	defaultCt ContextType
}

var (
	// defaultRegistry is the global singleton registry instance
	defaultRegistry Registry
)

func init() {
	defaultRegistry = NewRegistry()
}

// NewRegistry returns an empty registry
func NewRegistry() Registry {
	return &registry{
		contexts: make(map[ContextType]ContextConstructor),
	}
}

// GetRegistry returns the global Registry instance
func GetRegistry() Registry {
	return defaultRegistry
}

// Register adds a new Ledger implementation to the registry
func (r *registry) Register(ct ContextType, constructor ContextConstructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[ct]; exists {
		return fmt.Errorf("context type %s already registered", ct)
	}

	r.contexts[ct] = constructor
	return nil
}

// SetDefault sets the default context type
func (r *registry) SetDefault(ct ContextType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[ct]; !exists {
		return fmt.Errorf("context type %s not registered", ct)
	}

	r.defaultCt = ct
	return nil
}

// Get returns a new instance of the specified context type
func (r *registry) Get(ct ContextType, params map[string]any) (types.Ledger, error) {
	r.mu.RLock()
	constructor, exists := r.contexts[ct]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("context type %s not found", ct)
	}

	return constructor(params)
}

// GetDefault returns a new instance of the default context type
func (r *registry) GetDefault(params map[string]any) (types.Ledger, error) {
	return r.Get(r.DefaultContextType(), params)
}

// DefaultContextType returns the current default context type
func (r *registry) DefaultContextType() ContextType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultCt == "" {
		return MemoryContextType
	}
	return r.defaultCt
}

// ListRegistered returns the registered context types, sorted
func (r *registry) ListRegistered() []ContextType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ContextType, 0, len(r.contexts))
	for ct := range r.contexts {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Package level functions that delegate to defaultRegistry

// Register adds a new Ledger implementation to the registry
func Register(ct ContextType, constructor ContextConstructor) error {
	return GetRegistry().Register(ct, constructor)
}

// SetDefault sets the default context type
func SetDefault(ct ContextType) error {
	return GetRegistry().SetDefault(ct)
}

// Get returns a new instance of the specified context type.
// An empty type selects the default.
func Get(ct ContextType, params map[string]any) (types.Ledger, error) {
	if ct == "" {
		ct = GetRegistry().DefaultContextType()
	}
	return GetRegistry().Get(ct, params)
}

// GetDefault returns a new instance of the default context type
func GetDefault(params map[string]any) (types.Ledger, error) {
	return GetRegistry().GetDefault(params)
}

// DefaultContextType returns the current default context type
func DefaultContextType() ContextType {
	return GetRegistry().DefaultContextType()
}

// ListRegistered returns a list of all registered context types
func ListRegistered() []ContextType {
	return GetRegistry().ListRegistered()
}
