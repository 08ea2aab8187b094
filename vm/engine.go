package vm

import (
	"fmt"
	"log/slog"

	"github.com/govm-net/counter/context"
	_ "github.com/govm-net/counter/context/db"
	_ "github.com/govm-net/counter/context/memory"
	"github.com/govm-net/counter/types"
)

// Engine owns the ledger for the lifetime of the process
type Engine struct {
	ledger types.Ledger
}

// Config represents engine configuration
type Config struct {
	ContextType   string         // Ledger backend type, "memory" or "db"
	ContextParams map[string]any // Ledger backend parameters
}

// NewEngine creates a new engine with a fresh, empty ledger
func NewEngine(config *Config) (*Engine, error) {
	// Ensure configuration is valid
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ledger, err := context.Get(context.ContextType(config.ContextType), config.ContextParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	slog.Debug("engine started", "backend", config.ContextType)

	return &Engine{ledger: ledger}, nil
}

func (e *Engine) Ledger() types.Ledger {
	return e.ledger
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.ContextType == "" {
		return nil
	}
	for _, ct := range context.ListRegistered() {
		if string(ct) == config.ContextType {
			return nil
		}
	}
	return fmt.Errorf("unknown ledger backend: %s", config.ContextType)
}

// Close closes the engine and discards the ledger
func (e *Engine) Close() error {
	slog.Debug("engine stopping", "accounts", len(e.ledger.Accounts()))
	if err := e.ledger.Close(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}
	return nil
}
