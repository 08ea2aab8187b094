// Package repl drives a ledger counter from a numbered text menu.
package repl

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
)

// Account and counter used when Options leaves them empty
const (
	DefaultAddress = types.Address("user1")
	DefaultCounter = "default"
)

// Menu choices
const (
	ChoiceIncrement = "1"
	ChoiceDecrement = "2"
	ChoiceExit      = "3"
)

// Options selects the account and counter the loop works on
type Options struct {
	Address types.Address
	Counter string
	NoColor bool // never color error lines
}

func (o *Options) applyDefaults() {
	if o.Address == "" {
		o.Address = DefaultAddress
	}
	if o.Counter == "" {
		o.Counter = DefaultCounter
	}
}

// Run creates the counter and then serves the menu until the user exits.
// It returns nil on exit and an error wrapping core.ErrIO when input can no
// longer be read.
func Run(ledger types.Ledger, in LineReader, out io.Writer, opts Options) error {
	opts.applyDefaults()

	errColor := color.New(color.FgRed)
	if opts.NoColor {
		errColor.DisableColor()
	}

	fmt.Fprintln(out, "Simple Counter DApp")
	fmt.Fprintln(out, "-------------------")

	if err := ledger.CreateCounter(opts.Address, opts.Counter); err != nil {
		return fmt.Errorf("failed to create counter %s: %w", opts.Counter, err)
	}

	for {
		value, ok := ledger.GetCounter(opts.Address, opts.Counter)
		if !ok {
			value = 0
		}
		fmt.Fprintf(out, "\nCurrent counter value: %d\n", value)
		printMenu(out)

		line, err := in.ReadLine()
		if err != nil {
			return core.NewIOError("failed to read line", err)
		}

		var opErr error
		switch choice := strings.TrimSpace(line); choice {
		case ChoiceIncrement:
			opErr = ledger.IncrementCounter(opts.Address, opts.Counter)
		case ChoiceDecrement:
			opErr = ledger.DecrementCounter(opts.Address, opts.Counter)
		case ChoiceExit:
			slog.Debug("loop exit", "address", opts.Address, "counter", opts.Counter, "value", value)
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice")
			slog.Debug("invalid choice", "input", choice)
		}
		if opErr != nil {
			errColor.Fprintf(out, "Error: %s\n", opErr)
		}
	}
}

func printMenu(out io.Writer) {
	fmt.Fprintln(out, "Choose an action:")
	fmt.Fprintln(out, "1. Increment counter")
	fmt.Fprintln(out, "2. Decrement counter")
	fmt.Fprintln(out, "3. Exit")
}
