package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/govm-net/counter/config"
	"github.com/govm-net/counter/repl"
	"github.com/govm-net/counter/types"
	"github.com/govm-net/counter/vm"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "counter-dapp",
	Short: "Simple counter dapp",
	Long: `Keeps named counters for accounts in memory and drives one of them
from a numbered menu: 1 increments, 2 decrements, 3 exits.
Nothing is kept once the program exits.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		level, err := config.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		slog.SetDefault(config.NewLogger(os.Stderr, level))

		var in repl.LineReader
		if isatty.IsTerminal(os.Stdin.Fd()) {
			tr, err := repl.NewTerminalReader("")
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			defer closeLogged(tr, "terminal")
			in = tr
		} else {
			in = repl.NewReader(os.Stdin)
		}

		return runCounter(cfg, in, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (TOML, YAML or JSON)")
	rootCmd.Flags().String("backend", "memory", "Ledger backend: memory or db")
	rootCmd.Flags().String("address", "user1", "Account address driven by the menu")
	rootCmd.Flags().String("counter", "default", "Counter name driven by the menu")
	rootCmd.Flags().String("log-level", "warn", "Log level: debug, info, warn or error")
}

func runCounter(cfg config.Config, in repl.LineReader, out io.Writer) error {
	engine, err := vm.NewEngine(&vm.Config{
		ContextType:   cfg.Ledger.Backend,
		ContextParams: cfg.ContextParams(),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer closeLogged(engine, "engine")

	return repl.Run(engine.Ledger(), in, out, repl.Options{
		Address: types.Address(cfg.Loop.Address),
		Counter: cfg.Loop.Counter,
	})
}

// closeLogged closes c and logs a failure, for use in defer
func closeLogged(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		slog.Error("failed to close", "what", what, "error", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
