package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/govm-net/counter/config"
	"github.com/govm-net/counter/printer"
	"github.com/spf13/cobra"
)

const defaultMessage = "Hello, world!"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "message-printer [message...]",
	Short: "Print a message in a box",
	Long: `Prints the given words, joined by spaces, inside a rounded box on
standard output. Without arguments it prints "Hello, world!".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := config.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(config.NewLogger(os.Stderr, level))

		msg := defaultMessage
		if len(args) > 0 {
			msg = strings.Join(args, " ")
		}
		p := printer.New(cmd.OutOrStdout(), nil)
		if err := p.Print(msg); err != nil {
			slog.Error("print failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
