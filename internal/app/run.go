package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Run parses args and executes the resulting cobra command.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelInfo)

	// Local lazy instance keeps repeated Run calls in tests independent.
	lazy := &LazyManager{}

	rootCmd := NewRootCmd(lazy, logLevel, stderr)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors is set on the root command, so print it ourselves.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	return nil
}
