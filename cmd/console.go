package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"termshell/internal/server"
	"termshell/pkg/logging"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// consoleLogFile receives log output while the terminal is in use by the shell.
var consoleLogFile string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the shell on this terminal",
	Long: `Runs a shell session on the local terminal. The terminal is switched to
raw mode so the shell does its own line editing; it is restored on exit.

Typing exit, or closing the input, ends the program. Logs go to --log-file
when given; otherwise only warnings and errors are written to stderr.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, path, level, err := loadConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = os.Stderr
	if consoleLogFile != "" {
		f, err := os.OpenFile(consoleLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	} else if level < logging.LevelWarn {
		level = logging.LevelWarn
	}
	logging.InitForCLI(level, logOut)

	registry, err := newRegistry()
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if readline.IsTerminal(fd) {
		state, err := readline.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to switch terminal to raw mode: %w", err)
		}
		defer func() {
			if err := readline.Restore(fd, state); err != nil {
				logging.Warn("Console", "Cannot restore terminal: %v", err)
			}
		}()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts := server.Options{Config: cfg, Registry: registry, ConfigPath: path}
	return server.RunConsole(ctx, opts, os.Stdin, cmd.OutOrStdout())
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().StringVar(&consoleLogFile, "log-file", "", "Write logs to this file")
}
