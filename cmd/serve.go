package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"termshell/internal/commands"
	"termshell/internal/server"
	"termshell/internal/shell"
	"termshell/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	// serveListen overrides the configured listen address.
	serveListen string

	// serveJSONLogs switches the server's log output to JSON lines.
	serveJSONLogs bool

	// serveNoWatch disables reloading the prompt when config.yaml changes.
	serveNoWatch bool
)

// serveCmd runs the telnet server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shell to telnet clients",
	Long: `Starts a telnet server that hands the shell to one client at a time.
A client connecting while another is active is told so and disconnected.

When started by systemd with socket activation the passed socket is used
instead of --listen, and readiness is reported once the server accepts
connections.

Configuration:
  termshell reads config.yaml from --config-path (default $HOME/.config/termshell).
  Changes to the prompt are applied to the running session unless --no-watch is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, path, level, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	logging.InitForServer(level, os.Stderr, serveJSONLogs)

	registry, err := newRegistry()
	if err != nil {
		return err
	}

	listener, err := server.Listen(cfg.Listen)
	if err != nil {
		return err
	}

	opts := server.Options{Config: cfg, Registry: registry}
	if !serveNoWatch {
		opts.ConfigPath = path
	}
	srv, err := server.NewTelnetServer(listener, opts)
	if err != nil {
		_ = listener.Close()
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.NotifyReady()
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("telnet server: %w", err)
	}
	logging.Info("Server", "Shut down")
	return nil
}

// newRegistry builds the command set shared by all sessions of this process.
func newRegistry() (*shell.Registry, error) {
	registry := shell.NewRegistry()
	if err := commands.Register(registry, commands.Environment{Started: time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	return registry, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to accept telnet clients on (overrides the configuration)")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Emit logs as JSON lines")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload the prompt when the configuration changes")
}
