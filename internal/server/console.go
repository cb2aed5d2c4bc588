package server

import (
	"context"
	"io"
	"time"

	"termshell/internal/shell"
	"termshell/internal/transport"
	"termshell/pkg/logging"
)

// RunConsole runs a local session on in and out until ctx is cancelled, the
// input ends, or the user runs exit.
func RunConsole(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	newHooks, err := hooksFactory(opts.Config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prompts := newPromptUpdates()
	if w := watchConfig(opts.ConfigPath, prompts); w != nil {
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	stream := transport.NewStream("console", in, out)
	defer stream.Stop()

	cfg := sessionConfig(opts.Config, newHooks(), renderPrompt(opts.Config))
	cfg.OnExit = func(*shell.Session) { cancel() }
	session := shell.New(opts.Registry, cfg)
	if err := session.Begin(stream, opts.Config.HistorySize, shell.ModeLocal); err != nil {
		return err
	}
	defer session.End()
	logging.Info("Console", "Console session %s started", session.ID())

	ticker := time.NewTicker(pollInterval(opts.Config))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-prompts:
			session.SetPrompt(p)
		case <-ticker.C:
			if !stream.Connected() {
				logging.Info("Console", "Input closed")
				return nil
			}
			session.Loop()
		}
	}
}
