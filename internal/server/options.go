package server

import (
	"fmt"
	"time"

	"termshell/internal/config"
	"termshell/internal/login"
	"termshell/internal/shell"
	"termshell/pkg/logging"
)

// Options configure a driver.
type Options struct {
	// Config supplies the session settings.
	Config config.TermshellConfig

	// Registry holds the commands sessions dispatch to.
	Registry *shell.Registry

	// ConfigPath, if set, is watched for changes; a reloaded prompt is
	// applied to the running session.
	ConfigPath string
}

// hooksFactory returns a constructor for per-session hooks: login hooks when
// login is enabled, the plain shell otherwise.
func hooksFactory(cfg config.TermshellConfig) (func() shell.Hooks, error) {
	if !cfg.Login.Enabled {
		return func() shell.Hooks { return shell.DefaultHooks{} }, nil
	}
	check, err := login.BcryptCheck(cfg.Login.Username, cfg.Login.PasswordHash, cfg.Login.UID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return func() shell.Hooks {
		return login.New(cfg.MachineName, check, cfg.Login.FailureDelay)
	}, nil
}

// renderPrompt expands the configured prompt, falling back to the default
// when the template cannot be rendered.
func renderPrompt(cfg config.TermshellConfig) string {
	prompt, err := cfg.RenderPrompt()
	if err != nil {
		logging.Warn("Server", "Cannot render prompt %q, using default: %v", cfg.Prompt, err)
		return config.DefaultPrompt
	}
	return prompt
}

func pollInterval(cfg config.TermshellConfig) time.Duration {
	if cfg.PollInterval <= 0 {
		return config.DefaultPollInterval
	}
	return cfg.PollInterval
}

func sessionConfig(cfg config.TermshellConfig, hooks shell.Hooks, prompt string) shell.Config {
	return shell.Config{
		LineSize:        cfg.LineSize,
		MaxBytesPerLoop: cfg.MaxBytesPerLoop,
		IdleTimeout:     cfg.IdleTimeout,
		Prompt:          prompt,
		Hooks:           hooks,
	}
}

// promptUpdates carries reloaded prompts to the goroutine that owns the
// session. Only the latest value matters.
type promptUpdates chan string

func newPromptUpdates() promptUpdates {
	return make(promptUpdates, 1)
}

func (p promptUpdates) push(prompt string) {
	for {
		select {
		case p <- prompt:
			return
		default:
		}
		select {
		case <-p:
		default:
		}
	}
}

// watchConfig returns a watcher that feeds p, or nil if there is nothing to watch.
func watchConfig(configPath string, p promptUpdates) *config.Watcher {
	if configPath == "" {
		return nil
	}
	return config.NewWatcher(config.WatcherConfig{
		ConfigPath: configPath,
		OnChange: func(cfg config.TermshellConfig) {
			logging.Info("Server", "Configuration reloaded")
			p.push(renderPrompt(cfg))
		},
	})
}
