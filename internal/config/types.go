package config

import "time"

// TermshellConfig is the top-level configuration structure for termshell.
type TermshellConfig struct {
	Prompt          string        `yaml:"prompt,omitempty"`          // Prompt template (text/template with sprig functions)
	MachineName     string        `yaml:"machineName,omitempty"`     // Shown before "login: "
	LineSize        int           `yaml:"lineSize,omitempty"`        // Line buffer size in bytes
	HistorySize     int           `yaml:"historySize"`               // Lines kept for recall; 0 disables history
	MaxBytesPerLoop int           `yaml:"maxBytesPerLoop,omitempty"` // Input bytes consumed per poll
	PollInterval    time.Duration `yaml:"pollInterval,omitempty"`    // Delay between polls of an idle session
	IdleTimeout     time.Duration `yaml:"idleTimeout,omitempty"`     // Disconnect after this long without input; 0 disables
	LogLevel        string        `yaml:"logLevel,omitempty"`        // debug, info, warn or error
	Listen          string        `yaml:"listen,omitempty"`          // Telnet listen address for serve
	Login           LoginConfig   `yaml:"login"`
}

// LoginConfig configures the login prompt in front of the shell.
type LoginConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Username     string        `yaml:"username,omitempty"`
	PasswordHash string        `yaml:"passwordHash,omitempty"` // bcrypt hash
	UID          int           `yaml:"uid,omitempty"`          // User ID recorded on success
	FailureDelay time.Duration `yaml:"failureDelay,omitempty"` // Input is ignored this long after a failure
}
