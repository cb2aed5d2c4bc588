package config

import "time"

const (
	DefaultPrompt          = "$ "
	DefaultLineSize        = 64
	DefaultHistorySize     = 5
	DefaultMaxBytesPerLoop = 32
	DefaultPollInterval    = 10 * time.Millisecond
	DefaultLogLevel        = "info"
	DefaultListen          = ":2323"
	DefaultFailureDelay    = 3 * time.Second

	MinLineSize = 8
	MaxLineSize = 1024
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
// Keys missing from a config file keep these values.
func GetDefaultConfig() TermshellConfig {
	return TermshellConfig{
		Prompt:          DefaultPrompt,
		LineSize:        DefaultLineSize,
		HistorySize:     DefaultHistorySize,
		MaxBytesPerLoop: DefaultMaxBytesPerLoop,
		PollInterval:    DefaultPollInterval,
		LogLevel:        DefaultLogLevel,
		Listen:          DefaultListen,
		Login: LoginConfig{
			FailureDelay: DefaultFailureDelay,
		},
	}
}
