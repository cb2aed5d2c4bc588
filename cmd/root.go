package cmd

import (
	"errors"
	"os"

	"termshell/internal/config"
	"termshell/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the configuration could not be read or is invalid.
	ExitCodeConfig = 2
)

var (
	// configPath is the directory holding config.yaml.
	configPath string

	// logLevel overrides the configured log level when set.
	logLevel string
)

// versionTemplate renders --version the same way as the version subcommand.
const versionTemplate = `{{printf "termshell version %s\n" .Version}}`

// rootCmd represents the base command for the termshell application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "termshell",
	Short: "A small line-oriented command shell for consoles and telnet",
	Long: `termshell is a small command shell with line editing, history and
a fixed set of registered commands. It runs on the local terminal or serves
a single telnet client at a time, optionally behind a login prompt.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(versionTemplate)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var configErr config.ConfigurationError
	if errors.As(err, &configErr) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

// loadConfig reads the configuration selected by --config-path, applies the
// --log-level override and returns the directory it was read from.
func loadConfig() (config.TermshellConfig, string, logging.LogLevel, error) {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.TermshellConfig{}, "", logging.LevelInfo, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.TermshellConfig{}, "", level,
			config.NewConfigurationError(config.ConfigFilePath(path), config.ErrorTypeValidation, "invalid log level", err)
	}
	return cfg, path, level, nil
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory (default is $HOME/.config/termshell)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides the configuration)")
}
