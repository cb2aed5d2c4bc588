package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"termshell/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/termshell"
	configFileName = "config.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// ConfigFilePath returns the path of config.yaml inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from the given directory on top of the
// defaults and validates the result. A missing file yields the defaults.
func LoadConfig(configPath string) (TermshellConfig, error) {
	configFilePath := ConfigFilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return TermshellConfig{}, NewConfigurationError(configFilePath, ErrorTypeIO, "cannot read file", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return TermshellConfig{}, NewConfigurationError(configFilePath, ErrorTypeParse, "malformed YAML", err)
	}
	if err := config.Validate(); err != nil {
		return TermshellConfig{}, NewConfigurationError(configFilePath, ErrorTypeValidation, "invalid configuration", err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
