// Package config loads the passkeep configuration file.
//
// The file is optional YAML at <home>/config.yaml inside the passkeep home
// directory (PASSKEEP_HOME, defaulting to ~/.passkeep). Absent file or absent
// fields fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/passkeep/passkeep/pkg/crypto"
)

// Default file names inside the passkeep home directory.
const (
	ConfigFileName = "config.yaml"
	DBFileName     = "passkeep.db"
	homeDirName    = ".passkeep"
	envHome        = "PASSKEEP_HOME"
)

// Generator holds password generator defaults.
type Generator struct {
	// Length of generated passwords.
	Length int `yaml:"length"`
	// Charset generated passwords are drawn from.
	Charset string `yaml:"charset"`
}

// Config is the resolved passkeep configuration.
type Config struct {
	// DatabasePath locates the SQLite vault database.
	DatabasePath string `yaml:"database_path"`
	// Generator configures the password generator defaults.
	Generator Generator `yaml:"generator"`
}

// HomeDir returns the passkeep home directory: $PASSKEEP_HOME if set,
// otherwise ~/.passkeep.
func HomeDir() (string, error) {
	if dir := os.Getenv(envHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get user home directory: %w", err)
	}
	return filepath.Join(home, homeDirName), nil
}

// Default returns the configuration used when no config file exists,
// anchored at the given passkeep home directory.
func Default(homeDir string) *Config {
	return &Config{
		DatabasePath: filepath.Join(homeDir, DBFileName),
		Generator: Generator{
			Length:  crypto.DefaultPasswordLength,
			Charset: crypto.DefaultPasswordCharset,
		},
	}
}

// Load reads the config file under homeDir, overlaying it on the defaults.
// A missing file is not an error; a malformed one is.
func Load(homeDir string) (*Config, error) {
	cfg := Default(homeDir)

	data, err := os.ReadFile(filepath.Join(homeDir, ConfigFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse config file: %w", err)
	}

	// Re-apply defaults for fields the file left empty.
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(homeDir, DBFileName)
	}
	if cfg.Generator.Length == 0 {
		cfg.Generator.Length = crypto.DefaultPasswordLength
	}
	if cfg.Generator.Charset == "" {
		cfg.Generator.Charset = crypto.DefaultPasswordCharset
	}

	return cfg, nil
}
