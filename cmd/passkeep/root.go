package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/cli"
	"github.com/passkeep/passkeep/internal/config"
	"github.com/passkeep/passkeep/internal/logging"
	"github.com/passkeep/passkeep/pkg/crypto"
	"github.com/passkeep/passkeep/pkg/store"
	"github.com/passkeep/passkeep/pkg/vault"
)

var (
	homeDir string
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "passkeep",
	Short: "passkeep is a local password vault",
	Long: `A local secrets vault with per-account master passwords.

Entries are encrypted at rest with a key derived from the master password;
nothing ever leaves the local database.`,
	SilenceUsage: true,
	// PersistentPreRunE runs before the root command and all subcommands.
	// This resolves the passkeep home directory and loads the config file.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		homeDir, err = config.HomeDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(homeDir, 0700); err != nil {
			return fmt.Errorf("failed to create passkeep directory: %w", err)
		}
		cfg, err = config.Load(homeDir)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deleteAccountCmd)
	rootCmd.AddCommand(generateCmd)
}

// newLogger builds the shared logger: warnings and errors to stderr, debug
// included with --verbose.
func newLogger() logging.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.NewSlogLogger(slog.New(handler))
}

// openEngine opens the record store and builds the vault engine on top.
// The returned store must be closed by the caller.
func openEngine() (*vault.Engine, *store.SQLite, error) {
	log := newLogger()
	st, err := store.Open(cfg.DatabasePath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vault database: %w", err)
	}
	return vault.New(st, vault.WithLogger(log)), st, nil
}

// login prompts for credentials and authenticates against the engine.
func login(ctx context.Context, e *vault.Engine) (*vault.Session, error) {
	name, err := cli.ReadLine("Username: ")
	if err != nil {
		return nil, err
	}

	password, err := cli.ReadPassword("Master password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(password)

	session, err := e.Authenticate(ctx, name, string(password))
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return session, nil
}
