package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/cli"
	"github.com/passkeep/passkeep/pkg/crypto"
	"github.com/passkeep/passkeep/pkg/search"
	"github.com/passkeep/passkeep/pkg/vault"
)

// Entry command flags
var (
	addGenerate bool
)

func init() {
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false, "Generate the secret instead of prompting for it")
}

// addCmd stores a new credential entry.
var addCmd = &cobra.Command{
	Use:   "add [website] [username]",
	Short: "Add a credential entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		website, username := args[0], args[1]

		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := login(cmd.Context(), engine)
		if err != nil {
			return err
		}
		defer session.Close()

		var secret string
		if addGenerate {
			secret, err = crypto.GeneratePassword(cfg.Generator.Length, cfg.Generator.Charset)
			if err != nil {
				return fmt.Errorf("failed to generate password: %w", err)
			}
		} else {
			secretBytes, err := cli.ReadPassword("Secret: ")
			if err != nil {
				return err
			}
			defer crypto.SecureWipe(secretBytes)
			secret = string(secretBytes)
		}

		id, err := engine.AddEntry(cmd.Context(), session, username, website, secret)
		if err != nil {
			if errors.Is(err, vault.ErrDuplicateEntry) {
				return fmt.Errorf("an entry for %s @ %s already exists", username, website)
			}
			return fmt.Errorf("failed to add entry: %w", err)
		}

		fmt.Printf("Entry %d saved\n", id)
		return nil
	},
}

// showCmd decrypts and prints one secret.
var showCmd = &cobra.Command{
	Use:   "show [website] [username]",
	Short: "Reveal the secret of one entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		website, username := args[0], args[1]

		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := login(cmd.Context(), engine)
		if err != nil {
			return err
		}
		defer session.Close()

		secret, err := engine.RevealEntry(cmd.Context(), session, username, website)
		if err != nil {
			switch {
			case errors.Is(err, vault.ErrEntryNotFound):
				return fmt.Errorf("no entry for %s @ %s", username, website)
			case errors.Is(err, crypto.ErrDecryptionFailed):
				return fmt.Errorf("entry for %s @ %s is corrupted: %w", username, website, err)
			}
			return fmt.Errorf("failed to reveal entry: %w", err)
		}

		fmt.Println(secret)
		return nil
	},
}

// listCmd prints all entries of the account, secrets excluded.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := login(cmd.Context(), engine)
		if err != nil {
			return err
		}
		defer session.Close()

		entries, err := engine.Entries(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries stored")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%d\t%s\t%s\n", e.ID, e.Website, e.Username)
		}
		return nil
	},
}

// searchCmd fuzzy-searches the account's entries.
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy-search entries by website and username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := login(cmd.Context(), engine)
		if err != nil {
			return err
		}
		defer session.Close()

		entries, err := engine.Entries(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		results := search.Rank(entries, query)
		if len(results) == 0 {
			fmt.Println("No matching entries")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%d\t%s\t%s\n", r.Entry.ID, r.Entry.Website, r.Entry.Username)
		}
		return nil
	},
}

// editCmd rewrites an entry in place.
var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an entry by id",
	Long: `Edit an entry by id, replacing website, username and secret.

Use 'passkeep list' to find the id. The secret is re-encrypted even when
left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}

		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := login(cmd.Context(), engine)
		if err != nil {
			return err
		}
		defer session.Close()

		website, err := cli.ReadLine("Website: ")
		if err != nil {
			return err
		}
		username, err := cli.ReadLine("Username: ")
		if err != nil {
			return err
		}
		secretBytes, err := cli.ReadPassword("Secret: ")
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(secretBytes)

		err = engine.EditEntry(cmd.Context(), session, id, username, website, string(secretBytes))
		if err != nil {
			switch {
			case errors.Is(err, vault.ErrEntryNotFound):
				return fmt.Errorf("no entry with id %d", id)
			case errors.Is(err, vault.ErrDuplicateEntry):
				return fmt.Errorf("another entry for %s @ %s already exists", username, website)
			}
			return fmt.Errorf("failed to edit entry: %w", err)
		}

		fmt.Printf("Entry %d updated\n", id)
		return nil
	},
}

// deleteCmd removes one entry.
var deleteCmd = &cobra.Command{
	Use:   "delete [website] [username]",
	Short: "Delete one entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		website, username := args[0], args[1]

		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := login(cmd.Context(), engine)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := engine.DeleteEntry(cmd.Context(), session, username, website); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("Entry for %s @ %s deleted\n", username, website)
		return nil
	},
}
