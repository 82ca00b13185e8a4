package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/internal/cli"
	"github.com/passkeep/passkeep/pkg/crypto"
	"github.com/passkeep/passkeep/pkg/vault"
)

// registerCmd creates a new master account.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new master account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := cli.ReadLine("New username: ")
		if err != nil {
			return err
		}
		if name == "" {
			return errors.New("username must not be empty")
		}

		// 1. Prompt for master password
		password1, err := cli.ReadPassword("New master password: ")
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(password1)
		if len(password1) == 0 {
			return errors.New("password must not be empty")
		}

		// 2. Confirm password
		password2, err := cli.ReadPassword("Confirm master password: ")
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(password2)

		if string(password1) != string(password2) {
			return errors.New("passwords do not match")
		}

		// 3. Create the account
		engine, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		session, err := engine.Register(cmd.Context(), name, string(password1))
		if err != nil {
			if errors.Is(err, vault.ErrUsernameTaken) {
				return fmt.Errorf("username '%s' is already taken", name)
			}
			return fmt.Errorf("failed to register account: %w", err)
		}
		defer session.Close()

		fmt.Printf("Account '%s' registered\n", name)
		return nil
	},
}

// deleteAccountCmd deletes the authenticated account and all its entries.
var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Delete the account and every entry it owns",
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

		// Deletion is destructive, so the password is confirmed again even
		// though the session is already authenticated.
		confirm, err := cli.ReadPassword("Confirm master password to delete this account: ")
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(confirm)

		deleted, err := engine.DeleteAccount(cmd.Context(), session, string(confirm))
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		if !deleted {
			return errors.New("password confirmation failed, account not deleted")
		}

		fmt.Println("Account and all its entries deleted")
		return nil
	},
}
