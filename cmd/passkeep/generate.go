package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/passkeep/passkeep/pkg/crypto"
)

// Character group constants
const (
	charsetLowercase = "abcdefghijklmnopqrstuvwxyz"
	charsetUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetDigits    = "0123456789"

	minPasswordLength = 1
	maxPasswordLength = 256
	maxPasswordCount  = 100
)

// Generate command flags
var (
	generateLength      int
	generateCount       int
	generateNoSymbols   bool
	generateNoNumbers   bool
	generateNoUppercase bool
	generateNoLowercase bool
	generateExclude     string
)

func init() {
	generateCmd.Flags().IntVarP(&generateLength, "length", "l", 0, "Password length (default from config, 30)")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of passwords to generate (1-100)")
	generateCmd.Flags().BoolVar(&generateNoSymbols, "no-symbols", false, "Exclude symbols")
	generateCmd.Flags().BoolVar(&generateNoNumbers, "no-numbers", false, "Exclude numbers")
	generateCmd.Flags().BoolVar(&generateNoUppercase, "no-uppercase", false, "Exclude uppercase letters")
	generateCmd.Flags().BoolVar(&generateNoLowercase, "no-lowercase", false, "Exclude lowercase letters")
	generateCmd.Flags().StringVar(&generateExclude, "exclude", "", "Characters to exclude")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate secure random passwords",
	Long: `Generate cryptographically secure random passwords.

The default character set covers all printable ASCII characters.

Examples:
  # Generate a 30-character password (default)
  passkeep generate

  # Generate a 32-character password without symbols
  passkeep generate -l 32 --no-symbols

  # Generate 5 passwords
  passkeep generate -n 5

  # Generate a password excluding ambiguous characters
  passkeep generate --exclude "0O1lI"`,
	RunE: executeGenerate,
}

func executeGenerate(cmd *cobra.Command, args []string) error {
	length := generateLength
	if length == 0 {
		length = cfg.Generator.Length
	}

	if err := validateGenerateFlags(length); err != nil {
		return err
	}

	charset, err := buildCharset()
	if err != nil {
		return err
	}

	for i := 0; i < generateCount; i++ {
		password, err := crypto.GeneratePassword(length, charset)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
		fmt.Println(password)
	}

	return nil
}

// validateGenerateFlags validates the generate command flags
func validateGenerateFlags(length int) error {
	if length < minPasswordLength {
		return fmt.Errorf("password length must be at least %d character", minPasswordLength)
	}
	if length > maxPasswordLength {
		return fmt.Errorf("password length must be at most %d characters", maxPasswordLength)
	}
	if generateCount < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if generateCount > maxPasswordCount {
		return fmt.Errorf("count must be at most %d", maxPasswordCount)
	}
	return nil
}

// buildCharset narrows the configured character set based on flags
func buildCharset() (string, error) {
	charset := cfg.Generator.Charset

	if generateNoLowercase {
		charset = removeChars(charset, charsetLowercase)
	}
	if generateNoUppercase {
		charset = removeChars(charset, charsetUppercase)
	}
	if generateNoNumbers {
		charset = removeChars(charset, charsetDigits)
	}
	if generateNoSymbols {
		charset = keepChars(charset, charsetLowercase+charsetUppercase+charsetDigits)
	}
	if generateExclude != "" {
		charset = removeChars(charset, generateExclude)
	}

	if charset == "" {
		return "", fmt.Errorf("character set is empty: adjust flags to include at least one character type")
	}

	return charset, nil
}

// removeChars removes specified characters from a string
func removeChars(s, chars string) string {
	var result strings.Builder
	for _, c := range s {
		if !strings.ContainsRune(chars, c) {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// keepChars keeps only the specified characters in a string
func keepChars(s, chars string) string {
	var result strings.Builder
	for _, c := range s {
		if strings.ContainsRune(chars, c) {
			result.WriteRune(c)
		}
	}
	return result.String()
}
