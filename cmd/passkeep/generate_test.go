package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passkeep/passkeep/internal/config"
)

// resetGenerateFlags restores the generate command state around a test.
func resetGenerateFlags(t *testing.T) {
	t.Helper()
	prevCfg := cfg
	cfg = config.Default(t.TempDir())
	generateLength = 0
	generateCount = 1
	generateNoSymbols = false
	generateNoNumbers = false
	generateNoUppercase = false
	generateNoLowercase = false
	generateExclude = ""
	t.Cleanup(func() {
		cfg = prevCfg
		generateLength = 0
		generateCount = 1
		generateNoSymbols = false
		generateNoNumbers = false
		generateNoUppercase = false
		generateNoLowercase = false
		generateExclude = ""
	})
}

func TestRemoveChars(t *testing.T) {
	assert.Equal(t, "bdf", removeChars("abcdef", "ace"))
	assert.Equal(t, "abcdef", removeChars("abcdef", ""))
	assert.Equal(t, "", removeChars("abc", "abc"))
}

func TestKeepChars(t *testing.T) {
	assert.Equal(t, "ace", keepChars("abcdef", "ace"))
	assert.Equal(t, "", keepChars("abcdef", ""))
	assert.Equal(t, "abc", keepChars("abc", "abcxyz"))
}

func TestBuildCharsetDefault(t *testing.T) {
	resetGenerateFlags(t)

	charset, err := buildCharset()
	require.NoError(t, err)
	assert.Equal(t, cfg.Generator.Charset, charset)
}

func TestBuildCharsetNoSymbols(t *testing.T) {
	resetGenerateFlags(t)
	generateNoSymbols = true

	charset, err := buildCharset()
	require.NoError(t, err)
	assert.Equal(t, charsetLowercase+charsetUppercase+charsetDigits,
		sortedByGroups(charset))
	assert.False(t, strings.ContainsAny(charset, "!@#$%^&*"))
}

// sortedByGroups regroups a charset into lowercase, uppercase, digits for
// order-insensitive comparison.
func sortedByGroups(charset string) string {
	return keepChars(charsetLowercase, charset) +
		keepChars(charsetUppercase, charset) +
		keepChars(charsetDigits, charset)
}

func TestBuildCharsetExclusions(t *testing.T) {
	resetGenerateFlags(t)
	generateNoNumbers = true
	generateNoUppercase = true

	charset, err := buildCharset()
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(charset, charsetDigits))
	assert.False(t, strings.ContainsAny(charset, charsetUppercase))
	assert.True(t, strings.ContainsAny(charset, charsetLowercase))
}

func TestBuildCharsetExcludeAmbiguous(t *testing.T) {
	resetGenerateFlags(t)
	generateExclude = "0O1lI"

	charset, err := buildCharset()
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(charset, "0O1lI"))
	assert.True(t, strings.ContainsAny(charset, "abc"))
}

func TestBuildCharsetEmpty(t *testing.T) {
	resetGenerateFlags(t)
	generateNoSymbols = true
	generateNoNumbers = true
	generateNoUppercase = true
	generateNoLowercase = true

	_, err := buildCharset()
	assert.Error(t, err)
}

func TestValidateGenerateFlags(t *testing.T) {
	resetGenerateFlags(t)

	assert.NoError(t, validateGenerateFlags(30))
	assert.Error(t, validateGenerateFlags(0))
	assert.Error(t, validateGenerateFlags(maxPasswordLength+1))

	generateCount = 0
	assert.Error(t, validateGenerateFlags(30))
	generateCount = maxPasswordCount + 1
	assert.Error(t, validateGenerateFlags(30))
}
