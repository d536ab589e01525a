package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPrompt fingerprints prompt text with SHA-256 so repeat submissions
// can be correlated without retaining the full text.
//
// Returns an empty string if the prompt is empty.
func HashPrompt(prompt string) string {
	if prompt == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(prompt))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// HashIdentity redacts an API-key identity by hashing it with SHA-256.
// This prevents storing API keys in plaintext while still allowing
// per-caller history queries.
//
// The hash cannot be reversed, so the original key cannot be recovered
// from a history record.
//
// Returns an empty string if the identity is empty.
func HashIdentity(identity string) string {
	if identity == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(identity))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// TruncateString truncates a string to the specified maximum length.
// If the string is longer than maxLen, it is truncated and "..." is appended.
//
// Returns the original string if it's shorter than maxLen.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
