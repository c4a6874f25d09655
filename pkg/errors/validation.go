package errors

import (
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the longest entity name accepted, in bytes.
const MaxNameLength = 32

// MaxAttributeKeyLength is the longest attribute key accepted, in bytes.
const MaxAttributeKeyLength = 128

// ValidateName validates a human-readable entity name.
//
// The validation rules are:
//   - Empty names are allowed (entities are identified by ID, not name)
//   - Maximum length of [MaxNameLength] bytes
//   - Valid UTF-8 without control characters
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return New(CodeInvalidInput, "name too long (max %d bytes): %q", MaxNameLength, name)
	}
	if !utf8.ValidString(name) {
		return New(CodeInvalidInput, "name is not valid UTF-8")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(CodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateAttributeKey validates an attribute map key.
//
// Keys must be non-empty, at most [MaxAttributeKeyLength] bytes, valid
// UTF-8, and free of control characters.
func ValidateAttributeKey(key string) error {
	if key == "" {
		return New(CodeInvalidInput, "attribute key cannot be empty")
	}
	if len(key) > MaxAttributeKeyLength {
		return New(CodeInvalidInput, "attribute key too long (max %d bytes)", MaxAttributeKeyLength)
	}
	if !utf8.ValidString(key) {
		return New(CodeInvalidInput, "attribute key is not valid UTF-8")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(CodeInvalidInput, "attribute key contains invalid control characters")
		}
	}
	return nil
}
