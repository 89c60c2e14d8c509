package comment

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the content ceiling in characters.
const DefaultMaxLength = 5000

var (
	ErrMissingContent     = errors.New("content is required")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrContentTooLong     = errors.New("content too long")
	ErrStorageUnavailable = errors.New("comment storage unavailable")
)

// Validate checks raw submitted content. raw is nil when the field was absent.
// It returns the trimmed text on success. Invalid UTF-8 sequences are replaced
// with U+FFFD before any check.
func Validate(raw *string, maxLen int) (string, error) {
	if raw == nil {
		return "", ErrMissingContent
	}
	s := strings.TrimSpace(strings.ToValidUTF8(*raw, "\uFFFD"))
	if s == "" {
		return "", ErrEmptyContent
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", ErrContentTooLong
	}
	return s, nil
}
