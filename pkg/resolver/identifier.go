package resolver

import "strings"

// ValidateIdentifier checks if id can be safely joined with a root directory
func ValidateIdentifier(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidIdentifier
	}

	if strings.Contains(id, "..") || strings.ContainsAny(id, "/\\\x00") {
		return ErrInvalidIdentifier
	}

	return nil
}
