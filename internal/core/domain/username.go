package domain

import (
	"fmt"
	"regexp"
)

// reservedUsername backs the /users/me alias route and can never be registered.
const reservedUsername = "me"

const maxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9.@+_-]+$`)

// ValidateUsername checks a candidate username against the registration
// rules: non-empty, at most 150 characters, not the reserved literal "me",
// and composed only of letters, digits and . @ + - _ characters.
func ValidateUsername(candidate string) error {
	if candidate == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidUsername)
	}
	if candidate == reservedUsername {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidUsername, reservedUsername)
	}
	if len(candidate) > maxUsernameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidUsername, maxUsernameLength)
	}
	if !usernamePattern.MatchString(candidate) {
		return fmt.Errorf("%w: only letters, digits and .@+-_ are allowed", ErrInvalidUsername)
	}
	return nil
}
