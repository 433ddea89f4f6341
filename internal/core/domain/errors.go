package domain

import "errors"

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrConflict signals that a username or email is already bound to a
	// different identity pairing.
	ErrConflict        = errors.New("identity already registered")
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCode covers both an unknown username and a wrong
	// confirmation code on token exchange, so callers cannot probe for
	// account existence.
	ErrInvalidCode     = errors.New("invalid username or confirmation code")
	ErrDeliveryFailed  = errors.New("confirmation code delivery failed")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrDuplicateReview = errors.New("title already reviewed by this author")
	ErrTooManyRequests = errors.New("too many signup attempts")
)
