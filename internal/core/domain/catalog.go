package domain

import (
	"fmt"
	"regexp"
	"time"
)

const maxSlugLength = 50

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateSlug checks a category or genre slug: non-empty, at most
// 50 characters, letters, digits, hyphen and underscore only.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: slug must not be empty", ErrInvalidInput)
	}
	if len(slug) > maxSlugLength {
		return fmt.Errorf("%w: slug longer than %d characters", ErrInvalidInput, maxSlugLength)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug may contain only letters, digits, - and _", ErrInvalidInput)
	}
	return nil
}

// ValidateYear rejects negative years and years in the future.
func ValidateYear(year int) error {
	if year < 0 {
		return fmt.Errorf("%w: year must not be negative", ErrInvalidInput)
	}
	if year > time.Now().UTC().Year() {
		return fmt.Errorf("%w: year %d is in the future", ErrInvalidInput, year)
	}
	return nil
}

// Category groups titles by medium (books, films, music).
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Genre tags titles; a title may carry several genres.
type Genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Title is a catalogued work. Rating is the average review score, nil when
// the title has no reviews yet.
type Title struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Genres      []Genre   `json:"genre"`
	Rating      *float64  `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}
