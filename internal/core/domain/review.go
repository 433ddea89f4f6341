package domain

import (
	"fmt"
	"time"
)

const (
	MinScore = 1
	MaxScore = 10
)

// ValidateScore checks a review score against the 1..10 range.
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: score must be between %d and %d", ErrInvalidInput, MinScore, MaxScore)
	}
	return nil
}

// Review is a scored write-up of a title. Each author may review a given
// title at most once.
type Review struct {
	ID      string    `json:"id"`
	TitleID string    `json:"-"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// Comment is attached to a review.
type Comment struct {
	ID       string    `json:"id"`
	ReviewID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
