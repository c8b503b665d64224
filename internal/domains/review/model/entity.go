package model

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is the closed three-valued review classification.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func Sentiments() []interface{} {
	return []interface{}{string(SentimentPositive), string(SentimentNeutral), string(SentimentNegative)}
}

// Review is immutable after creation apart from HelpfulCount, which always
// equals the number of live votes.
type Review struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	AuthorID     uuid.UUID
	Sentiment    Sentiment
	Comment      *string
	Photos       []string
	HelpfulCount int
	CreatedAt    time.Time

	// ViewerVoted is filled per request for listings.
	ViewerVoted bool
}

// VoteResult is the state after a toggle.
type VoteResult struct {
	ReviewID     uuid.UUID `json:"review_id"`
	HelpfulCount int       `json:"helpful_count"`
	UserHasVoted bool      `json:"user_has_voted"`
}
