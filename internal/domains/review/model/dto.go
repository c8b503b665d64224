package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest; sentiment is mandatory whatever else is sent.
type CreateReviewRequest struct {
	Sentiment string   `json:"sentiment"`
	Comment   *string  `json:"comment"`
	Photos    []string `json:"photos"`
}

func (r *CreateReviewRequest) Normalize() {
	r.Sentiment = strings.ToLower(strings.TrimSpace(r.Sentiment))
	if r.Comment != nil {
		c := strings.TrimSpace(*r.Comment)
		if c == "" {
			r.Comment = nil
		} else {
			r.Comment = &c
		}
	}
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Sentiment,
			validation.Required.Error("sentiment is required"),
			validation.In(Sentiments()...).Error("must be positive, neutral or negative"),
		),
		validation.Field(&r.Comment, validation.Length(0, MaxCommentLength)),
		validation.Field(&r.Photos,
			validation.Length(0, MaxPhotos).Error("maximum 5 photos allowed"),
			validation.Each(validation.Required, is.URL),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	BusinessID   uuid.UUID `json:"business_id"`
	AuthorID     uuid.UUID `json:"author_id"`
	Sentiment    Sentiment `json:"sentiment"`
	Comment      *string   `json:"comment,omitempty"`
	Photos       []string  `json:"photos"`
	HelpfulCount int       `json:"helpful_count"`
	UserHasVoted bool      `json:"user_has_voted"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Review) ToResponse() ReviewResponse {
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	return ReviewResponse{
		ID:           r.ID,
		BusinessID:   r.BusinessID,
		AuthorID:     r.AuthorID,
		Sentiment:    r.Sentiment,
		Comment:      r.Comment,
		Photos:       photos,
		HelpfulCount: r.HelpfulCount,
		UserHasVoted: r.ViewerVoted,
		CreatedAt:    r.CreatedAt,
	}
}
