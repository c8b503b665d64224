package model

import (
	"errors"

	"accessrating-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeReviewNotFound  = "REV001"
	ErrCodeAlreadyReviewed = "REV002"
	ErrCodeValidation      = "REV003"
)

// Repository sentinels
var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrAlreadyReviewed  = errors.New("already reviewed this business")
	ErrBusinessNotFound = errors.New("business not found")
)

func NewReviewNotFoundError() *apperror.Error {
	return apperror.NotFound(ErrCodeReviewNotFound, "Review not found")
}

func NewAlreadyReviewedError() *apperror.Error {
	return apperror.Conflict(ErrCodeAlreadyReviewed, "You have already reviewed this business")
}
