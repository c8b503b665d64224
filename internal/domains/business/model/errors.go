package model

import (
	"errors"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeBusinessNotFound = "BUS001"
	ErrCodeValidation       = "BUS002"
	ErrCodeAdminOnlyField   = "BUS003"
	ErrCodeAlreadyClaimed   = access.CodeAlreadyClaimed
	ErrCodePhotoValidation  = "BUS005"
)

// Repository sentinels
var (
	ErrNotFound       = errors.New("business not found")
	ErrAlreadyClaimed = errors.New("business already claimed")
)

func NewNotFoundError() *apperror.Error {
	return apperror.NotFound(ErrCodeBusinessNotFound, "Business not found")
}

func NewAlreadyClaimedError() *apperror.Error {
	return apperror.Conflict(ErrCodeAlreadyClaimed, "Business has already been claimed")
}

func NewAdminOnlyFieldError(field string) *apperror.Error {
	return apperror.Permission(ErrCodeAdminOnlyField, "Only administrators may change "+field)
}
