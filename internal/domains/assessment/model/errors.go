package model

import (
	"errors"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeNotVisible     = access.CodeNotVisible
	ErrCodeIncomplete     = "ASM002"
	ErrCodeInvalidState   = "ASM003"
	ErrCodeNotFound       = "ASM004"
	ErrCodeValidation     = "ASM005"
	ErrCodeReasonRequired = "ASM006"
)

// Repository sentinels
var (
	ErrNotFound     = errors.New("assessment not found")
	ErrStateChanged = errors.New("assessment state changed concurrently")
)

func NewNotFoundError() *apperror.Error {
	return apperror.NotFound(ErrCodeNotFound, "Assessment not found")
}

func NewInvalidStateError(current State, action string) *apperror.Error {
	message := "Cannot " + action + " an assessment in state " + string(current)
	if current.IsTerminal() {
		message = "Cannot " + action + " an assessment that is already " + string(current)
	}
	return apperror.InvalidState(ErrCodeInvalidState, message).
		WithDetails(map[string]string{"state": string(current)})
}

func NewIncompleteError(missing map[string]error) *apperror.Error {
	details := make(map[string]string, len(missing))
	for field, err := range missing {
		details[field] = err.Error()
	}
	return apperror.Validation(ErrCodeIncomplete, "Assessment needs a proposed rating and a report before submission").
		WithDetails(details)
}
