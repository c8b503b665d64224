package model

import (
	"accessrating-backend/internal/shared/apperror"
)

const (
	CodeInvalidFilter = "DIR001"
)

func NewInvalidFilterError(err error) *apperror.Error {
	return apperror.FromValidation(CodeInvalidFilter, err)
}
