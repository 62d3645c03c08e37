package errors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidManagerCode = apperror.New(
		apperror.CodeInvalidInput,
		"Manager code must look like MGR-12345",
		http.StatusBadRequest,
	)

	ErrManagerNotFound = apperror.New(
		apperror.CodeNotFound,
		"No manager exists with that code",
		http.StatusNotFound,
	)

	ErrCodeSpaceExhausted = apperror.New(
		apperror.CodeInternalError,
		"Could not generate a unique manager code",
		http.StatusInternalServerError,
	)
)
