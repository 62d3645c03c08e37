package errors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Shift status transition is not allowed",
		http.StatusConflict,
	)

	ErrPatternNotFound = apperror.New(
		apperror.CodeNotFound,
		"Shift pattern not found",
		http.StatusNotFound,
	)

	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"Shift not found",
		http.StatusNotFound,
	)

	ErrNotShiftAssignee = apperror.New(
		apperror.CodeForbidden,
		"Only the assigned employee may acknowledge this shift",
		http.StatusForbidden,
	)

	ErrInvalidWeeks = apperror.New(
		apperror.CodeInvalidInput,
		"Weeks to generate must be between 1 and 52",
		http.StatusBadRequest,
	)

	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"At least one employee is required",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End time must be after start time",
		http.StatusBadRequest,
	)
)
