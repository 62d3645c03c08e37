package errors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be formatted as YYYY-MM",
		http.StatusBadRequest,
	)

	ErrStatisticsNotFound = apperror.New(
		apperror.CodeNotFound,
		"No salary statistics for that employee and month",
		http.StatusNotFound,
	)

	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrMonthAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"Salary for this month has already been paid and cannot be recomputed",
		http.StatusConflict,
	)
)
