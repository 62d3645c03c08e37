package errors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Employee is already clocked in for today",
		http.StatusConflict,
	)

	ErrNoActiveSession = apperror.New(
		apperror.CodeInvalidState,
		"No active session found for today",
		http.StatusConflict,
	)

	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"Attendance record was modified concurrently, retry the operation",
		http.StatusConflict,
	)

	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee id",
		http.StatusBadRequest,
	)
)
