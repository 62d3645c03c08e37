package errors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrSwapNotFound = apperror.New(
		apperror.CodeNotFound,
		"Swap request not found",
		http.StatusNotFound,
	)

	ErrSelfSwap = apperror.New(
		apperror.CodeInvalidInput,
		"Requester and recipient must be different employees",
		http.StatusBadRequest,
	)

	ErrRecipientNotEligible = apperror.New(
		apperror.CodeInvalidInput,
		"Recipient must be an active employee with a linked user account",
		http.StatusUnprocessableEntity,
	)

	ErrNotShiftOwner = apperror.New(
		apperror.CodeForbidden,
		"The named shift does not belong to that employee",
		http.StatusForbidden,
	)

	ErrShiftNotSwappable = apperror.New(
		apperror.CodeInvalidState,
		"The named shift is already completed or cancelled",
		http.StatusConflict,
	)

	ErrInvalidSwapTransition = apperror.New(
		apperror.CodeInvalidState,
		"Swap request status transition is not allowed",
		http.StatusConflict,
	)

	ErrNotAllowedToRespond = apperror.New(
		apperror.CodeForbidden,
		"Only the recipient or a managerial role may respond to this swap",
		http.StatusForbidden,
	)

	ErrNotAllowedToComplete = apperror.New(
		apperror.CodeForbidden,
		"Only a managerial role may complete a swap",
		http.StatusForbidden,
	)
)
