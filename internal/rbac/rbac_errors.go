package rbac

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var ErrUnknownRole = apperror.New(
	apperror.CodeInvalidInput,
	"Unknown role",
	http.StatusBadRequest,
)
