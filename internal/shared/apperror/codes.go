package apperror

// Wire codes carried in the response envelope's error object. Clients
// branch on these strings, so they are part of the API contract.
// INVALID_STATE covers a well-formed request against the wrong lifecycle
// state (deciding a decided leave, completing a pending swap); CONFLICT
// covers duplicate writes such as a double clock-in.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeInvalidState = "INVALID_STATE"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// 5xx; the envelope never carries internal error detail.
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
