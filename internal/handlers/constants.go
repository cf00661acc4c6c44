package handlers

const (
	KidSessionCookieName = "kid_session_id"
	CSRFTokenHeader      = "X-CSRF-Token"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
)
