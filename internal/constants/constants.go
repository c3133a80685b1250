package constants

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyTokenID holds the jti of the bearer token used for the request, if any
	ContextKeyTokenID = "token_id"
	// ContextKeyTaskID holds the parsed :id route parameter
	ContextKeyTaskID = "task_id"
	// ContextKeyRequestID holds the request correlation ID
	ContextKeyRequestID = "request_id"

	SessionCookieName = "charity_session"
	RequestIDHeader   = "X-Request-ID"
)

const (
	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Field limits mirrored from the database schema
const (
	MaxUsernameLength     = 150
	MaxPhoneLength        = 15
	MaxCharityNameLength  = 50
	MaxTaskTitleLength    = 60
	MaxSmallIntValue      = 32767
	RegistrationNumberLen = 10
)
