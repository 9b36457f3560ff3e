package constants

// Session/context keys shared between middleware and handlers.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

const (
	SessionName       = "taskboard_session"
	SessionMaxAge     = 86400 * 7 // 7 days
	MinPasswordLength = 8
)
