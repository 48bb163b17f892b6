package constants

import "time"

// Context keys
const (
	ContextKeyUser      = "user"
	ContextKeyToken     = "token"
	ContextKeyRequestID = "request_id"
)

// Validation rules
const (
	MinPasswordLength = 7
	MaxPasswordBytes  = 72
	ForbiddenPassword = "password"
	PasswordHashCost  = 8
)

// Avatar upload
const (
	AvatarFormField       = "avatar"
	DefaultMaxAvatarBytes = 1000000
)

const (
	ServiceName     = "task-manager-api"
	RequestIDHeader = "X-Request-Id"
	HealthTimeout   = 2 * time.Second
)
