package constants

// Context keys
const (
	ContextKeyUser     = "user"
	ContextKeyIdentity = "identity"
)

// Authentication
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
	MinPasswordLength   = 6
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Blob keys
const (
	ProfilePicturePrefix = "profile-pictures"
	ProfilePictureField  = "profile_picture"
)
