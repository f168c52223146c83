package constants

import "time"

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Timeouts
const (
	DefaultTimeout  = 5 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Redis keys
const (
	RedisKeyLoginAttempt   = "login_attempt:"
	RedisKeyTokenBlacklist = "token_blacklist:"
	RedisChannelEvents     = "events:changed"
)

// Login lockout
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

// OAuth state tokens expire after this window.
const OAuthStateTTL = 10 * time.Minute

// Asynq task types
const (
	TaskSignupConfirmation = "signup:confirmation"
	TaskEventReminder      = "event:reminder"
)

// Reminder lead time before an event starts.
const ReminderLeadTime = 24 * time.Hour

// NearlyFullThreshold is the progress ratio at which an event is flagged
// as nearly full.
const NearlyFullThreshold = 0.8
