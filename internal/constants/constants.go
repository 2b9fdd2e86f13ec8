package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600
)

// Retry defaults.
const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the delay before the first retry. Each further
	// retry doubles it.
	DefaultRetryBaseDelay = 1000 * time.Millisecond

	// ExponentialBackoffBase is the multiplier applied per retry attempt.
	ExponentialBackoffBase = 2
)

// Session defaults.
const (
	// DefaultTokenTTL is how long a stored token is kept when the token itself
	// carries no expiry hint.
	DefaultTokenTTL = 7 * 24 * time.Hour

	// DefaultSessionSubject is the NATS subject used to relay session
	// invalidation to other console processes.
	DefaultSessionSubject = "agriconsole.session.unauthorized"
)

// HTTP header names and values.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
	HeaderRequestID     = "X-Request-ID"

	ContentTypeJSON  = "application/json"
	BearerPrefix     = "Bearer "
	DefaultUserAgent = "agriconsole-go/1.0"
)

// Messages surfaced to callers.
const (
	// MsgUnauthorized is the terminal message for every 401 response.
	MsgUnauthorized = "Invalid or expired token"
)

// API paths.
const (
	APIPathAuth         = "/auth"
	APIPathFarmers      = "/farmers"
	APIPathPurchases    = "/purchases"
	APIPathLoans        = "/loans"
	APIPathStaff        = "/staff"
	APIPathTransactions = "/transactions"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// UI and display constants.
const (
	// NotAvailable is shown for empty table cells.
	NotAvailable = "N/A"

	// MaskedSecret replaces secrets in displayed output.
	MaskedSecret = "***"

	// TokenPreviewLength is how many leading characters of a token are shown.
	TokenPreviewLength = 12
)
