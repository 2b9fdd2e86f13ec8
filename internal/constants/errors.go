package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIEndpoint      = errors.New("no API endpoint configured, use 'agriconsole config set api <url>'")
	ErrInvalidPortal      = errors.New("portal must be 'admin' or 'staff'")
	ErrInvalidOutput      = errors.New("output must be one of table, json, yaml")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrNegativeMaxRetries = errors.New("max retries must not be negative")
	ErrNegativeDelay      = errors.New("retry delay must not be negative")
)

// Session errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated, use 'agriconsole login' first")
	ErrEmptyToken       = errors.New("token must not be empty")
	ErrNoTokenInLogin   = errors.New("login response did not contain a token")
	ErrEmailRequired    = errors.New("email is required")
)

// Request errors.
var (
	ErrIDRequired         = errors.New("id is required")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrNoFileProvided     = errors.New("no file provided for upload")
	ErrNotRegularFile     = errors.New("path is not a regular file")
	ErrDirectoryTraversal = errors.New("path contains directory traversal sequences")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidMonth       = errors.New("month must be formatted as YYYY-MM")
)
