package console

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestline/agriconsole/pkg/events"
)

// Portal names the console a session belongs to.
type Portal string

// Portals.
const (
	PortalAdmin Portal = "admin"
	PortalStaff Portal = "staff"
)

// AuthClient authenticates against the backend.
type AuthClient interface {
	Login(ctx context.Context, portal Portal, email, password string) (*LoginResponse, error)
	Logout() error
	Me(ctx context.Context) (*User, error)
}

// FarmersClient manages farmer records.
type FarmersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Farmer], error)
	Get(ctx context.Context, id string) (*Farmer, error)
	Create(ctx context.Context, request *FarmerCreateRequest) (*Farmer, error)
	Update(ctx context.Context, id string, request *FarmerUpdateRequest) (*Farmer, error)
	Delete(ctx context.Context, id string) error
	UploadDocument(ctx context.Context, id string, file FileUpload) (*Document, error)
}

// PurchasesClient manages produce purchases.
type PurchasesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Purchase], error)
	Get(ctx context.Context, id string) (*Purchase, error)
	Create(ctx context.Context, request *PurchaseCreateRequest) (*Purchase, error)
}

// LoansClient manages farmer loans.
type LoansClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Loan], error)
	Get(ctx context.Context, id string) (*Loan, error)
	Create(ctx context.Context, request *LoanCreateRequest) (*Loan, error)
	Approve(ctx context.Context, id string) (*Loan, error)
	Repay(ctx context.Context, id string, amount float64) (*Loan, error)
}

// StaffClient manages staff members and payroll.
type StaffClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[StaffMember], error)
	Get(ctx context.Context, id string) (*StaffMember, error)
	Create(ctx context.Context, request *StaffCreateRequest) (*StaffMember, error)
	Update(ctx context.Context, id string, request *StaffUpdateRequest) (*StaffMember, error)
	Delete(ctx context.Context, id string) error
	Payroll(ctx context.Context, month string) (*ListResponse[PayrollEntry], error)
}

// TransactionsClient reads the ledger.
type TransactionsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Transaction], error)
	Get(ctx context.Context, id string) (*Transaction, error)
}

// Client is the aggregate console API client.
type Client interface {
	Auth() AuthClient
	Farmers() FarmersClient
	Purchases() PurchasesClient
	Loans() LoansClient
	Staff() StaffClient
	Transactions() TransactionsClient

	// Session returns the token store backing this client.
	Session() TokenStore
	// Signals returns the bus on which session invalidation is broadcast.
	Signals() *events.Bus
}

// TokenStore holds the current bearer token. Implementations must make Clear
// idempotent and safe for concurrent use.
type TokenStore interface {
	// Get returns the current token, or "" when none is stored.
	Get() (string, error)
	// Set replaces the token; ttl is an expiry hint.
	Set(token string, ttl time.Duration) error
	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// DefaultMaxRetries is used when Config.MaxRetries is left at zero.
const DefaultMaxRetries = 3

// NoRetries disables retries: every request gets a single attempt.
const NoRetries = -1

// Config represents client configuration for building a console.Client.
//
// Zero values pick the defaults: MaxRetries becomes DefaultMaxRetries and
// RetryBaseDelay one second. Set MaxRetries to NoRetries to turn retries off.
type Config struct {
	// APIEndpoint is the base URL of the backend (e.g. "https://api.example.com").
	APIEndpoint string
	// Portal selects the login endpoint. Defaults to admin.
	Portal Portal

	// MaxRetries is the number of retries after the first attempt for
	// 429, 5xx and transport failures. See NoRetries.
	MaxRetries int
	// RetryBaseDelay is the delay before the first retry; retry n waits
	// RetryBaseDelay * 2^n.
	RetryBaseDelay time.Duration
	// RetryMaxDelay caps a single backoff delay. Zero leaves it uncapped.
	RetryMaxDelay time.Duration

	// TokenStore holds the bearer token. Defaults to an in-memory store.
	TokenStore TokenStore
	// Signals receives one emission per 401 response. Defaults to a new bus.
	Signals *events.Bus

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// DefaultConfig returns a config with the default retry policy.
func DefaultConfig(apiEndpoint string) *Config {
	return &Config{
		APIEndpoint:    apiEndpoint,
		Portal:         PortalAdmin,
		MaxRetries:     DefaultMaxRetries,
		RetryBaseDelay: time.Second,
	}
}

// ApplyDefaults fills in zero-value fields that have defaults.
func (c *Config) ApplyDefaults() {
	if c.Portal == "" {
		c.Portal = PortalAdmin
	}

	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}

	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
}

// Retries returns the number of retries after the first attempt.
func (c *Config) Retries() int {
	if c.MaxRetries == NoRetries {
		return 0
	}

	return c.MaxRetries
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIEndpoint == "" {
		return ErrAPIEndpointRequired
	}

	if c.Portal != PortalAdmin && c.Portal != PortalStaff {
		return fmt.Errorf("%w: %q", ErrInvalidPortal, c.Portal)
	}

	if c.MaxRetries < NoRetries {
		return fmt.Errorf("max retries must not be negative (got %d)", c.MaxRetries)
	}

	return nil
}
