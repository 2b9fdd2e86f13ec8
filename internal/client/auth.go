package client

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestline/agriconsole/internal/auth"
	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

// AuthClient implements console.AuthClient.
type AuthClient struct {
	httpClient *http.Client
	store      console.TokenStore
	now        func() time.Time
}

// NewAuthClient creates a new auth client that saves tokens into store.
func NewAuthClient(httpClient *http.Client, store console.TokenStore) *AuthClient {
	return &AuthClient{httpClient: httpClient, store: store, now: time.Now}
}

// Login exchanges credentials for a token and stores it. The token is kept
// until its exp claim, or for the default TTL when it has none.
func (c *AuthClient) Login(ctx context.Context, portal console.Portal, email, password string) (*console.LoginResponse, error) {
	if portal != console.PortalAdmin && portal != console.PortalStaff {
		return nil, fmt.Errorf("%w: %q", console.ErrInvalidPortal, portal)
	}

	request := &console.LoginRequest{Email: email, Password: password}

	err := validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	path := fmt.Sprintf("%s/%s/login", constants.APIPathAuth, portal)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	var login console.LoginResponse

	err = decode(resp, &login, "login")
	if err != nil {
		return nil, err
	}

	if login.Token == "" {
		return nil, constants.ErrNoTokenInLogin
	}

	err = c.store.Set(login.Token, auth.TTLFor(login.Token, c.now()))
	if err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}

	return &login, nil
}

// Logout forgets the stored token. The backend keeps no session to end.
func (c *AuthClient) Logout() error {
	err := c.store.Clear()
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

// Me returns the operator the stored token belongs to.
func (c *AuthClient) Me(ctx context.Context) (*console.User, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathAuth+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	var user console.User

	err = decode(resp, &user, "user")
	if err != nil {
		return nil, err
	}

	return &user, nil
}
