package consoleclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/harvestline/agriconsole/internal/auth"
	"github.com/harvestline/agriconsole/internal/client"
	"github.com/harvestline/agriconsole/pkg/console"
)

// New creates a console client from config. Zero-valued retry fields get
// the defaults; see console.Config.
func New(config *console.Config) (console.Client, error) {
	if config == nil {
		return nil, console.ErrConfigRequired
	}

	endpoint, err := NormalizeEndpoint(config.APIEndpoint)
	if err != nil {
		return nil, err
	}

	config.APIEndpoint = endpoint

	consoleClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return consoleClient, nil
}

// NormalizeEndpoint trims a trailing slash and defaults the scheme to https.
func NormalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return "", console.ErrAPIEndpointRequired
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint, nil
}

// NewWithEndpoint creates a client with the default retry policy and an
// in-memory session.
func NewWithEndpoint(endpoint string) (console.Client, error) {
	return New(console.DefaultConfig(endpoint))
}

// NewWithToken creates a client whose in-memory session starts with token.
func NewWithToken(endpoint, token string) (console.Client, error) {
	store := auth.NewMemoryTokenStore()

	err := store.Set(token, auth.TTLFor(token, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("seeding token: %w", err)
	}

	config := console.DefaultConfig(endpoint)
	config.TokenStore = store

	return New(config)
}

// NewWithCredentialsFile creates a client whose session is persisted at path.
func NewWithCredentialsFile(endpoint, path string) (console.Client, error) {
	config := console.DefaultConfig(endpoint)
	config.TokenStore = auth.NewFileTokenStore(path)

	return New(config)
}
