// Package client implements console.Client on top of the request executor.
package client

import (
	"fmt"

	"github.com/harvestline/agriconsole/internal/auth"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
	"github.com/harvestline/agriconsole/pkg/events"
)

// Client implements the console.Client interface.
type Client struct {
	httpClient *http.Client
	store      console.TokenStore
	signals    *events.Bus

	auth         *AuthClient
	farmers      *FarmersClient
	purchases    *PurchasesClient
	loans        *LoansClient
	staff        *StaffClient
	transactions *TransactionsClient
}

var _ console.Client = (*Client)(nil)

// New creates a client from config. A nil TokenStore defaults to an
// in-memory store and a nil Signals bus to a fresh one.
func New(config *console.Config) (*Client, error) {
	if config == nil {
		return nil, console.ErrConfigRequired
	}

	config.ApplyDefaults()

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	store := config.TokenStore
	if store == nil {
		store = auth.NewMemoryTokenStore()
	}

	signals := config.Signals
	if signals == nil {
		signals = events.NewBus()
	}

	opts := []http.Option{
		http.WithRetryConfig(config.Retries(), config.RetryBaseDelay, config.RetryMaxDelay),
		http.WithSignals(signals),
		http.WithDebug(config.Debug),
		http.WithUserAgent(config.UserAgent),
	}

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	httpClient := http.NewClient(config.APIEndpoint, store, opts...)

	client := &Client{
		httpClient: httpClient,
		store:      store,
		signals:    signals,
	}
	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.auth = NewAuthClient(c.httpClient, c.store)
	c.farmers = NewFarmersClient(c.httpClient)
	c.purchases = NewPurchasesClient(c.httpClient)
	c.loans = NewLoansClient(c.httpClient)
	c.staff = NewStaffClient(c.httpClient)
	c.transactions = NewTransactionsClient(c.httpClient)
}

// Auth returns the auth client.
func (c *Client) Auth() console.AuthClient { return c.auth }

// Farmers returns the farmers client.
func (c *Client) Farmers() console.FarmersClient { return c.farmers }

// Purchases returns the purchases client.
func (c *Client) Purchases() console.PurchasesClient { return c.purchases }

// Loans returns the loans client.
func (c *Client) Loans() console.LoansClient { return c.loans }

// Staff returns the staff client.
func (c *Client) Staff() console.StaffClient { return c.staff }

// Transactions returns the transactions client.
func (c *Client) Transactions() console.TransactionsClient { return c.transactions }

// Session returns the token store.
func (c *Client) Session() console.TokenStore { return c.store }

// Signals returns the session invalidation bus.
func (c *Client) Signals() *events.Bus { return c.signals }
