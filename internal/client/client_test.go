package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestline/agriconsole/pkg/console"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		require.ErrorIs(t, err, console.ErrConfigRequired)
	})

	t.Run("requires endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := New(&console.Config{})
		require.ErrorIs(t, err, console.ErrAPIEndpointRequired)
	})

	t.Run("rejects negative retries", func(t *testing.T) {
		t.Parallel()

		_, err := New(&console.Config{APIEndpoint: "https://api.example.com", MaxRetries: -2})
		require.Error(t, err)
	})

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		config := console.DefaultConfig("https://api.example.com")

		client, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, client.Session())
		assert.NotNil(t, client.Signals())
		assert.NotNil(t, client.Farmers())
		assert.NotNil(t, client.Purchases())
		assert.NotNil(t, client.Loans())
		assert.NotNil(t, client.Staff())
		assert.NotNil(t, client.Transactions())
		assert.Equal(t, console.PortalAdmin, config.Portal)
	})
}

func TestNew_RetryPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		maxRetries   int
		wantAttempts int32
	}{
		{name: "zero picks the default", maxRetries: 0, wantAttempts: console.DefaultMaxRetries + 1},
		{name: "no retries", maxRetries: console.NoRetries, wantAttempts: 1},
		{name: "explicit count", maxRetries: 1, wantAttempts: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				attempts.Add(1)
				writer.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			client, err := New(&console.Config{
				APIEndpoint:    server.URL,
				MaxRetries:     tt.maxRetries,
				RetryBaseDelay: time.Millisecond,
			})
			require.NoError(t, err)

			_, err = client.Farmers().Get(context.Background(), "f-1")
			require.Error(t, err)
			assert.Equal(t, tt.wantAttempts, attempts.Load())
		})
	}
}

func TestPurchasesAndTransactions_Get(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation[console.Purchase]{
		{
			Name:         "purchase",
			ID:           "p-1",
			ExpectedPath: "/purchases/p-1",
			StatusCode:   http.StatusOK,
			Response:     console.Purchase{Resource: console.Resource{ID: "p-1"}, Commodity: "coffee"},
		},
	}, func(c *Client) func(context.Context, string) (*console.Purchase, error) {
		return c.Purchases().Get
	})

	RunGetTests(t, []TestGetOperation[console.Transaction]{
		{
			Name:         "transaction",
			ID:           "t-1",
			ExpectedPath: "/transactions/t-1",
			StatusCode:   http.StatusOK,
			Response:     console.Transaction{Resource: console.Resource{ID: "t-1"}, Amount: 1200},
		},
		{
			Name:         "server down",
			ID:           "t-2",
			ExpectedPath: "/transactions/t-2",
			StatusCode:   http.StatusServiceUnavailable,
			WantErr:      true,
			ErrMessage:   "getting transaction: HTTP 503: Service Unavailable",
		},
	}, func(c *Client) func(context.Context, string) (*console.Transaction, error) {
		return c.Transactions().Get
	})
}

func TestPurchases_Create(t *testing.T) {
	t.Parallel()

	RunCreateTests(t, []TestCreateOperation[console.PurchaseCreateRequest, console.Purchase]{
		{
			Name: "records purchase",
			Request: &console.PurchaseCreateRequest{
				FarmerID:   "f-1",
				Commodity:  "maize",
				QuantityKg: 500,
				PricePerKg: 0.35,
			},
			ExpectedPath: "/purchases",
			StatusCode:   http.StatusCreated,
			Response:     console.Purchase{Resource: console.Resource{ID: "p-9"}, TotalAmount: 175},
		},
		{
			Name: "rejects zero quantity before sending",
			Request: &console.PurchaseCreateRequest{
				FarmerID:   "f-1",
				Commodity:  "maize",
				PricePerKg: 0.35,
			},
			ExpectedPath: "/purchases",
			WantErr:      true,
			WantCalls:    0,
			ErrMessage:   "invalid request",
		},
		{
			Name: "conflict is not retried",
			Request: &console.PurchaseCreateRequest{
				FarmerID:   "f-1",
				Commodity:  "maize",
				QuantityKg: 500,
				PricePerKg: 0.35,
			},
			ExpectedPath: "/purchases",
			StatusCode:   http.StatusConflict,
			Response:     map[string]string{"message": "Duplicate purchase receipt"},
			WantErr:      true,
			WantCalls:    1,
			ErrMessage:   "Duplicate purchase receipt",
		},
	}, func(c *Client) func(context.Context, *console.PurchaseCreateRequest) (*console.Purchase, error) {
		return c.Purchases().Create
	})
}
