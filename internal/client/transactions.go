package client

import (
	"context"
	"fmt"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

// TransactionsClient implements console.TransactionsClient.
type TransactionsClient struct {
	httpClient *http.Client
}

// NewTransactionsClient creates a new transactions client.
func NewTransactionsClient(httpClient *http.Client) *TransactionsClient {
	return &TransactionsClient{httpClient: httpClient}
}

// List implements console.TransactionsClient.List.
func (c *TransactionsClient) List(ctx context.Context, params *console.QueryParams) (*console.ListResponse[console.Transaction], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathTransactions, queryValues(params))
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var result console.ListResponse[console.Transaction]

	err = decode(resp, &result, "transactions list")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get implements console.TransactionsClient.Get.
func (c *TransactionsClient) Get(ctx context.Context, id string) (*console.Transaction, error) {
	path, err := resourcePath(constants.APIPathTransactions, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	var transaction console.Transaction

	err = decode(resp, &transaction, "transaction")
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}
