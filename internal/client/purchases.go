package client

import (
	"context"
	"fmt"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

// PurchasesClient implements console.PurchasesClient.
type PurchasesClient struct {
	httpClient *http.Client
}

// NewPurchasesClient creates a new purchases client.
func NewPurchasesClient(httpClient *http.Client) *PurchasesClient {
	return &PurchasesClient{httpClient: httpClient}
}

// List implements console.PurchasesClient.List.
func (c *PurchasesClient) List(ctx context.Context, params *console.QueryParams) (*console.ListResponse[console.Purchase], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathPurchases, queryValues(params))
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}

	var result console.ListResponse[console.Purchase]

	err = decode(resp, &result, "purchases list")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get implements console.PurchasesClient.Get.
func (c *PurchasesClient) Get(ctx context.Context, id string) (*console.Purchase, error) {
	path, err := resourcePath(constants.APIPathPurchases, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting purchase: %w", err)
	}

	var purchase console.Purchase

	err = decode(resp, &purchase, "purchase")
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// Create implements console.PurchasesClient.Create.
func (c *PurchasesClient) Create(ctx context.Context, request *console.PurchaseCreateRequest) (*console.Purchase, error) {
	err := validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("recording purchase: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathPurchases, request)
	if err != nil {
		return nil, fmt.Errorf("recording purchase: %w", err)
	}

	var purchase console.Purchase

	err = decode(resp, &purchase, "purchase")
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}
