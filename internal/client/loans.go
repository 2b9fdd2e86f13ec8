package client

import (
	"context"
	"fmt"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

// LoansClient implements console.LoansClient.
type LoansClient struct {
	httpClient *http.Client
}

// NewLoansClient creates a new loans client.
func NewLoansClient(httpClient *http.Client) *LoansClient {
	return &LoansClient{httpClient: httpClient}
}

// List implements console.LoansClient.List.
func (c *LoansClient) List(ctx context.Context, params *console.QueryParams) (*console.ListResponse[console.Loan], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathLoans, queryValues(params))
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}

	var result console.ListResponse[console.Loan]

	err = decode(resp, &result, "loans list")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get implements console.LoansClient.Get.
func (c *LoansClient) Get(ctx context.Context, id string) (*console.Loan, error) {
	path, err := resourcePath(constants.APIPathLoans, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}

	return c.decodeLoan(resp)
}

// Create implements console.LoansClient.Create.
func (c *LoansClient) Create(ctx context.Context, request *console.LoanCreateRequest) (*console.Loan, error) {
	err := validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("creating loan: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathLoans, request)
	if err != nil {
		return nil, fmt.Errorf("creating loan: %w", err)
	}

	return c.decodeLoan(resp)
}

// Approve implements console.LoansClient.Approve.
func (c *LoansClient) Approve(ctx context.Context, id string) (*console.Loan, error) {
	path, err := resourcePath(constants.APIPathLoans, id, "approve")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("approving loan: %w", err)
	}

	return c.decodeLoan(resp)
}

// Repay implements console.LoansClient.Repay.
func (c *LoansClient) Repay(ctx context.Context, id string, amount float64) (*console.Loan, error) {
	path, err := resourcePath(constants.APIPathLoans, id, "repayments")
	if err != nil {
		return nil, err
	}

	if amount <= 0 {
		return nil, constants.ErrInvalidAmount
	}

	resp, err := c.httpClient.Post(ctx, path, &console.LoanRepaymentRequest{Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("recording loan repayment: %w", err)
	}

	return c.decodeLoan(resp)
}

func (c *LoansClient) decodeLoan(resp *http.Response) (*console.Loan, error) {
	var loan console.Loan

	err := decode(resp, &loan, "loan")
	if err != nil {
		return nil, err
	}

	return &loan, nil
}
