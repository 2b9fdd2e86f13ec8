package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

const payrollMonthLayout = "2006-01"

// StaffClient implements console.StaffClient.
type StaffClient struct {
	httpClient *http.Client
}

// NewStaffClient creates a new staff client.
func NewStaffClient(httpClient *http.Client) *StaffClient {
	return &StaffClient{httpClient: httpClient}
}

// List implements console.StaffClient.List.
func (c *StaffClient) List(ctx context.Context, params *console.QueryParams) (*console.ListResponse[console.StaffMember], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathStaff, queryValues(params))
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}

	var result console.ListResponse[console.StaffMember]

	err = decode(resp, &result, "staff list")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get implements console.StaffClient.Get.
func (c *StaffClient) Get(ctx context.Context, id string) (*console.StaffMember, error) {
	path, err := resourcePath(constants.APIPathStaff, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting staff member: %w", err)
	}

	return c.decodeMember(resp)
}

// Create implements console.StaffClient.Create.
func (c *StaffClient) Create(ctx context.Context, request *console.StaffCreateRequest) (*console.StaffMember, error) {
	err := validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("creating staff member: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathStaff, request)
	if err != nil {
		return nil, fmt.Errorf("creating staff member: %w", err)
	}

	return c.decodeMember(resp)
}

// Update implements console.StaffClient.Update.
func (c *StaffClient) Update(ctx context.Context, id string, request *console.StaffUpdateRequest) (*console.StaffMember, error) {
	path, err := resourcePath(constants.APIPathStaff, id)
	if err != nil {
		return nil, err
	}

	err = validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("updating staff member: %w", err)
	}

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating staff member: %w", err)
	}

	return c.decodeMember(resp)
}

// Delete implements console.StaffClient.Delete.
func (c *StaffClient) Delete(ctx context.Context, id string) error {
	path, err := resourcePath(constants.APIPathStaff, id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting staff member: %w", err)
	}

	return nil
}

// Payroll returns the payroll run for month (YYYY-MM).
func (c *StaffClient) Payroll(ctx context.Context, month string) (*console.ListResponse[console.PayrollEntry], error) {
	_, err := time.Parse(payrollMonthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidMonth, month)
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathStaff+"/payroll", url.Values{"month": []string{month}})
	if err != nil {
		return nil, fmt.Errorf("getting payroll: %w", err)
	}

	var result console.ListResponse[console.PayrollEntry]

	err = decode(resp, &result, "payroll")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *StaffClient) decodeMember(resp *http.Response) (*console.StaffMember, error) {
	var member console.StaffMember

	err := decode(resp, &member, "staff member")
	if err != nil {
		return nil, err
	}

	return &member, nil
}
