package client

import (
	"context"
	"fmt"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

// FarmersClient implements console.FarmersClient.
type FarmersClient struct {
	httpClient *http.Client
}

// NewFarmersClient creates a new farmers client.
func NewFarmersClient(httpClient *http.Client) *FarmersClient {
	return &FarmersClient{httpClient: httpClient}
}

// List implements console.FarmersClient.List.
func (c *FarmersClient) List(ctx context.Context, params *console.QueryParams) (*console.ListResponse[console.Farmer], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathFarmers, queryValues(params))
	if err != nil {
		return nil, fmt.Errorf("listing farmers: %w", err)
	}

	var result console.ListResponse[console.Farmer]

	err = decode(resp, &result, "farmers list")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get implements console.FarmersClient.Get.
func (c *FarmersClient) Get(ctx context.Context, id string) (*console.Farmer, error) {
	path, err := resourcePath(constants.APIPathFarmers, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting farmer: %w", err)
	}

	var farmer console.Farmer

	err = decode(resp, &farmer, "farmer")
	if err != nil {
		return nil, err
	}

	return &farmer, nil
}

// Create implements console.FarmersClient.Create.
func (c *FarmersClient) Create(ctx context.Context, request *console.FarmerCreateRequest) (*console.Farmer, error) {
	err := validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("creating farmer: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathFarmers, request)
	if err != nil {
		return nil, fmt.Errorf("creating farmer: %w", err)
	}

	var farmer console.Farmer

	err = decode(resp, &farmer, "farmer")
	if err != nil {
		return nil, err
	}

	return &farmer, nil
}

// Update implements console.FarmersClient.Update.
func (c *FarmersClient) Update(ctx context.Context, id string, request *console.FarmerUpdateRequest) (*console.Farmer, error) {
	path, err := resourcePath(constants.APIPathFarmers, id)
	if err != nil {
		return nil, err
	}

	err = validateRequest(request)
	if err != nil {
		return nil, fmt.Errorf("updating farmer: %w", err)
	}

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating farmer: %w", err)
	}

	var farmer console.Farmer

	err = decode(resp, &farmer, "farmer")
	if err != nil {
		return nil, err
	}

	return &farmer, nil
}

// Delete implements console.FarmersClient.Delete.
func (c *FarmersClient) Delete(ctx context.Context, id string) error {
	path, err := resourcePath(constants.APIPathFarmers, id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting farmer: %w", err)
	}

	return nil
}

// UploadDocument attaches a file to a farmer record. Uploads are never retried.
func (c *FarmersClient) UploadDocument(ctx context.Context, id string, file console.FileUpload) (*console.Document, error) {
	path, err := resourcePath(constants.APIPathFarmers, id, "documents")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Upload(ctx, path, &http.MultipartBody{
		Files: []console.FileUpload{file},
	})
	if err != nil {
		return nil, fmt.Errorf("uploading farmer document: %w", err)
	}

	var document console.Document

	err = decode(resp, &document, "document")
	if err != nil {
		return nil, err
	}

	return &document, nil
}
