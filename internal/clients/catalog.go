// Package clients holds the HTTP clients for the other MarketMesh services.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// CatalogClient fetches product data from the catalog service.
type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

// HTTPCatalogClient implements CatalogClient over HTTP.
type HTTPCatalogClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPCatalogClient creates a catalog client.
func NewHTTPCatalogClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GetProduct retrieves a product by id. Returns nil without error when the
// product does not exist.
func (c *HTTPCatalogClient) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	url := fmt.Sprintf("%s/api/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch product", logging.Fields{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}
