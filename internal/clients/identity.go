package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// IdentityClient fetches user profiles from the identity service.
type IdentityClient interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// HTTPIdentityClient implements IdentityClient over HTTP.
type HTTPIdentityClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPIdentityClient creates an identity client.
func NewHTTPIdentityClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPIdentityClient {
	return &HTTPIdentityClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GetUser retrieves a user by id. Returns nil without error when the user
// does not exist. The call is made with an administrative service identity
// so profile reads for reference resolution are not ownership-gated.
func (c *HTTPIdentityClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(auth.HeaderUserID, "svc_gateway")
	req.Header.Set(auth.HeaderRole, string(models.RoleAdmin))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch user", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
