// Package archive implements the permanent-storage ledger over a
// content-addressed archive gateway's HTTP API.
package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/ledger"
	"github.com/veridrive/veridrive/internal/ratelimit"
)

// PROVIDER_NAME identifies the archive gateway in rate limiter configuration
const PROVIDER_NAME = "archive"

// Config holds archive gateway configuration
type Config struct {
	// GatewayURL is the base URL of the archive gateway
	GatewayURL string
	// APIKey authenticates upload requests, empty for anonymous gateways
	APIKey string
}

type client struct {
	http           adapter.HTTPClient
	json           adapter.JSON
	rateLimitProxy ratelimit.Proxy
	cfg            Config
}

// NewClient creates a permanent-storage ledger client.
// A nil rateLimitProxy disables rate limiting.
func NewClient(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, rateLimitProxy ratelimit.Proxy, cfg Config) ledger.PermanentLedger {
	return &client{
		http:           httpClient,
		json:           jsonAdapter,
		rateLimitProxy: rateLimitProxy,
		cfg:            cfg,
	}
}

type uploadResponse struct {
	ReferenceID string `json:"reference_id"`
}

// Upload stores the content on the archive gateway and returns its reference
func (c *client) Upload(ctx context.Context, content []byte, contentType string, tags []string) (string, error) {
	headers := map[string]string{
		"X-Archive-Tags": strings.Join(tags, ","),
	}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	url := strings.TrimSuffix(c.cfg.GatewayURL, "/") + "/v1/objects"
	body, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.http.Post(ctx, url, contentType, content, headers)
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to archive gateway: %w", err)
	}

	var resp uploadResponse
	if err := c.json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode archive response: %w", err)
	}
	if resp.ReferenceID == "" {
		return "", fmt.Errorf("archive gateway returned empty reference")
	}

	return resp.ReferenceID, nil
}
