package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Stripe API base URL.
	BaseURL = "https://api.stripe.com/v1"
)

// Client is a minimal HTTP client for the parts of the Stripe API the
// platform needs: reading the product/price catalog and subscriptions.
type Client struct {
	httpClient *http.Client
	secretKey  string
	debug      bool
}

// NewClient constructs a new Stripe client with sane defaults.
func NewClient(secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		secretKey:  secretKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// ListProducts retrieves active products.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp listResponse[Product]
	if err := c.doRequest(ctx, http.MethodGet, "/products", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPrices retrieves active prices with their product ids.
func (c *Client) ListPrices(ctx context.Context, limit int) ([]Price, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp listResponse[Price]
	if err := c.doRequest(ctx, http.MethodGet, "/prices", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetSubscription retrieves a subscription by id.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	if err := c.doRequest(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Ping performs a lightweight authenticated call to verify connectivity.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("limit", "1")
	var resp listResponse[Price]
	return c.doRequest(ctx, http.MethodGet, "/prices", params, &resp)
}

// doRequest performs an HTTP call against the Stripe API. Stripe accepts
// form-encoded requests and answers JSON; errors arrive as a JSON "error"
// object alongside a non-2xx status.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, result any) error {
	var body io.Reader
	target := BaseURL + endpoint
	if params != nil {
		if method == http.MethodGet {
			target += "?" + params.Encode()
		} else {
			body = strings.NewReader(params.Encode())
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[STRIPE] Incoming response")
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s (%s)", apiErr.Error.Message, apiErr.Error.Type)
		}
		return fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
