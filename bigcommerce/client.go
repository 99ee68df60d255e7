package bigcommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiBase   = "https://api.bigcommerce.com"
	loginBase = "https://login.bigcommerce.com"
)

// APIError is a non-2xx response from the BigCommerce API. The body is
// kept for logs; handlers must not leak it to storefront callers.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bigcommerce api error [%d] %s: %s", e.StatusCode, e.Path, e.Body)
}

// Config holds per-store client configuration
type Config struct {
	StoreHash   string
	AccessToken string

	// BaseURL overrides the API host, for tests
	BaseURL string
	// HTTPClient overrides the default client, for tests
	HTTPClient *http.Client
}

// Client is an authenticated REST client scoped to a single store.
// Stateless; create one per request from the store's stored credentials.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// New creates a BigCommerce client for one store
func New(cfg Config) (*Client, error) {
	if cfg.StoreHash == "" {
		return nil, fmt.Errorf("store hash is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	base := cfg.BaseURL
	if base == "" {
		base = apiBase
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(base, "/") + "/stores/" + cfg.StoreHash,
		accessToken: cfg.AccessToken,
	}, nil
}

// request performs one API call and decodes the JSON response into out
// (out may be nil for calls whose body the caller ignores).
func (c *Client) request(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(data)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// dataEnvelope wraps v3 responses, which nest the payload under "data"
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) requestV3(ctx context.Context, method, path string, payload, out interface{}) error {
	var envelope dataEnvelope
	if err := c.request(ctx, method, path, payload, &envelope); err != nil {
		return err
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode v3 data from %s: %w", path, err)
	}
	return nil
}

// GetProduct fetches one catalog product including its images
func (c *Client) GetProduct(ctx context.Context, productID int) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/v3/catalog/products/%d?include=images", productID)
	if err := c.requestV3(ctx, http.MethodGet, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts lists catalog products with the given query parameters
func (c *Client) GetProducts(ctx context.Context, params url.Values) ([]Product, error) {
	path := "/v3/catalog/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var products []Product
	if err := c.requestV3(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetOrder fetches one orders v2 order
func (c *Client) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	var order Order
	path := fmt.Sprintf("/v2/orders/%d", orderID)
	if err := c.request(ctx, http.MethodGet, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderProducts fetches the line items of an orders v2 order
func (c *Client) GetOrderProducts(ctx context.Context, orderID int) ([]OrderProduct, error) {
	var products []OrderProduct
	path := fmt.Sprintf("/v2/orders/%d/products", orderID)
	if err := c.request(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateOrder creates a new orders v2 order
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.request(ctx, http.MethodPost, "/v2/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateCart creates a carts v3 cart
func (c *Client) CreateCart(ctx context.Context, req *CreateCartRequest) (*Cart, error) {
	var cart Cart
	if err := c.requestV3(ctx, http.MethodPost, "/v3/carts", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreatePaymentAccessToken requests a payments v3 access token for an
// order, so a stored instrument can be charged against it.
func (c *Client) CreatePaymentAccessToken(ctx context.Context, orderID int) (*PaymentAccessToken, error) {
	payload := map[string]interface{}{
		"order": map[string]interface{}{
			"id":           orderID,
			"is_recurring": false,
		},
	}
	var token PaymentAccessToken
	if err := c.requestV3(ctx, http.MethodPost, "/v3/payments/access_tokens", payload, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// CreateScript installs a content v3 storefront script
func (c *Client) CreateScript(ctx context.Context, req *CreateScriptRequest) error {
	return c.request(ctx, http.MethodPost, "/v3/content/scripts", req, nil)
}

// GetScripts lists installed content v3 scripts
func (c *Client) GetScripts(ctx context.Context) ([]Script, error) {
	var scripts []Script
	if err := c.requestV3(ctx, http.MethodGet, "/v3/content/scripts", nil, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// DeleteScript removes a content v3 script by uuid
func (c *Client) DeleteScript(ctx context.Context, uuid string) error {
	return c.request(ctx, http.MethodDelete, "/v3/content/scripts/"+uuid, nil, nil)
}

// CreateWebhook registers a webhooks v3 hook
func (c *Client) CreateWebhook(ctx context.Context, req *CreateWebhookRequest) error {
	return c.request(ctx, http.MethodPost, "/v3/hooks", req, nil)
}

// GetStoreInfo fetches the store info v2 record
func (c *Client) GetStoreInfo(ctx context.Context) (*StoreInfo, error) {
	var info StoreInfo
	if err := c.request(ctx, http.MethodGet, "/v2/store", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// OAuthConfig holds the app credentials for the token exchange
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// LoginURL overrides the login host, for tests
	LoginURL string
}

// ExchangeToken exchanges an OAuth authorization code for a permanent
// access token. Called from the install/callback handlers.
func ExchangeToken(ctx context.Context, cfg OAuthConfig, code, bcContext, scope string) (*OAuthResponse, error) {
	base := cfg.LoginURL
	if base == "" {
		base = loginBase
	}

	payload := map[string]string{
		"client_id":     cfg.ClientID,
		"client_secret": cfg.ClientSecret,
		"code":          code,
		"context":       bcContext,
		"scope":         scope,
		"grant_type":    "authorization_code",
		"redirect_uri":  cfg.RedirectURI,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/oauth2/token", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("token exchange failed: status %d: %s", resp.StatusCode, string(body))
	}

	var token OAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &token, nil
}
