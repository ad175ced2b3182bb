package openfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// credentialTTL is how long an api key is reused before re-authenticating.
// The aggregator issues keys valid for longer; 55 minutes keeps a margin.
const credentialTTL = 55 * time.Minute

// credentials is the cached api key plus its local expiry.
type credentials struct {
	apiKey    string
	expiresAt time.Time
}

func (c credentials) valid(now time.Time) bool {
	return c.apiKey != "" && now.Before(c.expiresAt)
}

// Client talks to the Open Finance aggregator API. It owns its credential
// cache and is safe for concurrent use.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	appURL       string
	httpClient   *http.Client

	mu    sync.Mutex
	creds credentials
	now   func() time.Time
}

// NewClient creates a new aggregator client. Credentials may be empty; every
// call then fails with ErrNotConfigured instead of hitting the network.
func NewClient(baseURL, clientID, clientSecret, appURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		appURL:       appURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}
}

// Configured reports whether both client credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// apiKey returns a valid api key, authenticating only when the cached one
// is missing or past its expiry.
func (c *Client) apiKey(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds.valid(c.now()) {
		return c.creds.apiKey, nil
	}

	payload, err := json.Marshal(map[string]string{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var ar authResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}
	token := ar.token()
	if token == "" {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.creds = credentials{apiKey: token, expiresAt: c.now().Add(credentialTTL)}
	return token, nil
}

// get performs an authenticated GET and returns the raw body on 2xx.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// ListItems returns the connections registered for the given end user.
func (c *Client) ListItems(ctx context.Context, clientUserID string) ([]Item, error) {
	body, err := c.get(ctx, "/items", url.Values{"clientUserId": {clientUserID}})
	if err != nil {
		return nil, err
	}
	items, err := decodeResults[Item](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse items response: %w", err)
	}
	return items, nil
}

// ListAccounts returns the accounts under one item.
func (c *Client) ListAccounts(ctx context.Context, itemID string) ([]Account, error) {
	body, err := c.get(ctx, "/accounts", url.Values{"itemId": {itemID}})
	if err != nil {
		return nil, err
	}
	accounts, err := decodeResults[Account](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse accounts response: %w", err)
	}
	return accounts, nil
}

// ListTransactions returns the transactions for one account from the given
// date (YYYY-MM-DD) onward.
func (c *Client) ListTransactions(ctx context.Context, accountID, from string) ([]Transaction, error) {
	body, err := c.get(ctx, "/transactions", url.Values{
		"accountId": {accountID},
		"from":      {from},
	})
	if err != nil {
		return nil, err
	}
	transactions, err := decodeResults[Transaction](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transactions response: %w", err)
	}
	return transactions, nil
}

// CreateConnectToken requests a widget token. itemID is optional; when set
// the widget opens in update mode for that connection. The webhook URL is
// only sent when the app URL is HTTPS, since the aggregator rejects plain
// HTTP callbacks.
func (c *Client) CreateConnectToken(ctx context.Context, itemID, clientUserID string) (string, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return "", err
	}

	reqBody := connectTokenRequest{
		ItemID:       itemID,
		ClientUserID: clientUserID,
		Options: connectTokenOptions{
			Language: "pt",
			Products: []string{"accounts", "transactions"},
		},
	}
	if strings.HasPrefix(c.appURL, "https://") {
		reqBody.Options.WebhookURL = strings.TrimRight(c.appURL, "/") + "/api/openfinance/webhook"
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal connect token payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/connect_token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create connect token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connect token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read connect token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr connectTokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to parse connect token response: %w", err)
	}
	token := tr.token()
	if token == "" {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return token, nil
}
