// Package banking wraps the account-aggregator HTTP API. Clients hold
// per-tenant credentials, so one instance is created per tenant task and never
// shared across concurrently running tasks. The rate limiter is shared by all
// instances to protect the aggregator's quota.
package banking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/finbotd/finbot/internal/config"
)

type Credentials struct {
	SecretID  string
	SecretKey string
}

type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IBAN     string `json:"iban"`
	Currency string `json:"currency"`
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	creds   Credentials
}

// Factory builds per-task clients sharing one limiter and transport config.
type Factory struct {
	cfg     config.BankingConfig
	limiter *rate.Limiter
}

func NewFactory(cfg config.BankingConfig) *Factory {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Factory{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (f *Factory) New() *Client {
	return &Client{
		baseURL: f.cfg.BaseURL,
		http:    &http.Client{Timeout: f.cfg.Timeout},
		limiter: f.limiter,
	}
}

// Configure sets the tenant credentials used to sign subsequent requests.
func (c *Client) Configure(creds Credentials) {
	c.creds = creds
}

// TestConnectivity probes the aggregator with the configured credentials.
func (c *Client) TestConnectivity(ctx context.Context) (bool, string) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/api/v2/status", &out); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var out struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.get(ctx, "/api/v2/accounts", &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func (c *Client) GetBalance(ctx context.Context, accountID string) (float64, error) {
	var out struct {
		Balance struct {
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"balance"`
	}
	path := fmt.Sprintf("/api/v2/accounts/%s/balance", accountID)
	if err := c.get(ctx, path, &out); err != nil {
		return 0, err
	}
	return out.Balance.Amount, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	token, err := c.signToken()
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("aggregator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("aggregator returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// signToken mints a short-lived HS256 token from the tenant secret.
func (c *Client) signToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.creds.SecretID,
		Subject:   c.creds.SecretID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.creds.SecretKey))
}
