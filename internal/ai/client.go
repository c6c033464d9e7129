package ai

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/config"
)

// Client fronts the primary and fallback providers. Generation failures are
// reported as empty output so callers skip sending instead of erroring.
type Client struct {
	primary  Provider
	fallback Provider
	timeout  time.Duration
	logger   *zap.Logger
}

func NewClient(cfg config.AIConfig, logger *zap.Logger) (*Client, error) {
	primary, err := NewProvider(cfg.Primary)
	if err != nil {
		return nil, err
	}
	fallback, err := NewProvider(cfg.Fallback)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

func (c *Client) provider(useFallback bool) Provider {
	if useFallback {
		return c.fallback
	}
	return c.primary
}

// Costless reports whether the selected provider consumes no shared quota.
func (c *Client) Costless(useFallback bool) bool {
	return c.provider(useFallback).Costless()
}

// TestConnection probes the selected provider on behalf of a tenant.
func (c *Client) TestConnection(ctx context.Context, tenantID uuid.UUID, useFallback bool) (bool, string) {
	p := c.provider(useFallback)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		c.logger.Debug("AI connection test failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
		return false, err.Error()
	}
	return true, ""
}

// Generate runs a prompt through the primary provider, falling back when the
// primary fails. Returns "" when no provider produced output.
func (c *Client) Generate(ctx context.Context, tenantID uuid.UUID, prompt string, fallbackEnabled bool) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.primary.Generate(ctx, prompt)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		c.logger.Warn("primary AI generation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("provider", c.primary.Name()),
			zap.Error(err),
		)
	}

	if !fallbackEnabled {
		return ""
	}

	text, err = c.fallback.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("fallback AI generation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("provider", c.fallback.Name()),
			zap.Error(err),
		)
		return ""
	}
	return text
}
