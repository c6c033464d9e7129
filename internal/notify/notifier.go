// Package notify sends chat messages to tenants. Delivery is fire-and-forget:
// failures are logged and returned, but never retried here.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/config"
)

type Notifier struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

func NewNotifier(cfg config.NotifierConfig, logger *zap.Logger) *Notifier {
	return &Notifier{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (n *Notifier) Send(ctx context.Context, chatID, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		n.logger.Warn("notification send failed", zap.String("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("notifier unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("notification rejected",
			zap.String("chat_id", chatID),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("notifier returned status %d", resp.StatusCode)
	}
	return nil
}
