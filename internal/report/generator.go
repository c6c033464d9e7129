// Package report composes and delivers the weekly financial summary.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/banking"
	"github.com/finbotd/finbot/internal/core"
)

// BankClient is the slice of the banking client the generator needs.
type BankClient interface {
	Configure(creds banking.Credentials)
	ListAccounts(ctx context.Context) ([]banking.Account, error)
	GetBalance(ctx context.Context, accountID string) (float64, error)
}

// Sender delivers the finished report text.
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

type Generator struct {
	newClient func() BankClient
	sender    Sender
	logger    *zap.Logger
}

func NewGenerator(newClient func() BankClient, sender Sender, logger *zap.Logger) *Generator {
	return &Generator{
		newClient: newClient,
		sender:    sender,
		logger:    logger,
	}
}

// GenerateAndSend builds the weekly summary for one tenant and delivers it.
// A fresh bank client is used so the tenant's credentials never leak into a
// sibling task.
func (g *Generator) GenerateAndSend(ctx context.Context, tenantID uuid.UUID, settings *core.Settings) error {
	client := g.newClient()
	client.Configure(banking.Credentials{
		SecretID:  settings.BankSecretID,
		SecretKey: settings.BankSecretKey,
	})

	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weekly report, %s\n\n", time.Now().Format("Mon, 02 Jan 2006"))

	var total float64
	for _, acct := range accounts {
		balance, err := client.GetBalance(ctx, acct.ID)
		if err != nil {
			g.logger.Warn("failed to fetch balance",
				zap.String("tenant_id", tenantID.String()),
				zap.String("account_id", acct.ID),
				zap.Error(err),
			)
			continue
		}
		total += balance
		fmt.Fprintf(&b, "%s: %.2f %s\n", acct.Name, balance, acct.Currency)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", total)

	if err := g.sender.Send(ctx, settings.ChatID, b.String()); err != nil {
		return fmt.Errorf("sending report: %w", err)
	}
	return nil
}
