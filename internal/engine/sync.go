package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/banking"
	"github.com/finbotd/finbot/internal/core"
	"github.com/finbotd/finbot/internal/db"
)

// runSyncCycle refreshes every linked tenant's account balances.
func (e *Engine) runSyncCycle(ctx context.Context, now time.Time) error {
	start := time.Now()
	logger := e.logger.With(zap.String("job", jobSync))

	if err := e.repo.Ping(ctx); err != nil {
		e.metrics.RecordCycle(jobSync, time.Since(start), false)
		logger.Error("database unreachable, aborting cycle", zap.Error(err))
		return err
	}

	tenants, err := e.repo.ListTenants(ctx)
	if err != nil {
		e.metrics.RecordCycle(jobSync, time.Since(start), false)
		logger.Error("failed to list tenants", zap.Error(err))
		return err
	}

	results := e.fanOut(ctx, jobSync, tenants, e.syncTenant)

	e.metrics.RecordCycle(jobSync, time.Since(start), true)
	logger.Info("sync cycle complete",
		zap.Int("tenants", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (e *Engine) syncTenant(ctx context.Context, tenant core.Tenant) error {
	settings, err := e.repo.GetSettings(ctx, tenant.ID)
	if errors.Is(err, db.ErrNotFound) {
		return Skip("no settings")
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if !settings.HasBankCredentials() {
		return Skip("no banking credentials")
	}

	client := e.newBankClient()
	client.Configure(banking.Credentials{
		SecretID:  settings.BankSecretID,
		SecretKey: settings.BankSecretKey,
	})

	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	fetched := time.Now()
	balances := make([]core.AccountBalance, 0, len(accounts))
	for _, acct := range accounts {
		amount, err := client.GetBalance(ctx, acct.ID)
		if err != nil {
			return fmt.Errorf("balance for account %s: %w", acct.ID, err)
		}
		balances = append(balances, core.AccountBalance{
			AccountID: acct.ID,
			Name:      acct.Name,
			Currency:  acct.Currency,
			Amount:    amount,
			FetchedAt: fetched,
		})
	}

	if err := e.repo.SaveBalances(ctx, tenant.ID, balances); err != nil {
		return fmt.Errorf("saving balances: %w", err)
	}
	return nil
}
