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

// runHealthCycle probes the database, banking API and AI providers. The
// database gates the cycle: when it is down, every other snapshot field keeps
// its previous value.
func (e *Engine) runHealthCycle(ctx context.Context, now time.Time) error {
	start := time.Now()
	logger := e.logger.With(zap.String("job", jobHealth))

	if err := e.repo.Ping(ctx); err != nil {
		e.status.RecordDatabase(false)
		e.status.RecordError(err.Error())
		e.metrics.RecordCheckUp("database", false)
		e.metrics.RecordCycle(jobHealth, time.Since(start), false)
		logger.Error("database unreachable, aborting cycle", zap.Error(err))
		return err
	}
	e.status.RecordDatabase(true)
	e.metrics.RecordCheckUp("database", true)

	tenants, err := e.repo.ListTenants(ctx)
	if err != nil {
		e.status.RecordError(err.Error())
		e.metrics.RecordCycle(jobHealth, time.Since(start), false)
		logger.Error("failed to list tenants", zap.Error(err))
		return err
	}

	// Fixed for the whole cycle; only this tenant's outcomes reach the
	// snapshot.
	rep := pickRepresentative(tenants, e.cfg.RepresentativePolicy)
	if rep == nil {
		logger.Warn("no representative tenant, external checks skipped this cycle")
	} else {
		logger.Debug("representative selected", zap.String("tenant_id", rep.ID.String()))
	}

	e.fanOut(ctx, jobHealth, tenants, func(ctx context.Context, tenant core.Tenant) error {
		return e.healthProbe(ctx, tenant, rep)
	})

	e.metrics.RecordCycle(jobHealth, time.Since(start), true)
	logger.Debug("health cycle complete",
		zap.Int("tenants", len(tenants)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// healthProbe runs one tenant's connectivity probes. Non-representative
// tenants still probe costless providers to keep sessions warm, but metered
// providers are only exercised by the representative.
func (e *Engine) healthProbe(ctx context.Context, tenant core.Tenant, rep *core.Tenant) error {
	settings, err := e.repo.GetSettings(ctx, tenant.ID)
	if errors.Is(err, db.ErrNotFound) {
		return Skip("no settings")
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	isRep := rep != nil && tenant.ID == rep.ID

	if settings.HasBankCredentials() {
		client := e.newBankClient()
		client.Configure(banking.Credentials{
			SecretID:  settings.BankSecretID,
			SecretKey: settings.BankSecretKey,
		})
		ok, errMsg := client.TestConnectivity(ctx)
		if isRep {
			e.status.RecordBanking(ok, errMsg)
			e.metrics.RecordCheckUp("banking", ok)
		}
	}

	if settings.AIEnabled && (isRep || e.ai.Costless(false)) {
		ok, errMsg := e.ai.TestConnection(ctx, tenant.ID, false)
		if isRep {
			e.status.RecordAIPrimary(ok, errMsg)
			e.metrics.RecordCheckUp("ai_primary", ok)
		}
	}

	if settings.AIFallbackEnabled && (isRep || e.ai.Costless(true)) {
		ok, errMsg := e.ai.TestConnection(ctx, tenant.ID, true)
		if isRep {
			e.status.RecordAIFallback(ok, errMsg)
			e.metrics.RecordCheckUp("ai_fallback", ok)
		}
	}

	return nil
}
