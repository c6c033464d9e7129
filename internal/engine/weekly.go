package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/core"
	"github.com/finbotd/finbot/internal/db"
)

// runWeeklyCycle polls on a short interval and fires each tenant's report
// when that tenant's configured day and hour match now. The persisted
// last-sent marker keeps a restart from re-sending the same day.
func (e *Engine) runWeeklyCycle(ctx context.Context, now time.Time) error {
	start := time.Now()
	logger := e.logger.With(zap.String("job", jobWeeklyReport))

	if err := e.repo.Ping(ctx); err != nil {
		e.metrics.RecordCycle(jobWeeklyReport, time.Since(start), false)
		logger.Error("database unreachable, aborting cycle", zap.Error(err))
		return err
	}

	tenants, err := e.repo.ListTenants(ctx)
	if err != nil {
		e.metrics.RecordCycle(jobWeeklyReport, time.Since(start), false)
		logger.Error("failed to list tenants", zap.Error(err))
		return err
	}

	e.fanOut(ctx, jobWeeklyReport, tenants, func(ctx context.Context, tenant core.Tenant) error {
		return e.weeklyReport(ctx, tenant, now)
	})

	e.metrics.RecordCycle(jobWeeklyReport, time.Since(start), true)
	return nil
}

func (e *Engine) weeklyReport(ctx context.Context, tenant core.Tenant, now time.Time) error {
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
	if settings.ChatID == "" {
		return Skip("no chat configured")
	}
	if !WeeklyDue(now, time.Weekday(settings.ReportDay), settings.ReportHour, settings.LastWeeklyReportSent) {
		return Skip("not due")
	}

	if err := e.reports.GenerateAndSend(ctx, tenant.ID, settings); err != nil {
		return err
	}
	if err := e.repo.SetLastWeeklyReportSent(ctx, tenant.ID, now); err != nil {
		return fmt.Errorf("recording report sent: %w", err)
	}

	e.logger.Info("weekly report sent",
		zap.String("job", jobWeeklyReport),
		zap.String("tenant_id", tenant.ID.String()),
	)
	return nil
}
