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

// runBriefingCycle composes and sends each AI-enabled tenant's morning
// briefing. Empty model output means skip, never an error.
func (e *Engine) runBriefingCycle(ctx context.Context, now time.Time) error {
	start := time.Now()
	logger := e.logger.With(zap.String("job", jobBriefing))

	if err := e.repo.Ping(ctx); err != nil {
		e.metrics.RecordCycle(jobBriefing, time.Since(start), false)
		logger.Error("database unreachable, aborting cycle", zap.Error(err))
		return err
	}

	tenants, err := e.repo.ListTenants(ctx)
	if err != nil {
		e.metrics.RecordCycle(jobBriefing, time.Since(start), false)
		logger.Error("failed to list tenants", zap.Error(err))
		return err
	}

	e.fanOut(ctx, jobBriefing, tenants, func(ctx context.Context, tenant core.Tenant) error {
		return e.briefTenant(ctx, tenant, now)
	})

	e.metrics.RecordCycle(jobBriefing, time.Since(start), true)
	logger.Info("briefing cycle complete",
		zap.Int("tenants", len(tenants)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (e *Engine) briefTenant(ctx context.Context, tenant core.Tenant, now time.Time) error {
	settings, err := e.repo.GetSettings(ctx, tenant.ID)
	if errors.Is(err, db.ErrNotFound) {
		return Skip("no settings")
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if !settings.AIEnabled {
		return Skip("AI disabled")
	}
	if settings.ChatID == "" {
		return Skip("no chat configured")
	}
	if settings.LastBriefingSent != nil && SameDay(*settings.LastBriefingSent, now) {
		return Skip("already sent today")
	}

	text := e.ai.Generate(ctx, tenant.ID, briefingPrompt(settings.Persona, now), settings.AIFallbackEnabled)
	if text == "" {
		return Skip("model produced no output")
	}

	if err := e.notifier.Send(ctx, settings.ChatID, text); err != nil {
		return fmt.Errorf("sending briefing: %w", err)
	}
	if err := e.repo.SetLastBriefingSent(ctx, tenant.ID, now); err != nil {
		return fmt.Errorf("recording briefing sent: %w", err)
	}
	return nil
}

func briefingPrompt(persona string, now time.Time) string {
	if persona == "" {
		persona = "a concise, friendly financial assistant"
	}
	return fmt.Sprintf(
		"You are %s. Write a short good-morning briefing for %s. Mention that fresh account balances and this week's spending summary are available on request. Keep it under 80 words.",
		persona, now.Format("Monday, 2 January 2006"),
	)
}
