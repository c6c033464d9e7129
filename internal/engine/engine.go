// Package engine runs the recurring multi-tenant jobs: health checks,
// transaction sync, weekly reports and daily briefings. Each job is one
// cooperative loop fanning out bounded per-tenant tasks; no error from any
// boundary (cycle, tenant, loop) escapes to the hosting process.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/banking"
	"github.com/finbotd/finbot/internal/config"
	"github.com/finbotd/finbot/internal/core"
	"github.com/finbotd/finbot/internal/metrics"
	"github.com/finbotd/finbot/internal/status"
)

// Job names, used in logs and metric labels.
const (
	jobHealth       = "health_check"
	jobSync         = "transaction_sync"
	jobWeeklyReport = "weekly_report"
	jobBriefing     = "daily_briefing"
)

// Directory is the engine's view of the persistence layer.
type Directory interface {
	Ping(ctx context.Context) error
	ListTenants(ctx context.Context) ([]core.Tenant, error)
	GetSettings(ctx context.Context, tenantID uuid.UUID) (*core.Settings, error)
	SetLastWeeklyReportSent(ctx context.Context, tenantID uuid.UUID, sentAt time.Time) error
	SetLastBriefingSent(ctx context.Context, tenantID uuid.UUID, sentAt time.Time) error
	SaveBalances(ctx context.Context, tenantID uuid.UUID, balances []core.AccountBalance) error
}

// BankClient holds per-tenant credentials; the engine creates one per task.
type BankClient interface {
	Configure(creds banking.Credentials)
	TestConnectivity(ctx context.Context) (bool, string)
	ListAccounts(ctx context.Context) ([]banking.Account, error)
	GetBalance(ctx context.Context, accountID string) (float64, error)
}

type AIClient interface {
	Costless(useFallback bool) bool
	TestConnection(ctx context.Context, tenantID uuid.UUID, useFallback bool) (bool, string)
	Generate(ctx context.Context, tenantID uuid.UUID, prompt string, fallbackEnabled bool) string
}

type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

type Reporter interface {
	GenerateAndSend(ctx context.Context, tenantID uuid.UUID, settings *core.Settings) error
}

type Engine struct {
	repo          Directory
	newBankClient func() BankClient
	ai            AIClient
	notifier      Notifier
	reports       Reporter
	status        *status.Snapshot
	metrics       *metrics.Collector
	gate          *Gate
	cfg           config.EngineConfig
	logger        *zap.Logger
	wg            sync.WaitGroup
}

func New(
	repo Directory,
	newBankClient func() BankClient,
	aiClient AIClient,
	notifier Notifier,
	reports Reporter,
	snap *status.Snapshot,
	collector *metrics.Collector,
	cfg config.EngineConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		repo:          repo,
		newBankClient: newBankClient,
		ai:            aiClient,
		notifier:      notifier,
		reports:       reports,
		status:        snap,
		metrics:       collector,
		gate:          NewGate(cfg.MaxConcurrentTasks),
		cfg:           cfg,
		logger:        logger,
	}
}

// Start launches the four job loops. They run until ctx is canceled; call
// Wait to block until every loop has unwound.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting engine",
		zap.Int("max_concurrent_tasks", e.gate.Capacity()),
		zap.Duration("health_interval", e.cfg.HealthInterval),
		zap.Duration("sync_interval", e.cfg.SyncInterval),
	)

	e.wg.Add(4)
	go func() {
		defer e.wg.Done()
		e.runInterval(ctx, jobHealth, e.cfg.HealthInterval, e.runHealthCycle)
	}()
	go func() {
		defer e.wg.Done()
		e.runInterval(ctx, jobSync, e.cfg.SyncInterval, e.runSyncCycle)
	}()
	go func() {
		defer e.wg.Done()
		e.runInterval(ctx, jobWeeklyReport, e.cfg.WeeklyPollInterval, e.runWeeklyCycle)
	}()
	go func() {
		defer e.wg.Done()
		e.runDaily(ctx, jobBriefing, e.cfg.BriefingHour, e.runBriefingCycle)
	}()
}

func (e *Engine) Wait() {
	e.wg.Wait()
}

// cycleFunc is one job cycle. A non-nil error means the cycle was aborted
// before fan-out (database down, tenant listing failed); per-tenant failures
// never surface here.
type cycleFunc func(ctx context.Context, now time.Time) error

// runInterval fires the cycle immediately, then on every tick until ctx is
// canceled. An overrunning cycle simply delays its next tick; ticks are never
// queued up. A failed cycle is not retried here: the next tick is close.
func (e *Engine) runInterval(ctx context.Context, job string, every time.Duration, cycle cycleFunc) {
	logger := e.logger.With(zap.String("job", job))
	logger.Info("job loop started", zap.Duration("interval", every))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	e.safeCycle(ctx, job, cycle)

	for {
		select {
		case <-ctx.Done():
			logger.Info("job loop stopped")
			return
		case <-ticker.C:
			e.safeCycle(ctx, job, cycle)
		}
	}
}

// runDaily sleeps until the next occurrence of hour, runs the cycle, then
// reschedules. A start past today's slot waits for tomorrow. The next natural
// attempt is a day away, so a transiently failing cycle is retried once after
// a short backoff instead of losing the whole day.
func (e *Engine) runDaily(ctx context.Context, job string, hour int, cycle cycleFunc) {
	logger := e.logger.With(zap.String("job", job))

	for {
		next := NextDailyRun(time.Now(), hour)
		logger.Info("next run scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("job loop stopped")
			return
		case <-timer.C:
			e.runWithRetry(ctx, job, cycle)
		}
	}
}

// runWithRetry runs one cycle and, on an aborted cycle, retries once after
// the configured backoff before handing control back to the loop's schedule.
func (e *Engine) runWithRetry(ctx context.Context, job string, cycle cycleFunc) {
	if err := e.safeCycle(ctx, job, cycle); err == nil {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(e.cfg.LoopBackoff):
	}

	e.logger.Info("retrying aborted cycle", zap.String("job", job))
	e.safeCycle(ctx, job, cycle)
}

// safeCycle keeps a panicking cycle from killing its loop: it logs, backs off
// briefly, and lets the loop resume its normal schedule. Panics are absorbed,
// not reported as retryable failures.
func (e *Engine) safeCycle(ctx context.Context, job string, cycle cycleFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("job cycle panicked",
				zap.String("job", job),
				zap.Any("panic", r),
			)
			select {
			case <-ctx.Done():
			case <-time.After(e.cfg.LoopBackoff):
			}
		}
	}()

	return cycle(ctx, time.Now())
}
