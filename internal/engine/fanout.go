package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/core"
)

// Skip marks a tenant task as an intentional no-op. Skipped tasks still count
// as settled and are logged at debug, not error.
func Skip(reason string) error {
	return &skipError{reason: reason}
}

type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

type TaskResult struct {
	TenantID   uuid.UUID
	Err        error
	Skipped    bool
	SkipReason string
}

// fanOut runs fn once per tenant, bounded by the gate, and waits for every
// task to settle before returning. A failure or panic inside one tenant's
// task never reaches its siblings.
func (e *Engine) fanOut(ctx context.Context, job string, tenants []core.Tenant, fn func(ctx context.Context, tenant core.Tenant) error) []TaskResult {
	results := make([]TaskResult, len(tenants))
	var wg sync.WaitGroup

	for i := range tenants {
		wg.Add(1)
		go func(res *TaskResult, tenant core.Tenant) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					res.Err = fmt.Errorf("tenant task panic: %v", r)
				}
				e.settle(job, res)
			}()
			res.TenantID = tenant.ID

			if err := e.gate.Acquire(ctx); err != nil {
				res.Err = err
				return
			}
			e.metrics.TaskStarted()
			defer func() {
				e.gate.Release()
				e.metrics.TaskDone()
			}()

			err := fn(ctx, tenant)
			var skip *skipError
			switch {
			case err == nil:
			case errors.As(err, &skip):
				res.Skipped = true
				res.SkipReason = skip.reason
			default:
				res.Err = err
			}
		}(&results[i], tenants[i])
	}

	wg.Wait()
	return results
}

func (e *Engine) settle(job string, res *TaskResult) {
	switch {
	case res.Err != nil:
		e.logger.Error("tenant task failed",
			zap.String("job", job),
			zap.String("tenant_id", res.TenantID.String()),
			zap.Error(res.Err),
		)
		e.metrics.RecordTenantTask(job, "failed")
	case res.Skipped:
		e.logger.Debug("tenant task skipped",
			zap.String("job", job),
			zap.String("tenant_id", res.TenantID.String()),
			zap.String("reason", res.SkipReason),
		)
		e.metrics.RecordTenantTask(job, "skipped")
	default:
		e.metrics.RecordTenantTask(job, "ok")
	}
}
