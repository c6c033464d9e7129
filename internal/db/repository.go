package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/finbotd/finbot/internal/core"
)

// ErrNotFound is returned when a lookup matches no row. Callers treat it as
// a skip condition, not a failure.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sqlx.DB
}

func NewConnection(databaseURL string, maxConns, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Ping probes database reachability. It gates every check cycle.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Tenant directory
func (r *Repository) ListTenants(ctx context.Context) ([]core.Tenant, error) {
	tenants := []core.Tenant{}
	query := `
        SELECT t.id, t.email, t.is_admin, t.is_service_account, t.is_active,
               t.created_at, t.updated_at,
               (s.tenant_id IS NOT NULL) AS has_settings
        FROM tenants t
        LEFT JOIN tenant_settings s ON s.tenant_id = t.id
        WHERE t.is_active = true
        ORDER BY t.id`

	err := r.db.SelectContext(ctx, &tenants, query)
	return tenants, err
}

func (r *Repository) GetSettings(ctx context.Context, tenantID uuid.UUID) (*core.Settings, error) {
	var s core.Settings
	query := `SELECT * FROM tenant_settings WHERE tenant_id = $1`
	err := r.db.GetContext(ctx, &s, query, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Schedule state
func (r *Repository) SetLastWeeklyReportSent(ctx context.Context, tenantID uuid.UUID, sentAt time.Time) error {
	query := `UPDATE tenant_settings SET last_weekly_report_sent = $2, updated_at = NOW() WHERE tenant_id = $1`
	res, err := r.db.ExecContext(ctx, query, tenantID, sentAt)
	if err != nil {
		return err
	}
	return oneRow(res)
}

func (r *Repository) SetLastBriefingSent(ctx context.Context, tenantID uuid.UUID, sentAt time.Time) error {
	query := `UPDATE tenant_settings SET last_briefing_sent = $2, updated_at = NOW() WHERE tenant_id = $1`
	res, err := r.db.ExecContext(ctx, query, tenantID, sentAt)
	if err != nil {
		return err
	}
	return oneRow(res)
}

// SaveBalances records one sync cycle's balance snapshot for a tenant.
func (r *Repository) SaveBalances(ctx context.Context, tenantID uuid.UUID, balances []core.AccountBalance) error {
	if len(balances) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO account_balances (
            id, tenant_id, account_id, name, currency, amount, fetched_at
        ) VALUES (
            :id, :tenant_id, :account_id, :name, :currency, :amount, :fetched_at
        )`

	for i := range balances {
		if balances[i].ID == uuid.Nil {
			balances[i].ID = uuid.New()
		}
		balances[i].TenantID = tenantID
		if _, err := tx.NamedExecContext(ctx, query, balances[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no settings row: %w", ErrNotFound)
	}
	return nil
}
