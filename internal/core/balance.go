package core

import (
	"time"

	"github.com/google/uuid"
)

// AccountBalance is one account's balance as fetched during a sync cycle.
type AccountBalance struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	AccountID string    `json:"account_id" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	Currency  string    `json:"currency" db:"currency"`
	Amount    float64   `json:"amount" db:"amount"`
	FetchedAt time.Time `json:"fetched_at" db:"fetched_at"`
}
