package core

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	IsService bool      `json:"is_service_account" db:"is_service_account"`
	IsActive  bool      `json:"is_active" db:"is_active"`

	// HasSettings is computed on read; a tenant without settings is
	// excluded from any fan-out that needs them.
	HasSettings bool `json:"has_settings" db:"has_settings"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
