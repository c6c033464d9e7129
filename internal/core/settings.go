package core

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds per-tenant feature configuration. A tenant has zero or one
// settings row; absence means the tenant is skipped, not failed.
type Settings struct {
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`

	// Notification channel
	ChatID string `json:"chat_id" db:"chat_id"`

	// Banking aggregator credentials
	BankSecretID  string `json:"-" db:"bank_secret_id"`
	BankSecretKey string `json:"-" db:"bank_secret_key"`

	// AI features
	AIEnabled         bool   `json:"ai_enabled" db:"ai_enabled"`
	AIFallbackEnabled bool   `json:"ai_fallback_enabled" db:"ai_fallback_enabled"`
	Persona           string `json:"persona" db:"persona"`

	// Weekly report schedule (tenant-local wall clock)
	ReportDay  int `json:"report_day" db:"report_day"` // 0 = Sunday, matches time.Weekday
	ReportHour int `json:"report_hour" db:"report_hour"`

	// Dedup markers, persisted so a restart never re-sends
	LastWeeklyReportSent *time.Time `json:"last_weekly_report_sent" db:"last_weekly_report_sent"`
	LastBriefingSent     *time.Time `json:"last_briefing_sent" db:"last_briefing_sent"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (s *Settings) HasBankCredentials() bool {
	return s != nil && s.BankSecretID != "" && s.BankSecretKey != ""
}
