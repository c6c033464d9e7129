// Package status holds the process-wide system health snapshot. All writes go
// through the Record methods so a check cycle can never half-commit: each
// sub-check either records its fresh result or leaves its fields untouched.
package status

import (
	"sync"
	"time"
)

type Snapshot struct {
	mu sync.RWMutex

	databaseOnline   bool
	bankingOnline    bool
	aiPrimaryOnline  bool
	aiFallbackOnline bool

	lastBankingCheck time.Time
	lastAICheck      time.Time
	lastError        string
}

// View is a read-only copy handed to status consumers.
type View struct {
	DatabaseOnline   bool       `json:"database_online"`
	BankingOnline    bool       `json:"banking_api_online"`
	AIPrimaryOnline  bool       `json:"ai_primary_online"`
	AIFallbackOnline bool       `json:"ai_fallback_online"`
	LastBankingCheck *time.Time `json:"last_banking_check,omitempty"`
	LastAICheck      *time.Time `json:"last_ai_check,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

func (s *Snapshot) RecordDatabase(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databaseOnline = online
}

func (s *Snapshot) RecordBanking(online bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankingOnline = online
	s.lastBankingCheck = time.Now()
	if errMsg != "" {
		s.lastError = errMsg
	}
}

func (s *Snapshot) RecordAIPrimary(online bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiPrimaryOnline = online
	s.lastAICheck = time.Now()
	if errMsg != "" {
		s.lastError = errMsg
	}
}

func (s *Snapshot) RecordAIFallback(online bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiFallbackOnline = online
	s.lastAICheck = time.Now()
	if errMsg != "" {
		s.lastError = errMsg
	}
}

func (s *Snapshot) RecordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Snapshot) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		DatabaseOnline:   s.databaseOnline,
		BankingOnline:    s.bankingOnline,
		AIPrimaryOnline:  s.aiPrimaryOnline,
		AIFallbackOnline: s.aiFallbackOnline,
		LastError:        s.lastError,
	}
	if !s.lastBankingCheck.IsZero() {
		t := s.lastBankingCheck
		v.LastBankingCheck = &t
	}
	if !s.lastAICheck.IsZero() {
		t := s.lastAICheck
		v.LastAICheck = &t
	}
	return v
}
