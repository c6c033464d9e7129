package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ZeroValueView(t *testing.T) {
	v := NewSnapshot().View()

	assert.False(t, v.DatabaseOnline)
	assert.False(t, v.BankingOnline)
	assert.Nil(t, v.LastBankingCheck)
	assert.Nil(t, v.LastAICheck)
	assert.Empty(t, v.LastError)
}

func TestSnapshot_RecordBankingSetsCheckTime(t *testing.T) {
	s := NewSnapshot()
	s.RecordBanking(true, "")

	v := s.View()
	assert.True(t, v.BankingOnline)
	require.NotNil(t, v.LastBankingCheck)
	assert.Nil(t, v.LastAICheck)
}

func TestSnapshot_ErrorMessagePersistsUntilOverwritten(t *testing.T) {
	s := NewSnapshot()
	s.RecordBanking(false, "invalid credentials")
	s.RecordBanking(true, "")

	// A clean result does not erase the last recorded error.
	assert.Equal(t, "invalid credentials", s.View().LastError)

	s.RecordAIPrimary(false, "quota exhausted")
	assert.Equal(t, "quota exhausted", s.View().LastError)
}

func TestSnapshot_PartialUpdateLeavesOtherFields(t *testing.T) {
	s := NewSnapshot()
	s.RecordBanking(true, "")
	s.RecordAIPrimary(true, "")
	s.RecordAIFallback(true, "")

	s.RecordDatabase(false)
	s.RecordError("dial tcp: connection refused")

	v := s.View()
	assert.False(t, v.DatabaseOnline)
	assert.True(t, v.BankingOnline)
	assert.True(t, v.AIPrimaryOnline)
	assert.True(t, v.AIFallbackOnline)
	assert.Equal(t, "dial tcp: connection refused", v.LastError)
}

func TestSnapshot_ViewIsACopy(t *testing.T) {
	s := NewSnapshot()
	s.RecordBanking(true, "")

	v := s.View()
	*v.LastBankingCheck = v.LastBankingCheck.AddDate(-1, 0, 0)

	assert.NotEqual(t, *v.LastBankingCheck, *s.View().LastBankingCheck)
}

func TestSnapshot_ConcurrentRecorders(t *testing.T) {
	s := NewSnapshot()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RecordBanking(i%2 == 0, "")
			s.RecordAIPrimary(true, "")
			s.View()
		}(i)
	}
	wg.Wait()

	assert.True(t, s.View().AIPrimaryOnline)
}
