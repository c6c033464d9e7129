package report

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/banking"
	"github.com/finbotd/finbot/internal/core"
)

type fakeBank struct {
	creds    banking.Credentials
	accounts []banking.Account
	balances map[string]float64
	errs     map[string]error
	listErr  error
}

func (f *fakeBank) Configure(creds banking.Credentials) { f.creds = creds }

func (f *fakeBank) ListAccounts(ctx context.Context) ([]banking.Account, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.accounts, nil
}

func (f *fakeBank) GetBalance(ctx context.Context, accountID string) (float64, error) {
	if err := f.errs[accountID]; err != nil {
		return 0, err
	}
	return f.balances[accountID], nil
}

type fakeSender struct {
	chatID string
	text   string
	calls  int
	err    error
}

func (f *fakeSender) Send(ctx context.Context, chatID, text string) error {
	f.calls++
	f.chatID = chatID
	f.text = text
	return f.err
}

func testSettings() *core.Settings {
	return &core.Settings{
		ChatID:        "chat-1",
		BankSecretID:  "sid-1",
		BankSecretKey: "skey-1",
	}
}

func TestGenerateAndSend_ComposesBalancesAndTotal(t *testing.T) {
	bank := &fakeBank{
		accounts: []banking.Account{
			{ID: "acc-1", Name: "Checking", Currency: "EUR"},
			{ID: "acc-2", Name: "Savings", Currency: "EUR"},
		},
		balances: map[string]float64{"acc-1": 1000.50, "acc-2": 250},
	}
	sender := &fakeSender{}
	g := NewGenerator(func() BankClient { return bank }, sender, zap.NewNop())

	err := g.GenerateAndSend(context.Background(), uuid.New(), testSettings())
	require.NoError(t, err)

	assert.Equal(t, banking.Credentials{SecretID: "sid-1", SecretKey: "skey-1"}, bank.creds)
	assert.Equal(t, "chat-1", sender.chatID)
	assert.Contains(t, sender.text, "Checking: 1000.50 EUR")
	assert.Contains(t, sender.text, "Savings: 250.00 EUR")
	assert.Contains(t, sender.text, "Total: 1250.50")
}

func TestGenerateAndSend_SkipsAccountsWithBalanceErrors(t *testing.T) {
	bank := &fakeBank{
		accounts: []banking.Account{
			{ID: "acc-1", Name: "Checking", Currency: "EUR"},
			{ID: "acc-2", Name: "Broken", Currency: "EUR"},
		},
		balances: map[string]float64{"acc-1": 100},
		errs:     map[string]error{"acc-2": errors.New("aggregator returned status 502")},
	}
	sender := &fakeSender{}
	g := NewGenerator(func() BankClient { return bank }, sender, zap.NewNop())

	err := g.GenerateAndSend(context.Background(), uuid.New(), testSettings())
	require.NoError(t, err)

	assert.Contains(t, sender.text, "Checking")
	assert.NotContains(t, sender.text, "Broken")
	assert.Contains(t, sender.text, "Total: 100.00")
}

func TestGenerateAndSend_ListAccountsFailureIsAnError(t *testing.T) {
	bank := &fakeBank{listErr: errors.New("aggregator unreachable")}
	sender := &fakeSender{}
	g := NewGenerator(func() BankClient { return bank }, sender, zap.NewNop())

	err := g.GenerateAndSend(context.Background(), uuid.New(), testSettings())
	require.Error(t, err)
	assert.Zero(t, sender.calls)
}

func TestGenerateAndSend_SendFailurePropagates(t *testing.T) {
	bank := &fakeBank{accounts: []banking.Account{{ID: "acc-1", Name: "Checking", Currency: "EUR"}}}
	sender := &fakeSender{err: errors.New("chat not found")}
	g := NewGenerator(func() BankClient { return bank }, sender, zap.NewNop())

	err := g.GenerateAndSend(context.Background(), uuid.New(), testSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending report")
}
