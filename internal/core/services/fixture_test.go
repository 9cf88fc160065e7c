package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/adapters/database/boltdb"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testUser      = "user-1"
	acmeID        = "1003113"
	acmeName      = "Acme Trading"
	acmeAccount   = "60001003113"
	bankAccount   = "116"
	walletAccount = "102"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// testChart is a small chart with the system accounts in place.
func testChart() []domain.Account {
	return []domain.Account{
		{AccountID: "1", Name: "Assets", AccountType: domain.Assets, IsGroup: true},
		{AccountID: bankAccount, Name: "Bank USD", AccountType: domain.Assets, ParentAccountID: "1", CurrencyCode: "USD"},
		{AccountID: walletAccount, Name: "USDT Wallet", AccountType: domain.Assets, ParentAccountID: "1", CurrencyCode: "USDT"},
		{AccountID: "2", Name: "Liabilities", AccountType: domain.Liabilities, IsGroup: true},
		{AccountID: domain.ClientAccountsGroupID, Name: "Client Accounts", AccountType: domain.Liabilities, IsGroup: true, ParentAccountID: "2"},
		{AccountID: domain.SuspenseGroupID, Name: "Unmatched Funds", AccountType: domain.Liabilities, IsGroup: true, ParentAccountID: "2"},
		{AccountID: domain.UnmatchedCashAccountID, Name: "Unmatched Cash", AccountType: domain.Liabilities, ParentAccountID: domain.SuspenseGroupID, CurrencyCode: "USD"},
		{AccountID: domain.UnmatchedUSDTAccountID, Name: "Unmatched USDT", AccountType: domain.Liabilities, ParentAccountID: domain.SuspenseGroupID, CurrencyCode: "USD"},
		{AccountID: "3", Name: "Equity", AccountType: domain.Equity, IsGroup: true},
		{AccountID: "4", Name: "Income", AccountType: domain.Income, IsGroup: true},
		{AccountID: "401", Name: "Exchange Fees", AccountType: domain.Income, ParentAccountID: "4"},
		{AccountID: "5", Name: "Expenses", AccountType: domain.Expenses, IsGroup: true},
		{AccountID: "501", Name: "Bank Charges", AccountType: domain.Expenses, ParentAccountID: "5"},
	}
}

// fakeClock hands out strictly increasing minutes so entries sort predictably.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

// newLedger opens a bolt store in a temp dir, imports the chart and registers Acme.
func newLedger(t *testing.T, options ...services.ServiceOption) (*boltdb.Store, *portssvc.ServiceContainer) {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	container := services.NewServiceContainer(store, options...)
	ctx := context.Background()
	require.NoError(t, container.Account.ImportChart(ctx, testChart(), testUser))
	_, err = container.Intake.RegisterClient(ctx, acmeID, acmeName, testUser)
	require.NoError(t, err)
	return store, container
}

func cashInflow(id, amountUSD string, clientID *string) domain.Record {
	return domain.Record{
		RecordID:     id,
		Kind:         domain.CashRecord,
		FlowType:     domain.Inflow,
		Amount:       d(amountUSD),
		CurrencyCode: "USD",
		AmountUSD:    d(amountUSD),
		AccountID:    bankAccount,
		ClientID:     clientID,
	}
}

// --- Mock EntryPublisher ---
type MockEntryPublisher struct {
	mock.Mock
}

var _ portssvc.EntryPublisher = (*MockEntryPublisher)(nil)

func (m *MockEntryPublisher) PublishEntryPosted(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryPublisher) Close() error {
	return m.Called().Error(0)
}

// --- Mock RecordLocker ---
type MockRecordLocker struct {
	mock.Mock
}

var _ portssvc.RecordLocker = (*MockRecordLocker)(nil)

func (m *MockRecordLocker) LockRecord(ctx context.Context, kind domain.RecordKind, recordID string, ttl time.Duration) (portssvc.UnlockFunc, error) {
	args := m.Called(ctx, kind, recordID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portssvc.UnlockFunc), args.Error(1)
}
