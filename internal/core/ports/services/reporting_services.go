package services

import (
	"context"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
)

// ReportingService derives balances and reports from the journal. Every figure
// goes through the accounting package aggregator.
type ReportingService interface {
	// AccountBalance returns one account's balance; groups roll up their children.
	AccountBalance(ctx context.Context, accountID string, opts accounting.BalanceOptions) (*domain.AccountBalance, error)

	// TrialBalance lists debit and credit turnover per postable account
	TrialBalance(ctx context.Context, opts accounting.BalanceOptions) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss lists income and expense accounts for a period
	ProfitAndLoss(ctx context.Context, opts accounting.BalanceOptions) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet with net income as an equity line
	BalanceSheet(ctx context.Context, opts accounting.BalanceOptions) (*domain.BalanceSheetReport, error)

	// ClientStatement lists a client's liability account history with running balances
	ClientStatement(ctx context.Context, clientID string, opts accounting.BalanceOptions) (*domain.ClientStatement, error)
}

// LedgerQueryService answers questions about individual entries.
type LedgerQueryService interface {
	// EntriesForRecord finds all entries posted for a record.
	EntriesForRecord(ctx context.Context, kind domain.RecordKind, recordID string) ([]domain.JournalEntry, error)

	ListAccountEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}
