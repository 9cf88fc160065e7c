package services

import (
	"context"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for accounts
type AccountReaderSvc interface {
	// ResolvePostableAccount returns the account if it exists and is not a group.
	ResolvePostableAccount(ctx context.Context, accountID string) (*domain.Account, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// ChartAdminSvc defines chart-of-accounts administration
type ChartAdminSvc interface {
	// ValidateChart checks tree shape, types and the well-known system accounts.
	ValidateChart(accounts []domain.Account) error

	// ImportChart validates then upserts every account.
	ImportChart(ctx context.Context, accounts []domain.Account, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	ChartAdminSvc
}
