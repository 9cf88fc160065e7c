package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
)

// accountRegistry is the chart of accounts as seen by the posting engine.
type accountRegistry struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewAccountService creates the account registry service.
func NewAccountService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.AccountSvcFacade {
	o := applyOptions(options)
	return &accountRegistry{BaseService: BaseService{now: o.now}, store: store}
}

var _ portssvc.AccountSvcFacade = (*accountRegistry)(nil)

func (s *accountRegistry) ResolvePostableAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return resolvePostableAccount(ctx, s.store.Accounts(), accountID)
}

func (s *accountRegistry) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.store.Accounts().ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountRegistry) ValidateChart(accounts []domain.Account) error {
	return validateChart(accounts)
}

// ImportChart upserts the chart parents first in a single transaction.
func (s *accountRegistry) ImportChart(ctx context.Context, accounts []domain.Account, userID string) error {
	if err := validateChart(accounts); err != nil {
		s.LogWarn(ctx, "Rejected chart import", slog.String("error", err.Error()))
		return err
	}
	tree, err := accounting.NewAccountTree(accounts)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidChart, err)
	}

	var ordered []domain.Account
	for _, t := range domain.AccountTypes {
		for _, root := range tree.Roots(t) {
			tree.Walk(root.AccountID, func(a domain.Account, _ int) {
				ordered = append(ordered, a)
			})
		}
	}

	now := s.Now()
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.LedgerRepositories) error {
		for _, a := range ordered {
			a.CreatedAt, a.CreatedBy = now, userID
			a.LastUpdatedAt, a.LastUpdatedBy = now, userID
			if err := repos.Accounts().UpsertAccount(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to import chart of accounts")
		return err
	}
	s.LogInfo(ctx, "Chart of accounts imported", slog.Int("accounts", len(ordered)), slog.String("user_id", userID))
	return nil
}

// resolvePostableAccount is the registry check run before every write.
func resolvePostableAccount(ctx context.Context, accounts portsrepo.AccountReader, accountID string) (*domain.Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account id is empty", apperrors.ErrUnknownAccount)
	}
	account, err := accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, accountID)
		}
		return nil, err
	}
	if !account.Postable() {
		return nil, fmt.Errorf("%w: %s (%s) is a group account", apperrors.ErrNotPostable, accountID, account.Name)
	}
	return account, nil
}

// resolveAssetAccount additionally requires the bank or wallet side of a record to be an asset.
func resolveAssetAccount(ctx context.Context, accounts portsrepo.AccountReader, accountID string) (*domain.Account, error) {
	account, err := resolvePostableAccount(ctx, accounts, accountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType != domain.Assets {
		return nil, fmt.Errorf("%w: %s is %s, records post against asset accounts", apperrors.ErrNotPostable, accountID, account.AccountType)
	}
	return account, nil
}

// ensureClientAccount returns the client's liability account, opening it under
// the client accounts group the first time the client is posted to.
func ensureClientAccount(ctx context.Context, accounts portsrepo.AccountRepositoryFacade, client domain.Client, userID string, now time.Time) (*domain.Account, error) {
	accountID := domain.ClientAccountID(client.ClientID)
	account, err := accounts.FindAccountByID(ctx, accountID)
	switch {
	case err == nil:
		if !account.Postable() || account.AccountType != domain.Liabilities {
			return nil, fmt.Errorf("%w: client account %s must be a postable liability", apperrors.ErrNotPostable, accountID)
		}
		return account, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	account = &domain.Account{
		AccountID:       accountID,
		Name:            client.Name,
		AccountType:     domain.Liabilities,
		ParentAccountID: domain.ClientAccountsGroupID,
		CurrencyCode:    domain.USD,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: userID,
			LastUpdatedAt: now, LastUpdatedBy: userID,
		},
	}
	if err := accounts.SaveAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to open client account %s: %w", accountID, err)
	}
	return account, nil
}

func validateChart(accounts []domain.Account) error {
	var problems []string
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		if strings.TrimSpace(a.AccountID) == "" {
			problems = append(problems, fmt.Sprintf("account %q has no id", a.Name))
			continue
		}
		if !a.AccountType.Valid() {
			problems = append(problems, fmt.Sprintf("account %s has unknown type %q", a.AccountID, a.AccountType))
		}
		byID[a.AccountID] = a
	}

	if _, err := accounting.NewAccountTree(accounts); err != nil {
		problems = append(problems, err.Error())
	}

	for _, a := range accounts {
		if a.ParentAccountID == "" {
			continue
		}
		parent, ok := byID[a.ParentAccountID]
		if !ok {
			continue // reported by the tree
		}
		if !parent.IsGroup {
			problems = append(problems, fmt.Sprintf("account %s has parent %s which is not a group", a.AccountID, parent.AccountID))
		}
		if parent.AccountType != a.AccountType {
			problems = append(problems, fmt.Sprintf("account %s is %s but its parent %s is %s", a.AccountID, a.AccountType, parent.AccountID, parent.AccountType))
		}
	}

	for _, id := range []string{domain.UnmatchedCashAccountID, domain.UnmatchedUSDTAccountID} {
		a, ok := byID[id]
		if !ok || a.IsGroup || a.AccountType != domain.Liabilities {
			problems = append(problems, fmt.Sprintf("suspense account %s must exist as a postable liability", id))
		}
	}
	if a, ok := byID[domain.ClientAccountsGroupID]; !ok || !a.IsGroup || a.AccountType != domain.Liabilities {
		problems = append(problems, fmt.Sprintf("client accounts group %s must exist as a liability group", domain.ClientAccountsGroupID))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidChart, strings.Join(problems, "; "))
	}
	return nil
}
