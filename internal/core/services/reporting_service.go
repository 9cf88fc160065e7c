package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface. It keeps no
// state: every call reads the chart and journal and folds them with the
// accounting package.
type reportingService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.ReportingService {
	o := applyOptions(options)
	return &reportingService{BaseService: BaseService{now: o.now}, store: store}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) loadTree(ctx context.Context) (*accounting.AccountTree, error) {
	accounts, err := s.store.Accounts().ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart of accounts")
		return nil, err
	}
	tree, err := accounting.NewAccountTree(accounts)
	if err != nil {
		s.LogError(ctx, err, "Stored chart of accounts is inconsistent")
		return nil, fmt.Errorf("stored chart of accounts is inconsistent: %w", err)
	}
	return tree, nil
}

func (s *reportingService) loadEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	entries, err := s.store.Journal().ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal entries")
		return nil, err
	}
	return entries, nil
}

// AccountBalance returns a leaf's own balance or a group's rolled up balance.
func (s *reportingService) AccountBalance(ctx context.Context, accountID string, opts accounting.BalanceOptions) (*domain.AccountBalance, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := tree.Account(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, accountID)
	}

	var ids []string
	tree.Walk(accountID, func(a domain.Account, _ int) {
		if !a.IsGroup {
			ids = append(ids, a.AccountID)
		}
	})
	if len(ids) == 0 {
		return balanceOf(account, decimal.Zero), nil
	}

	entries, err := s.loadEntries(ctx, portsrepo.EntryFilter{AccountIDs: ids})
	if err != nil {
		return nil, err
	}
	raw := accounting.ComputeBalances(entries, opts)
	return balanceOf(account, tree.RawBalance(accountID, raw)), nil
}

func balanceOf(a domain.Account, raw decimal.Decimal) *domain.AccountBalance {
	return &domain.AccountBalance{
		AccountID:   a.AccountID,
		Name:        a.Name,
		AccountType: a.AccountType,
		IsGroup:     a.IsGroup,
		Raw:         raw,
		Display:     accounting.DisplayBalance(a.AccountType, raw),
	}
}

// TrialBalance lists debit and credit turnover for every account with activity.
func (s *reportingService) TrialBalance(ctx context.Context, opts accounting.BalanceOptions) (*domain.TrialBalanceReport, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.loadEntries(ctx, portsrepo.EntryFilter{})
	if err != nil {
		return nil, err
	}

	totals := accounting.ComputeSideTotals(entries, opts)
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := &domain.TrialBalanceReport{AsOf: opts.AsOf, Rows: []domain.TrialBalanceRow{}}
	for _, id := range ids {
		t := totals[id]
		row := domain.TrialBalanceRow{AccountID: id, Debit: t.Debit, Credit: t.Credit}
		if a, ok := tree.Account(id); ok {
			row.AccountName, row.AccountType = a.Name, a.AccountType
		} else {
			s.LogWarn(ctx, "Journal references an account missing from the chart", slog.String("account_id", id))
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(t.Debit)
		report.TotalCredit = report.TotalCredit.Add(t.Credit)
	}
	return report, nil
}

// ProfitAndLoss lists income and expense accounts for the window.
func (s *reportingService) ProfitAndLoss(ctx context.Context, opts accounting.BalanceOptions) (*domain.PAndLReport, error) {
	tree, raw, err := s.rawBalances(ctx, opts)
	if err != nil {
		return nil, err
	}
	income, _ := section(tree, raw, domain.Income)
	expenses, _ := section(tree, raw, domain.Expenses)
	return &domain.PAndLReport{
		PeriodStart: opts.PeriodStart,
		AsOf:        opts.AsOf,
		Income:      income,
		Expenses:    expenses,
		NetProfit:   tree.NetIncome(raw),
	}, nil
}

// BalanceSheet reports assets, liabilities and equity, with income less
// expenses carried as a synthetic equity line.
func (s *reportingService) BalanceSheet(ctx context.Context, opts accounting.BalanceOptions) (*domain.BalanceSheetReport, error) {
	tree, raw, err := s.rawBalances(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{AsOf: opts.AsOf, PeriodStart: opts.PeriodStart}
	report.Assets, report.TotalAssets = section(tree, raw, domain.Assets)
	report.Liabilities, report.TotalLiabilities = section(tree, raw, domain.Liabilities)
	report.Equity, report.TotalEquity = section(tree, raw, domain.Equity)

	report.NetIncome = tree.NetIncome(raw)
	report.Equity = append(report.Equity, domain.AccountAmount{
		AccountID: domain.NetIncomeLineID,
		Name:      "Net Income",
		Amount:    report.NetIncome,
	})
	report.TotalEquity = report.TotalEquity.Add(report.NetIncome)
	return report, nil
}

func (s *reportingService) rawBalances(ctx context.Context, opts accounting.BalanceOptions) (*accounting.AccountTree, map[string]decimal.Decimal, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.loadEntries(ctx, portsrepo.EntryFilter{})
	if err != nil {
		return nil, nil, err
	}
	return tree, accounting.ComputeBalances(entries, opts), nil
}

// section flattens the subtree of one account type in display order and
// returns it with the sum of its root balances.
func section(tree *accounting.AccountTree, raw map[string]decimal.Decimal, t domain.AccountType) ([]domain.AccountAmount, decimal.Decimal) {
	lines := []domain.AccountAmount{}
	total := decimal.Zero
	for _, root := range tree.Roots(t) {
		total = total.Add(tree.DisplayBalance(root.AccountID, raw))
		tree.Walk(root.AccountID, func(a domain.Account, depth int) {
			lines = append(lines, domain.AccountAmount{
				AccountID: a.AccountID,
				Name:      a.Name,
				Depth:     depth,
				IsGroup:   a.IsGroup,
				Amount:    tree.DisplayBalance(a.AccountID, raw),
			})
		})
	}
	return lines, total
}

// ClientStatement lists the client's liability account with a running balance.
// Entries before PeriodStart are folded into the opening balance.
func (s *reportingService) ClientStatement(ctx context.Context, clientID string, opts accounting.BalanceOptions) (*domain.ClientStatement, error) {
	client, err := findClient(ctx, s.store.Clients(), clientID)
	if err != nil {
		return nil, err
	}
	accountID := domain.ClientAccountID(clientID)
	statement := &domain.ClientStatement{
		ClientID:   client.ClientID,
		ClientName: client.Name,
		AccountID:  accountID,
		Lines:      []domain.StatementLine{},
	}

	if _, err := s.store.Accounts().FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return statement, nil // nothing posted to this client yet
		}
		return nil, err
	}

	entries, err := s.loadEntries(ctx, portsrepo.EntryFilter{AccountIDs: []string{accountID}})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return opts.Timestamp(entries[i]).Before(opts.Timestamp(entries[j]))
	})

	var earlier []domain.JournalEntry
	if opts.PeriodStart != nil {
		for _, e := range entries {
			if opts.Timestamp(e).Before(*opts.PeriodStart) {
				earlier = append(earlier, e)
			}
		}
	}
	raw := accounting.ComputeBalance(accountID, earlier, accounting.BalanceOptions{})
	statement.OpeningBalance = accounting.DisplayBalance(domain.Liabilities, raw)

	for _, e := range entries {
		if !opts.Includes(e) {
			continue
		}
		line := domain.StatementLine{
			EntryID:     e.EntryID,
			Date:        opts.Timestamp(e),
			Description: e.Description,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if e.DebitAccountID == accountID {
			line.Debit = e.DebitAmount
		}
		if e.CreditAccountID == accountID {
			line.Credit = e.CreditAmount
		}
		raw = raw.Add(line.Debit).Sub(line.Credit)
		line.Balance = accounting.DisplayBalance(domain.Liabilities, raw)
		statement.Lines = append(statement.Lines, line)
	}
	statement.ClosingBalance = accounting.DisplayBalance(domain.Liabilities, raw)
	return statement, nil
}
