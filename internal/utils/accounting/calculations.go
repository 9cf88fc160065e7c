package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// DateBasis selects which entry timestamp the period window is applied to.
type DateBasis string

const (
	BasisCreatedAt DateBasis = "createdAt"
	BasisEntryDate DateBasis = "date"
)

// ParseDateBasis returns BasisEntryDate for "date" and BasisCreatedAt for anything else.
func ParseDateBasis(s string) DateBasis {
	if strings.EqualFold(strings.TrimSpace(s), string(BasisEntryDate)) {
		return BasisEntryDate
	}
	return BasisCreatedAt
}

// BalanceOptions bounds a balance computation to [PeriodStart, AsOf]. Nil bounds are open.
type BalanceOptions struct {
	AsOf        *time.Time
	PeriodStart *time.Time
	Basis       DateBasis
}

// Timestamp is the entry time the window is applied to.
func (o BalanceOptions) Timestamp(e domain.JournalEntry) time.Time {
	if o.Basis == BasisEntryDate && !e.EntryDate.IsZero() {
		return e.EntryDate
	}
	return e.CreatedAt
}

// Includes reports whether the entry falls inside the window.
func (o BalanceOptions) Includes(e domain.JournalEntry) bool {
	ts := o.Timestamp(e)
	if o.PeriodStart != nil && ts.Before(*o.PeriodStart) {
		return false
	}
	if o.AsOf != nil && ts.After(*o.AsOf) {
		return false
	}
	return true
}

// ComputeBalance folds entries into the debit-positive balance of one account.
func ComputeBalance(accountID string, entries []domain.JournalEntry, opts BalanceOptions) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if !opts.Includes(e) {
			continue
		}
		if e.DebitAccountID == accountID {
			balance = balance.Add(e.DebitAmount)
		}
		if e.CreditAccountID == accountID {
			balance = balance.Sub(e.CreditAmount)
		}
	}
	return balance
}

// ComputeBalances is ComputeBalance for every account touched, in one pass.
func ComputeBalances(entries []domain.JournalEntry, opts BalanceOptions) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if !opts.Includes(e) {
			continue
		}
		balances[e.DebitAccountID] = balances[e.DebitAccountID].Add(e.DebitAmount)
		balances[e.CreditAccountID] = balances[e.CreditAccountID].Sub(e.CreditAmount)
	}
	return balances
}

// SideTotals holds the gross debit and credit turnover of an account.
type SideTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ComputeSideTotals sums each side separately, for trial balances.
func ComputeSideTotals(entries []domain.JournalEntry, opts BalanceOptions) map[string]SideTotals {
	totals := make(map[string]SideTotals)
	for _, e := range entries {
		if !opts.Includes(e) {
			continue
		}
		d := totals[e.DebitAccountID]
		d.Debit = d.Debit.Add(e.DebitAmount)
		totals[e.DebitAccountID] = d

		c := totals[e.CreditAccountID]
		c.Credit = c.Credit.Add(e.CreditAmount)
		totals[e.CreditAccountID] = c
	}
	return totals
}

// DisplayBalance applies the sign convention: credit-normal types are negated
// so a normal liability reads positive. This is the only place the rule lives.
func DisplayBalance(accountType domain.AccountType, raw decimal.Decimal) decimal.Decimal {
	if accountType.IsCreditNormal() {
		return raw.Neg()
	}
	return raw
}

// ParsePeriodStart parses a period start bound. Anything unparseable yields nil,
// meaning all history is included rather than none.
func ParsePeriodStart(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil || t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// ParseAsOf parses an upper bound. A bare date covers that whole day.
func ParseAsOf(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		end := d.Add(24*time.Hour - time.Nanosecond)
		return &end, nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid asOf %q: %w", raw, err)
	}
	t = t.UTC()
	return &t, nil
}

// ValidateLedgerBalance checks that the raw balances of all accounts net to zero.
func ValidateLedgerBalance(entries []domain.JournalEntry) error {
	sum := decimal.Zero
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		sum = sum.Add(e.DebitAmount).Sub(e.CreditAmount)
	}
	if !sum.IsZero() {
		return fmt.Errorf("ledger does not balance to zero: sum is %s", sum.String())
	}
	return nil
}
