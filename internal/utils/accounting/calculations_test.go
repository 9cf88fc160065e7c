package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(debit, credit, amount string, createdAt time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		DebitAccountID:  debit,
		CreditAccountID: credit,
		DebitAmount:     d(amount),
		CreditAmount:    d(amount),
		AmountUSD:       d(amount),
		CreatedAt:       createdAt,
		EntryDate:       createdAt,
	}
}

var (
	jan1  = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	jan15 = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	feb1  = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
)

func sampleEntries() []domain.JournalEntry {
	return []domain.JournalEntry{
		entry("116", "7001", "26.04", jan1),          // cash inflow, no client
		entry("7001", "60001003113", "26.04", jan15), // reassignment
		entry("116", "60001003113", "200", jan15),    // inflow, client known
		entry("60001003113", "116", "50", feb1),      // outflow
		entry("102", "7002", "50", feb1),             // usdt inflow, no client
	}
}

func TestComputeBalance(t *testing.T) {
	entries := sampleEntries()
	all := BalanceOptions{}

	assert.True(t, d("176.04").Equal(ComputeBalance("116", entries, all)))
	assert.True(t, ComputeBalance("7001", entries, all).IsZero())
	assert.True(t, d("-176.04").Equal(ComputeBalance("60001003113", entries, all)))
	assert.True(t, d("-50").Equal(ComputeBalance("7002", entries, all)))
	assert.True(t, ComputeBalance("999", entries, all).IsZero())
}

func TestComputeBalance_Window(t *testing.T) {
	entries := sampleEntries()

	asOf := jan1
	got := ComputeBalance("7001", entries, BalanceOptions{AsOf: &asOf})
	assert.True(t, d("-26.04").Equal(got), "asOf bound is inclusive")

	start := jan15
	got = ComputeBalance("116", entries, BalanceOptions{PeriodStart: &start})
	assert.True(t, d("150").Equal(got), "periodStart bound is inclusive")

	end := jan15
	got = ComputeBalance("60001003113", entries, BalanceOptions{PeriodStart: &start, AsOf: &end})
	assert.True(t, d("-226.04").Equal(got))
}

func TestComputeBalance_DateBasis(t *testing.T) {
	backdated := entry("116", "7001", "10", feb1)
	backdated.EntryDate = jan1
	entries := []domain.JournalEntry{backdated}
	asOf := jan15

	assert.True(t, ComputeBalance("116", entries, BalanceOptions{AsOf: &asOf}).IsZero())
	assert.True(t, d("10").Equal(ComputeBalance("116", entries, BalanceOptions{AsOf: &asOf, Basis: BasisEntryDate})))
}

func TestComputeBalances_MatchesPerAccountFold(t *testing.T) {
	entries := sampleEntries()
	balances := ComputeBalances(entries, BalanceOptions{})

	for id, b := range balances {
		assert.True(t, ComputeBalance(id, entries, BalanceOptions{}).Equal(b), id)
	}
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	assert.True(t, sum.IsZero(), "raw balances of all accounts net to zero")
	require.NoError(t, ValidateLedgerBalance(entries))
}

func TestComputeSideTotals(t *testing.T) {
	totals := ComputeSideTotals(sampleEntries(), BalanceOptions{})
	assert.True(t, d("226.04").Equal(totals["116"].Debit))
	assert.True(t, d("50").Equal(totals["116"].Credit))
}

func TestDisplayBalance(t *testing.T) {
	b := d("-176.04")
	assert.True(t, b.Neg().Equal(DisplayBalance(domain.Liabilities, b)))
	assert.True(t, b.Neg().Equal(DisplayBalance(domain.Equity, b)))
	assert.True(t, b.Neg().Equal(DisplayBalance(domain.Income, b)))
	assert.True(t, b.Equal(DisplayBalance(domain.Assets, b)))
	assert.True(t, b.Equal(DisplayBalance(domain.Expenses, b)))
}

func TestParsePeriodStart(t *testing.T) {
	got := ParsePeriodStart("2024-01-15")
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	got = ParsePeriodStart("2024-01-15T10:00:00Z")
	require.NotNil(t, got)
	assert.True(t, got.Equal(jan15))

	assert.Nil(t, ParsePeriodStart(""))
	assert.Nil(t, ParsePeriodStart("not a date"))
	assert.Nil(t, ParsePeriodStart("2024-13-45"))
}

func TestInvalidPeriodStartIncludesAllHistory(t *testing.T) {
	entries := sampleEntries()
	opts := BalanceOptions{PeriodStart: ParsePeriodStart("garbage")}
	assert.True(t, d("176.04").Equal(ComputeBalance("116", entries, opts)))
}

func TestParseAsOf(t *testing.T) {
	got, err := ParseAsOf("2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
	assert.True(t, got.After(jan15), "bare date covers the whole day")

	got, err = ParseAsOf("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseAsOf("yesterday")
	assert.Error(t, err)
}

func TestValidateLedgerBalance_RejectsBrokenEntry(t *testing.T) {
	bad := entry("116", "7001", "10", jan1)
	bad.CreditAmount = d("9")
	assert.Error(t, ValidateLedgerBalance([]domain.JournalEntry{bad}))
}

func TestParseDateBasis(t *testing.T) {
	assert.Equal(t, BasisEntryDate, ParseDateBasis("date"))
	assert.Equal(t, BasisCreatedAt, ParseDateBasis(""))
	assert.Equal(t, BasisCreatedAt, ParseDateBasis("whatever"))
}
