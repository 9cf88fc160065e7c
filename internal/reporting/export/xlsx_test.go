package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBalanceSheet(t *testing.T) {
	asOf := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	report := &domain.BalanceSheetReport{
		AsOf: &asOf,
		Assets: []domain.AccountAmount{
			{AccountID: "1", Name: "Assets", IsGroup: true, Amount: decimal.RequireFromString("229.04")},
			{AccountID: "116", Name: "Bank USD", Depth: 1, Amount: decimal.RequireFromString("229.04")},
		},
		Liabilities: []domain.AccountAmount{
			{AccountID: "60001003113", Name: "Acme Trading", Amount: decimal.RequireFromString("226.04")},
		},
		Equity: []domain.AccountAmount{
			{AccountID: domain.NetIncomeLineID, Name: "Net Income", Amount: decimal.NewFromInt(3)},
		},
		NetIncome:        decimal.NewFromInt(3),
		TotalAssets:      decimal.RequireFromString("229.04"),
		TotalLiabilities: decimal.RequireFromString("226.04"),
		TotalEquity:      decimal.NewFromInt(3),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBalanceSheet(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(balanceSheetName)
	require.NoError(t, err)
	assert.Equal(t, "Balance Sheet as of 2024-03-31 23:59", rows[0][0])

	var found bool
	for _, r := range rows {
		if len(r) == 3 && r[0] == "  Bank USD" {
			found = true
			assert.Equal(t, "116", r[1])
			assert.Equal(t, "229.04", r[2])
		}
	}
	assert.True(t, found, "leaf accounts are indented under their group")
	last := rows[len(rows)-1]
	assert.Equal(t, []string{"Liabilities + Equity", "", "229.04"}, last)
}

func TestWriteTrialBalance(t *testing.T) {
	report := &domain.TrialBalanceReport{
		Rows: []domain.TrialBalanceRow{
			{AccountID: "116", AccountName: "Bank USD", AccountType: domain.Assets, Debit: decimal.NewFromInt(10), Credit: decimal.Zero},
			{AccountID: "7001", AccountName: "Unmatched Cash", AccountType: domain.Liabilities, Debit: decimal.Zero, Credit: decimal.NewFromInt(10)},
		},
		TotalDebit:  decimal.NewFromInt(10),
		TotalCredit: decimal.NewFromInt(10),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrialBalance(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cell, err := f.GetCellValue(trialBalanceName, "C3")
	require.NoError(t, err)
	assert.Equal(t, "LIABILITIES", cell)
	total, err := f.GetCellValue(trialBalanceName, "E4")
	require.NoError(t, err)
	assert.Equal(t, "10", total)
}
