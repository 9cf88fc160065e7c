package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetIncomeLineID identifies the synthetic equity line carrying income minus expenses.
const NetIncomeLineID = "NET_INCOME"

// AccountBalance is one account's balance in both sign conventions.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	IsGroup     bool            `json:"isGroup"`
	Raw         decimal.Decimal `json:"raw"`     // debit positive
	Display     decimal.Decimal `json:"display"` // sign flipped for credit-normal types
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every postable account with activity.
type TrialBalanceReport struct {
	AsOf        *time.Time        `json:"asOf,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount represents an account with its displayed amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Depth     int             `json:"depth"`
	IsGroup   bool            `json:"isGroup"`
	Amount    decimal.Decimal `json:"amount"`
}

// PAndLReport represents a profit and loss report over a period
type PAndLReport struct {
	PeriodStart *time.Time      `json:"periodStart,omitempty"`
	AsOf        *time.Time      `json:"asOf,omitempty"`
	Income      []AccountAmount `json:"income"`
	Expenses    []AccountAmount `json:"expenses"`
	NetProfit   decimal.Decimal `json:"netProfit"` // same figure as the balance sheet net income line
}

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	AsOf             *time.Time      `json:"asOf,omitempty"`
	PeriodStart      *time.Time      `json:"periodStart,omitempty"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"` // includes net income
}

// StatementLine is one entry on a client statement with the balance after it.
type StatementLine struct {
	EntryID     string          `json:"entryID"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // display sign
}

// ClientStatement is the history of one client liability account.
type ClientStatement struct {
	ClientID       string          `json:"clientID"`
	ClientName     string          `json:"clientName"`
	AccountID      string          `json:"accountID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []StatementLine `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
