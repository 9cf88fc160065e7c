package domain

import "strings"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Assets      AccountType = "ASSETS"
	Liabilities AccountType = "LIABILITIES"
	Equity      AccountType = "EQUITY"
	Income      AccountType = "INCOME"
	Expenses    AccountType = "EXPENSES"
)

// AccountTypes lists the types in balance sheet order.
var AccountTypes = []AccountType{Assets, Liabilities, Equity, Income, Expenses}

// Valid reports whether t is one of the five known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Assets, Liabilities, Equity, Income, Expenses:
		return true
	}
	return false
}

// IsCreditNormal is true for types whose balance grows on the credit side.
func (t AccountType) IsCreditNormal() bool {
	return t == Liabilities || t == Equity || t == Income
}

// ParseAccountType accepts the canonical names plus the singular and
// mixed-case spellings found in hand-written charts ("Assets", "liability").
func ParseAccountType(s string) (AccountType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASSETS", "ASSET":
		return Assets, true
	case "LIABILITIES", "LIABILITY":
		return Liabilities, true
	case "EQUITY":
		return Equity, true
	case "INCOME", "REVENUE":
		return Income, true
	case "EXPENSES", "EXPENSE":
		return Expenses, true
	}
	return "", false
}

// Well known accounts.
const (
	UnmatchedCashAccountID = "7001" // suspense for cash inflows without a client
	UnmatchedUSDTAccountID = "7002" // suspense for USDT inflows without a client
	ClientAccountsGroupID  = "6000" // parent of every client liability account
	SuspenseGroupID        = "7000"

	// USD is the only currency the journal is kept in.
	USD = "USD"
)

// Account represents a node in the chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	AccountType     AccountType `json:"accountType" yaml:"type"`
	IsGroup         bool        `json:"isGroup" yaml:"isGroup"`
	ParentAccountID string      `json:"parentAccountID,omitempty" yaml:"parentId,omitempty"` // empty for roots
	CurrencyCode    string      `json:"currencyCode,omitempty" yaml:"currency,omitempty"`
	AuditFields     `yaml:"-"`
}

// Postable reports whether entries may reference this account directly.
func (a Account) Postable() bool {
	return !a.IsGroup
}

// ClientAccountID builds the liability account id for a client.
func ClientAccountID(clientID string) string {
	return ClientAccountsGroupID + clientID
}

// IsSuspenseAccount reports whether id is one of the unmatched suspense accounts.
func IsSuspenseAccount(id string) bool {
	return id == UnmatchedCashAccountID || id == UnmatchedUSDTAccountID
}
