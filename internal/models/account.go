package models

// AccountType is the account_type column value.
type AccountType string

// Account represents a row of the accounts table.
type Account struct {
	AccountID       string      `db:"account_id"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	IsGroup         bool        `db:"is_group"`
	ParentAccountID *string     `db:"parent_account_id"` // Nullable
	CurrencyCode    *string     `db:"currency_code"`     // Nullable
	AuditFields
}
