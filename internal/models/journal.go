package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a row of the journal_entries table.
// The source_* columns are null for entries written before source references existed.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	EntryDate       time.Time       `db:"entry_date"`
	Description     string          `db:"description"`
	DebitAccountID  string          `db:"debit_account_id"`
	CreditAccountID string          `db:"credit_account_id"`
	DebitAmount     decimal.Decimal `db:"debit_amount"`
	CreditAmount    decimal.Decimal `db:"credit_amount"`
	AmountUSD       decimal.Decimal `db:"amount_usd"`
	SourceKind      *string         `db:"source_kind"`
	SourceRecordID  *string         `db:"source_record_id"`
	SourceEvent     *string         `db:"source_event"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
