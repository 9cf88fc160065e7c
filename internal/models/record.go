package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record represents a row of the records table (cash and USDT share it, keyed by kind).
type Record struct {
	Kind         string          `db:"kind"`
	RecordID     string          `db:"record_id"`
	FlowType     string          `db:"flow_type"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	AmountUSD    decimal.Decimal `db:"amount_usd"`
	AccountID    string          `db:"account_id"`
	ClientID     *string         `db:"client_id"`
	ClientName   *string         `db:"client_name"`
	RecordDate   time.Time       `db:"record_date"`
	Notes        *string         `db:"notes"`
	AuditFields
}

// Client represents a row of the clients table.
type Client struct {
	ClientID string `db:"client_id"`
	Name     string `db:"name"`
	AuditFields
}
