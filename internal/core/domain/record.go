package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind discriminates the two record books the ledger posts from.
type RecordKind string

const (
	CashRecord RecordKind = "cash"
	USDTRecord RecordKind = "usdt"
)

// Valid reports whether k is a known record kind.
func (k RecordKind) Valid() bool {
	return k == CashRecord || k == USDTRecord
}

// SuspenseAccountID returns the unmatched account that absorbs inflows of this kind
// until a client is identified.
func (k RecordKind) SuspenseAccountID() string {
	if k == USDTRecord {
		return UnmatchedUSDTAccountID
	}
	return UnmatchedCashAccountID
}

// Label is the display name used in entry descriptions.
func (k RecordKind) Label() string {
	if k == USDTRecord {
		return "USDT"
	}
	return "Cash"
}

// FlowType is the direction of money relative to the business.
type FlowType string

const (
	Inflow  FlowType = "inflow"
	Outflow FlowType = "outflow"
)

// Valid reports whether f is inflow or outflow.
func (f FlowType) Valid() bool {
	return f == Inflow || f == Outflow
}

// Record is the canonical, already-normalized cash or USDT movement handed to
// the posting engine. Amount is in CurrencyCode; only AmountUSD is ever posted.
type Record struct {
	RecordID     string          `json:"recordID"`
	Kind         RecordKind      `json:"kind"`
	FlowType     FlowType        `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency"`
	AmountUSD    decimal.Decimal `json:"amountUsd"`
	AccountID    string          `json:"accountID"`
	ClientID     *string         `json:"clientID,omitempty"`
	ClientName   string          `json:"clientName,omitempty"`
	RecordDate   time.Time       `json:"date"`
	Notes        string          `json:"notes,omitempty"`
	AuditFields
}

// HasClient reports whether a client is attached.
func (r Record) HasClient() bool {
	return r.ClientID != nil && *r.ClientID != ""
}

// Client is a customer who holds a liability balance with the business.
type Client struct {
	ClientID string `json:"clientID"`
	Name     string `json:"name"`
	AuditFields
}
