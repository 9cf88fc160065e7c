package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryEvent names the record lifecycle step an entry was posted for.
type EntryEvent string

const (
	EventReceipt  EntryEvent = "RECEIPT"  // inflow
	EventPayment  EntryEvent = "PAYMENT"  // outflow
	EventTransfer EntryEvent = "TRANSFER" // suspense to client reassignment
)

// SourceRef ties an entry to the record it was posted for.
type SourceRef struct {
	RecordKind RecordKind `json:"recordKind"`
	RecordID   string     `json:"recordID"`
	Event      EntryEvent `json:"event"`
}

// JournalEntry is an immutable two-line posting kept in USD.
type JournalEntry struct {
	EntryID         string          `json:"entryID"` // UUIDv7, creation ordered
	EntryDate       time.Time       `json:"date"`
	Description     string          `json:"description"`
	DebitAccountID  string          `json:"debitAccount"`
	CreditAccountID string          `json:"creditAccount"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
	AmountUSD       decimal.Decimal `json:"amountUsd"`
	Source          *SourceRef      `json:"source,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// Validate checks the two-line balance rules.
func (e JournalEntry) Validate() error {
	if e.DebitAccountID == "" || e.CreditAccountID == "" {
		return fmt.Errorf("entry %s: debit and credit accounts are required", e.EntryID)
	}
	if e.DebitAccountID == e.CreditAccountID {
		return fmt.Errorf("entry %s: debit and credit account are both %s", e.EntryID, e.DebitAccountID)
	}
	if !e.DebitAmount.IsPositive() {
		return fmt.Errorf("entry %s: amount %s is not positive", e.EntryID, e.DebitAmount)
	}
	if !e.DebitAmount.Equal(e.CreditAmount) {
		return fmt.Errorf("entry %s: debit %s != credit %s", e.EntryID, e.DebitAmount, e.CreditAmount)
	}
	return nil
}

// Touches reports whether the entry has a leg on accountID.
func (e JournalEntry) Touches(accountID string) bool {
	return e.DebitAccountID == accountID || e.CreditAccountID == accountID
}

// RecordTag is the description marker for a record, e.g. "Rec #12".
func RecordTag(recordID string) string {
	return "Rec #" + recordID
}

// ReferencesRecord reports whether the entry belongs to the given record.
// Entries carrying a SourceRef are matched on it. Older entries without one
// fall back to the "Rec #id" description tag, bounded so that "Rec #12" does
// not match "Rec #123", and preceded by the book label ("Cash" or "USDT")
// since cash and USDT ids overlap.
func (e JournalEntry) ReferencesRecord(kind RecordKind, recordID string) bool {
	if e.Source != nil {
		return e.Source.RecordKind == kind && e.Source.RecordID == recordID
	}
	i := tagIndex(e.Description, RecordTag(recordID))
	return i >= 0 && hasWord(e.Description[:i], kind.Label())
}

// tagIndex returns the position of the first bounded occurrence of tag, or -1.
func tagIndex(desc, tag string) int {
	for offset := 0; offset < len(desc); {
		i := strings.Index(desc[offset:], tag)
		if i < 0 {
			return -1
		}
		end := offset + i + len(tag)
		if end == len(desc) || !isIDChar(desc[end]) {
			return offset + i
		}
		offset = end
	}
	return -1
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if strings.EqualFold(f, word) {
			return true
		}
	}
	return false
}

func isIDChar(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '-' || b == '_'
}
