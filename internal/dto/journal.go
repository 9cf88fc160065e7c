package dto

import (
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string            `json:"entryID"`
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	DebitAccount  string            `json:"debitAccount"`
	CreditAccount string            `json:"creditAccount"`
	AmountUSD     decimal.Decimal   `json:"amountUsd"`
	Source        *domain.SourceRef `json:"source,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		Date:          e.EntryDate,
		Description:   e.Description,
		DebitAccount:  e.DebitAccountID,
		CreditAccount: e.CreditAccountID,
		AmountUSD:     e.AmountUSD,
		Source:        e.Source,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ListEntriesParams defines query parameters for paging an account's entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// PostRecordRequest carries an already normalized record for direct posting.
type PostRecordRequest struct {
	RecordID   string          `json:"recordID" binding:"required,max=64"`
	Kind       string          `json:"kind" binding:"required,oneof=cash usdt"`
	FlowType   string          `json:"type" binding:"required,oneof=inflow outflow"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	AmountUSD  decimal.Decimal `json:"amountUsd"`
	AccountID  string          `json:"accountID" binding:"required"`
	ClientID   *string         `json:"clientID"`
	RecordDate *time.Time      `json:"date"`
	Notes      string          `json:"notes"`
}

// ToDomainRecord builds the engine's record from the request. Amount defaults
// to AmountUSD when absent.
func (r PostRecordRequest) ToDomainRecord() domain.Record {
	rec := domain.Record{
		RecordID:     r.RecordID,
		Kind:         domain.RecordKind(r.Kind),
		FlowType:     domain.FlowType(r.FlowType),
		Amount:       r.Amount,
		CurrencyCode: r.Currency,
		AmountUSD:    r.AmountUSD,
		AccountID:    r.AccountID,
		Notes:        r.Notes,
	}
	if rec.Amount.IsZero() {
		rec.Amount = r.AmountUSD
	}
	if r.ClientID != nil && *r.ClientID != "" {
		rec.ClientID = r.ClientID
	}
	if r.RecordDate != nil {
		rec.RecordDate = r.RecordDate.UTC()
	}
	return rec
}

// ReassignRequest names the client an unmatched record belongs to.
type ReassignRequest struct {
	ClientID string `json:"clientID" binding:"required"`
}

// SubmitRecordResponse returns the stored record with the entry posted for it.
type SubmitRecordResponse struct {
	Record domain.Record `json:"record"`
	Entry  EntryResponse `json:"entry"`
}
