package mapping

import (
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/SscSPs/remittance_ledger/internal/models"
)

// ToModelJournalEntry flattens the source reference into nullable columns.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:         d.EntryID,
		EntryDate:       d.EntryDate,
		Description:     d.Description,
		DebitAccountID:  d.DebitAccountID,
		CreditAccountID: d.CreditAccountID,
		DebitAmount:     d.DebitAmount,
		CreditAmount:    d.CreditAmount,
		AmountUSD:       d.AmountUSD,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
	if d.Source != nil {
		m.SourceKind = nullable(string(d.Source.RecordKind))
		m.SourceRecordID = nullable(d.Source.RecordID)
		m.SourceEvent = nullable(string(d.Source.Event))
	}
	return m
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:         m.EntryID,
		EntryDate:       m.EntryDate,
		Description:     m.Description,
		DebitAccountID:  m.DebitAccountID,
		CreditAccountID: m.CreditAccountID,
		DebitAmount:     m.DebitAmount,
		CreditAmount:    m.CreditAmount,
		AmountUSD:       m.AmountUSD,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
	if m.SourceKind != nil && m.SourceRecordID != nil {
		d.Source = &domain.SourceRef{
			RecordKind: domain.RecordKind(*m.SourceKind),
			RecordID:   *m.SourceRecordID,
			Event:      domain.EntryEvent(deref(m.SourceEvent)),
		}
	}
	return d
}

// ToDomainJournalEntrySlice converts model rows to domain entries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
