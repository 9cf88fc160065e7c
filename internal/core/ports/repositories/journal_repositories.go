package repositories

import (
	"context"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
)

// EntryFilter narrows ListEntries. The zero value matches every entry.
type EntryFilter struct {
	// AccountIDs keeps entries with a leg on any of these accounts.
	AccountIDs []string
}

// JournalReader defines read operations for journal entries.
// All listings are ordered by (createdAt, entryID) ascending.
type JournalReader interface {
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.JournalEntry, error)

	// FindEntriesBySource returns entries posted for a record: those whose source
	// reference names it and, for entries without one, those tagged "Rec #id".
	FindEntriesBySource(ctx context.Context, kind domain.RecordKind, recordID string) ([]domain.JournalEntry, error)

	// ListEntriesByAccount pages through one account's entries.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter appends entries. There is no update or delete.
type JournalWriter interface {
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
