package boltdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/remittance_ledger/internal/utils/pagination"
	bolt "go.etcd.io/bbolt"
)

func (r *repos) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, BucketEntries)
		if err != nil {
			return err
		}
		if b.Get([]byte(entry.EntryID)) != nil {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		return put(tx, BucketEntries, entry.EntryID, entry)
	})
}

// scanEntries returns the entries that satisfy keep, in creation order.
func (r *repos) scanEntries(keep func(e domain.JournalEntry) bool) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	err := r.view(func(tx *bolt.Tx) error {
		return forEach(tx, BucketEntries, func(e domain.JournalEntry) error {
			if keep(e) {
				entries = append(entries, e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []domain.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].EntryID < entries[j].EntryID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func (r *repos) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	if len(filter.AccountIDs) == 0 {
		return r.scanEntries(func(domain.JournalEntry) bool { return true })
	}
	want := make(map[string]bool, len(filter.AccountIDs))
	for _, id := range filter.AccountIDs {
		want[id] = true
	}
	return r.scanEntries(func(e domain.JournalEntry) bool {
		return want[e.DebitAccountID] || want[e.CreditAccountID]
	})
}

func (r *repos) FindEntriesBySource(ctx context.Context, kind domain.RecordKind, recordID string) ([]domain.JournalEntry, error) {
	return r.scanEntries(func(e domain.JournalEntry) bool {
		return e.ReferencesRecord(kind, recordID)
	})
}

func (r *repos) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	entries, err := r.scanEntries(func(e domain.JournalEntry) bool { return e.Touches(accountID) })
	if err != nil {
		return nil, nil, err
	}

	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		start := len(entries)
		for i, e := range entries {
			if pagination.After(e.CreatedAt, e.EntryID, cursorAt, cursorID) {
				start = i
				break
			}
		}
		entries = entries[start:]
	}

	if limit <= 0 || len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
	return page, &token, nil
}
