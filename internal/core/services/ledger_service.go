package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
)

const (
	defaultEntryPageSize = 50
	maxEntryPageSize     = 500
)

type ledgerQueryService struct {
	BaseService
	journal portsrepo.JournalReader
}

// NewLedgerQueryService creates the read side of the journal.
func NewLedgerQueryService(journal portsrepo.JournalReader) portssvc.LedgerQueryService {
	return &ledgerQueryService{journal: journal}
}

var _ portssvc.LedgerQueryService = (*ledgerQueryService)(nil)

func (s *ledgerQueryService) EntriesForRecord(ctx context.Context, kind domain.RecordKind, recordID string) ([]domain.JournalEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown record kind %q", apperrors.ErrInvalidRecord, kind)
	}
	entries, err := s.journal.FindEntriesBySource(ctx, kind, recordID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find entries for record", slog.String("kind", string(kind)), slog.String("record_id", recordID))
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

func (s *ledgerQueryService) ListAccountEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}
	entries, next, err := s.journal.ListEntriesByAccount(ctx, accountID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account entries", slog.String("account_id", accountID))
		return nil, nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, next, nil
}
