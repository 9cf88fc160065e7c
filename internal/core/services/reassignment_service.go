package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
)

type reassignmentService struct {
	BaseService
	store     portsrepo.LedgerStore
	publisher portssvc.EntryPublisher
	locker    portssvc.RecordLocker
	lockTTL   time.Duration
}

// NewReassignmentService creates a new ReassignmentService.
func NewReassignmentService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.ReassignmentService {
	o := applyOptions(options)
	return &reassignmentService{
		BaseService: BaseService{now: o.now},
		store:       store,
		publisher:   o.publisher,
		locker:      o.locker,
		lockTTL:     o.lockTTL,
	}
}

var _ portssvc.ReassignmentService = (*reassignmentService)(nil)

// ReassignToClient moves an unmatched inflow from its suspense account to the
// client's liability account by appending a transfer entry. The original entry
// is left as is. The record's client is set with a check-and-set inside the
// same transaction, so of two concurrent calls exactly one posts and the other
// gets ErrRecordAlreadyAssigned.
func (s *reassignmentService) ReassignToClient(ctx context.Context, kind domain.RecordKind, recordID, clientID, userID string) (*domain.JournalEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown record kind %q", apperrors.ErrInvalidRecord, kind)
	}
	if recordID == "" || clientID == "" {
		return nil, fmt.Errorf("%w: record id and client id are required", apperrors.ErrValidation)
	}

	logger := s.GetLogger(ctx).With(
		slog.String("kind", string(kind)),
		slog.String("record_id", recordID),
		slog.String("client_id", clientID))

	if s.locker != nil {
		unlock, err := s.locker.LockRecord(ctx, kind, recordID, s.lockTTL)
		if err != nil {
			logger.Warn("Could not lock record for reassignment", slog.String("error", err.Error()))
			return nil, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release record lock", slog.String("error", err.Error()))
			}
		}()
	}

	var transfer *domain.JournalEntry
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.LedgerRepositories) error {
		client, err := findClient(ctx, repos.Clients(), clientID)
		if err != nil {
			return err
		}
		record, err := repos.Records().FindRecord(ctx, kind, recordID)
		if err != nil {
			return err
		}
		if record.HasClient() {
			return fmt.Errorf("%w: %s record %s belongs to client %s", apperrors.ErrRecordAlreadyAssigned, kind, recordID, *record.ClientID)
		}
		if record.FlowType != domain.Inflow {
			return fmt.Errorf("%w: %s record %s is an %s, only inflows sit in suspense", apperrors.ErrInvalidRecord, kind, recordID, record.FlowType)
		}

		now := s.Now()
		if err := repos.Records().AssignClient(ctx, kind, recordID, client.ClientID, client.Name, userID, now); err != nil {
			return err
		}

		original, err := s.findOriginalEntry(ctx, repos, kind, recordID)
		if err != nil {
			return err
		}

		clientAccount, err := ensureClientAccount(ctx, repos.Accounts(), *client, userID, now)
		if err != nil {
			return err
		}

		entry := domain.JournalEntry{
			Description:     fmt.Sprintf("Transfer %s %s to %s", kind.Label(), domain.RecordTag(recordID), client.Name),
			DebitAccountID:  kind.SuspenseAccountID(),
			CreditAccountID: clientAccount.AccountID,
			AmountUSD:       original.AmountUSD,
			Source: &domain.SourceRef{
				RecordKind: kind,
				RecordID:   recordID,
				Event:      domain.EventTransfer,
			},
		}
		transfer, err = appendEntry(ctx, repos, entry, original.AmountUSD, now, now, userID)
		return err
	})
	if err != nil {
		logger.Error("Failed to reassign record", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Record reassigned to client",
		slog.String("entry_id", transfer.EntryID),
		slog.String("amount_usd", transfer.AmountUSD.String()))
	publishEntry(ctx, &s.BaseService, s.publisher, *transfer)
	return transfer, nil
}

// findOriginalEntry returns the most recent entry for the record that credited
// its suspense account when it was received.
func (s *reassignmentService) findOriginalEntry(ctx context.Context, repos portsrepo.LedgerRepositories, kind domain.RecordKind, recordID string) (*domain.JournalEntry, error) {
	entries, err := repos.Journal().FindEntriesBySource(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	suspense := kind.SuspenseAccountID()
	var matches []domain.JournalEntry
	for _, e := range entries {
		if e.CreditAccountID != suspense {
			continue
		}
		if e.Source != nil && e.Source.Event != domain.EventReceipt {
			continue
		}
		matches = append(matches, e)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no entry credits %s for %s record %s", apperrors.ErrOriginalEntryNotFound, suspense, kind, recordID)
	case 1:
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.EntryID
		}
		s.LogWarn(ctx, "Several suspense entries reference the record, using the most recent",
			slog.String("kind", string(kind)),
			slog.String("record_id", recordID),
			slog.Any("entry_ids", ids))
	}
	latest := matches[len(matches)-1]
	return &latest, nil
}
