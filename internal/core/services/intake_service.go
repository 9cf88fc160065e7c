package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/intake"
)

type intakeService struct {
	BaseService
	store   portsrepo.LedgerStore
	posting *postingService
}

// NewIntakeService creates the record intake service.
func NewIntakeService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.IntakeService {
	o := applyOptions(options)
	return &intakeService{
		BaseService: BaseService{now: o.now},
		store:       store,
		posting:     newPostingService(store, o),
	}
}

var _ portssvc.IntakeService = (*intakeService)(nil)

func recordCounter(kind domain.RecordKind) string {
	if kind == domain.USDTRecord {
		return portsrepo.USDTRecordCounter
	}
	return portsrepo.CashRecordCounter
}

// SubmitRecord stores a record and its journal entry together.
func (s *intakeService) SubmitRecord(ctx context.Context, kind domain.RecordKind, raw map[string]any, userID string) (*domain.Record, *domain.JournalEntry, error) {
	record, err := intake.Normalize(kind, raw)
	if err != nil {
		s.LogWarn(ctx, "Rejected raw record", slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return nil, nil, err
	}

	var entry *domain.JournalEntry
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.LedgerRepositories) error {
		if record.RecordID == "" {
			id, err := mintRecordID(ctx, repos, kind)
			if err != nil {
				return err
			}
			record.RecordID = id
		}
		if err := storeRecord(ctx, repos, &record, userID, s.Now()); err != nil {
			return err
		}

		entry, err = s.posting.post(ctx, repos, record, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to submit record", slog.String("kind", string(kind)), slog.String("record_id", record.RecordID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Record submitted",
		slog.String("kind", string(kind)),
		slog.String("record_id", record.RecordID),
		slog.String("entry_id", entry.EntryID))
	s.posting.publish(ctx, *entry)
	return &record, entry, nil
}

// mintRecordID draws counter values until one is free. Callers may supply their
// own numeric ids, so a counter value can already be taken.
func mintRecordID(ctx context.Context, repos portsrepo.LedgerRepositories, kind domain.RecordKind) (string, error) {
	for {
		seq, err := repos.Counters().NextSequence(ctx, recordCounter(kind))
		if err != nil {
			return "", err
		}
		id := strconv.FormatUint(seq, 10)
		_, err = repos.Records().FindRecord(ctx, kind, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// RegisterClient stores a client and opens its liability account. A blank
// clientID is minted from the client counter.
func (s *intakeService) RegisterClient(ctx context.Context, clientID, name, userID string) (*domain.Client, error) {
	clientID, name = strings.TrimSpace(clientID), strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", apperrors.ErrValidation)
	}

	var client domain.Client
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.LedgerRepositories) error {
		if clientID == "" {
			seq, err := repos.Counters().NextSequence(ctx, portsrepo.ClientCounter)
			if err != nil {
				return err
			}
			clientID = strconv.FormatUint(seq, 10)
		}
		now := s.Now()
		client = domain.Client{
			ClientID: clientID,
			Name:     name,
			AuditFields: domain.AuditFields{
				CreatedAt: now, CreatedBy: userID,
				LastUpdatedAt: now, LastUpdatedBy: userID,
			},
		}
		if err := repos.Clients().SaveClient(ctx, client); err != nil {
			return err
		}
		_, err := ensureClientAccount(ctx, repos.Accounts(), client, userID, now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to register client", slog.String("client_id", clientID))
		return nil, err
	}
	s.LogInfo(ctx, "Client registered", slog.String("client_id", client.ClientID))
	return &client, nil
}
