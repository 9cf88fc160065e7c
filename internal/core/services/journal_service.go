package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postingService is the posting engine: one record in, one two-line entry out.
type postingService struct {
	BaseService
	store     portsrepo.LedgerStore
	publisher portssvc.EntryPublisher
}

// NewPostingService creates a new PostingService.
func NewPostingService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.PostingService {
	return newPostingService(store, applyOptions(options))
}

func newPostingService(store portsrepo.LedgerStore, o serviceOptions) *postingService {
	return &postingService{
		BaseService: BaseService{now: o.now},
		store:       store,
		publisher:   o.publisher,
	}
}

var _ portssvc.PostingService = (*postingService)(nil)

// PostInflowOrOutflow posts the record in its own transaction. A record id seen
// for the first time is stored together with its entry. A stored record must
// carry the same terms and must not have been posted yet.
func (s *postingService) PostInflowOrOutflow(ctx context.Context, record domain.Record, userID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.LedgerRepositories) error {
		if err := validateRecord(record); err != nil {
			return err
		}
		stored, err := unpostedRecord(ctx, repos, record)
		if err != nil {
			return err
		}
		if stored != nil && record.ClientName == "" {
			record.ClientName = stored.ClientName
		}

		entry, err = s.post(ctx, repos, record, userID)
		if err != nil || stored != nil {
			return err
		}
		return storeRecord(ctx, repos, &record, userID, entry.CreatedAt)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post record",
			slog.String("kind", string(record.Kind)),
			slog.String("record_id", record.RecordID))
		return nil, err
	}

	s.LogInfo(ctx, "Record posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("record_id", record.RecordID),
		slog.String("debit", entry.DebitAccountID),
		slog.String("credit", entry.CreditAccountID),
		slog.String("amount_usd", entry.AmountUSD.String()))
	s.publish(ctx, *entry)
	return entry, nil
}

// unpostedRecord returns the stored copy of record, or nil when the id is new.
// Each record owns exactly one receipt or payment entry, so a stored record
// that any entry already references is rejected.
func unpostedRecord(ctx context.Context, repos portsrepo.LedgerRepositories, record domain.Record) (*domain.Record, error) {
	stored, err := repos.Records().FindRecord(ctx, record.Kind, record.RecordID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !sameTerms(*stored, record) {
		return nil, fmt.Errorf("%w: %s record %s does not match the stored record", apperrors.ErrInvalidRecord, record.Kind, record.RecordID)
	}

	entries, err := repos.Journal().FindEntriesBySource(ctx, record.Kind, record.RecordID)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return nil, fmt.Errorf("%w: %s record %s is already posted as entry %s", apperrors.ErrDuplicate, record.Kind, record.RecordID, entries[0].EntryID)
	}
	return stored, nil
}

func sameTerms(a, b domain.Record) bool {
	return a.FlowType == b.FlowType &&
		a.AmountUSD.Equal(b.AmountUSD) &&
		a.AccountID == b.AccountID &&
		derefClient(a.ClientID) == derefClient(b.ClientID)
}

func derefClient(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// storeRecord stamps the record and saves it, filling the client name from the
// client registry when the record names a client but not its name.
func storeRecord(ctx context.Context, repos portsrepo.LedgerRepositories, record *domain.Record, userID string, now time.Time) error {
	if record.HasClient() && record.ClientName == "" {
		client, err := findClient(ctx, repos.Clients(), *record.ClientID)
		if err != nil {
			return err
		}
		record.ClientName = client.Name
	}
	record.CreatedAt, record.CreatedBy = now, userID
	record.LastUpdatedAt, record.LastUpdatedBy = now, userID
	if record.RecordDate.IsZero() {
		record.RecordDate = now
	}
	return repos.Records().SaveRecord(ctx, *record)
}

// post runs every check, then appends the entry through repos. It writes
// nothing unless all checks pass, and is shared with record intake so the
// record and its entry commit together.
func (s *postingService) post(ctx context.Context, repos portsrepo.LedgerRepositories, record domain.Record, userID string) (*domain.JournalEntry, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	asset, err := resolveAssetAccount(ctx, repos.Accounts(), record.AccountID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var clientAccount *domain.Account
	clientName := record.ClientName
	if record.HasClient() {
		client, err := findClient(ctx, repos.Clients(), *record.ClientID)
		if err != nil {
			return nil, err
		}
		if clientName == "" {
			clientName = client.Name
		}
		clientAccount, err = ensureClientAccount(ctx, repos.Accounts(), *client, userID, now)
		if err != nil {
			return nil, err
		}
	}

	entry := domain.JournalEntry{
		Description: describePosting(record, clientName),
		AmountUSD:   record.AmountUSD,
		Source: &domain.SourceRef{
			RecordKind: record.Kind,
			RecordID:   record.RecordID,
			Event:      domain.EventReceipt,
		},
	}
	switch {
	case record.FlowType == domain.Outflow:
		entry.DebitAccountID = clientAccount.AccountID
		entry.CreditAccountID = asset.AccountID
		entry.Source.Event = domain.EventPayment
	case clientAccount != nil:
		entry.DebitAccountID = asset.AccountID
		entry.CreditAccountID = clientAccount.AccountID
	default:
		entry.DebitAccountID = asset.AccountID
		entry.CreditAccountID = record.Kind.SuspenseAccountID()
	}

	entryDate := record.RecordDate
	if entryDate.IsZero() {
		entryDate = now
	}
	return appendEntry(ctx, repos, entry, record.AmountUSD, entryDate, now, userID)
}

// validateRecord runs the checks that need no store access.
func validateRecord(record domain.Record) error {
	if !record.Kind.Valid() {
		return fmt.Errorf("%w: unknown record kind %q", apperrors.ErrInvalidRecord, record.Kind)
	}
	if record.RecordID == "" {
		return fmt.Errorf("%w: record id is required to tag the entry", apperrors.ErrInvalidRecord)
	}
	if !record.FlowType.Valid() {
		return fmt.Errorf("%w: %s record %s has unknown type %q", apperrors.ErrInvalidRecord, record.Kind, record.RecordID, record.FlowType)
	}
	if !record.AmountUSD.IsPositive() {
		return fmt.Errorf("%w: %s record %s has amountUsd %s", apperrors.ErrInvalidAmount, record.Kind, record.RecordID, record.AmountUSD)
	}
	if record.FlowType == domain.Outflow && !record.HasClient() {
		return fmt.Errorf("%w: %s record %s", apperrors.ErrClientRequiredForOutflow, record.Kind, record.RecordID)
	}
	return nil
}

// appendEntry stamps, validates and saves a two-line entry.
func appendEntry(ctx context.Context, repos portsrepo.LedgerRepositories, entry domain.JournalEntry, amount decimal.Decimal, entryDate, now time.Time, userID string) (*domain.JournalEntry, error) {
	id, err := newEntryID()
	if err != nil {
		return nil, err
	}
	entry.EntryID = id
	entry.EntryDate = entryDate.UTC()
	entry.DebitAmount = amount
	entry.CreditAmount = amount
	entry.CreatedAt = now
	entry.CreatedBy = userID

	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnbalancedEntry, err)
	}
	if err := repos.Journal().SaveJournalEntry(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *postingService) publish(ctx context.Context, entry domain.JournalEntry) {
	publishEntry(ctx, &s.BaseService, s.publisher, entry)
}

// publishEntry is best effort: the entry is already committed.
func publishEntry(ctx context.Context, base *BaseService, publisher portssvc.EntryPublisher, entry domain.JournalEntry) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEntryPosted(ctx, entry); err != nil {
		base.LogWarn(ctx, "Failed to publish journal entry", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
	}
}

func findClient(ctx context.Context, clients portsrepo.ClientReader, clientID string) (*domain.Client, error) {
	client, err := clients.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownClient, clientID)
		}
		return nil, err
	}
	return client, nil
}

func describePosting(record domain.Record, clientName string) string {
	desc := fmt.Sprintf("%s %s %s", record.Kind.Label(), record.FlowType, domain.RecordTag(record.RecordID))
	if clientName == "" {
		return desc
	}
	if record.FlowType == domain.Outflow {
		return desc + " to " + clientName
	}
	return desc + " from " + clientName
}

func newEntryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate entry id: %w", err)
	}
	return id.String(), nil
}
