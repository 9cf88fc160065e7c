package services

import (
	"context"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
)

// PostingService turns a normalized record into its journal entry.
type PostingService interface {
	// PostInflowOrOutflow validates the record and appends exactly one entry, or
	// writes nothing and returns one of the ledger errors.
	PostInflowOrOutflow(ctx context.Context, record domain.Record, userID string) (*domain.JournalEntry, error)
}

// ReassignmentService moves an unmatched inflow from suspense to a client.
type ReassignmentService interface {
	ReassignToClient(ctx context.Context, kind domain.RecordKind, recordID, clientID, userID string) (*domain.JournalEntry, error)
}

// IntakeService accepts raw records from collaborators and posts them.
type IntakeService interface {
	// SubmitRecord normalizes raw fields, mints a record id if none is given, then
	// stores the record and its entry in one transaction.
	SubmitRecord(ctx context.Context, kind domain.RecordKind, raw map[string]any, userID string) (*domain.Record, *domain.JournalEntry, error)

	// RegisterClient stores a client and opens its liability account.
	RegisterClient(ctx context.Context, clientID, name, userID string) (*domain.Client, error)
}

// JournalSvcFacade combines the write side of the ledger
type JournalSvcFacade interface {
	PostingService
	ReassignmentService
	IntakeService
}

// EntryPublisher announces committed entries to downstream consumers.
type EntryPublisher interface {
	PublishEntryPosted(ctx context.Context, entry domain.JournalEntry) error
	Close() error
}

// UnlockFunc releases a lock obtained from RecordLocker.
type UnlockFunc func(ctx context.Context) error

// RecordLocker serializes work on one record across processes.
type RecordLocker interface {
	LockRecord(ctx context.Context, kind domain.RecordKind, recordID string, ttl time.Duration) (UnlockFunc, error)
}
