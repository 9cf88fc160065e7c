package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
)

// RecordReader defines read operations for cash and USDT records
type RecordReader interface {
	// FindRecord returns apperrors.ErrNotFound when absent.
	FindRecord(ctx context.Context, kind domain.RecordKind, recordID string) (*domain.Record, error)
}

// RecordWriter defines write operations for cash and USDT records
type RecordWriter interface {
	// SaveRecord persists a new record. Returns apperrors.ErrDuplicate if the id is taken.
	SaveRecord(ctx context.Context, record domain.Record) error

	// AssignClient sets the client on a record only if it has none yet, as a single
	// atomic check-and-set. Returns apperrors.ErrRecordAlreadyAssigned if a client
	// is already set and apperrors.ErrNotFound if the record does not exist.
	AssignClient(ctx context.Context, kind domain.RecordKind, recordID, clientID, clientName, userID string, now time.Time) error
}

// RecordRepositoryFacade combines all record-related repository interfaces
type RecordRepositoryFacade interface {
	RecordReader
	RecordWriter
}

// ClientReader defines read operations for clients
type ClientReader interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// ClientWriter defines write operations for clients
type ClientWriter interface {
	SaveClient(ctx context.Context, client domain.Client) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}

// CounterRepository mints human readable sequential ids.
type CounterRepository interface {
	// NextSequence atomically increments the named counter and returns the new value.
	NextSequence(ctx context.Context, name string) (uint64, error)
}
