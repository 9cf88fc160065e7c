package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the repositories need.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// Store is the PostgreSQL LedgerStore.
type Store struct {
	BaseRepository
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// NewStore wraps an open pool. Closing the store does not close the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: pool}}
}

// Close is a no-op; the pool is owned by the caller.
func (s *Store) Close() error { return nil }

// WithinTransaction runs fn in a READ COMMITTED transaction. The record
// check-and-set relies on row locks taken by UPDATE, not on isolation level.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.LedgerRepositories) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Rollback(ctx, tx) }() // no-op after a successful commit

	if err := fn(ctx, &repos{db: tx}); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

func (s *Store) Accounts() portsrepo.AccountRepositoryFacade { return &repos{db: s.Pool} }
func (s *Store) Journal() portsrepo.JournalRepositoryFacade  { return &repos{db: s.Pool} }
func (s *Store) Records() portsrepo.RecordRepositoryFacade   { return &repos{db: s.Pool} }
func (s *Store) Clients() portsrepo.ClientRepositoryFacade   { return &repos{db: s.Pool} }
func (s *Store) Counters() portsrepo.CounterRepository       { return &repos{db: s.Pool} }

// repos implements every repository port over either the pool or one transaction.
type repos struct {
	db dbtx
}

var _ portsrepo.LedgerRepositories = (*repos)(nil)

func (r *repos) Accounts() portsrepo.AccountRepositoryFacade { return r }
func (r *repos) Journal() portsrepo.JournalRepositoryFacade  { return r }
func (r *repos) Records() portsrepo.RecordRepositoryFacade   { return r }
func (r *repos) Clients() portsrepo.ClientRepositoryFacade   { return r }
func (r *repos) Counters() portsrepo.CounterRepository       { return r }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// NextSequence increments a named counter row in a single statement.
func (r *repos) NextSequence(ctx context.Context, name string) (uint64, error) {
	query := `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value;
	`
	var value int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}
	return uint64(value), nil
}
