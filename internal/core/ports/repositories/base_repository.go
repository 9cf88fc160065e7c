package repositories

import "context"

// LedgerRepositories exposes every repository bound to one unit of work.
type LedgerRepositories interface {
	Accounts() AccountRepositoryFacade
	Journal() JournalRepositoryFacade
	Records() RecordRepositoryFacade
	Clients() ClientRepositoryFacade
	Counters() CounterRepository
}

// TransactionManager runs fn inside a single store transaction. If fn returns
// an error nothing it wrote is kept; otherwise everything is committed.
// Repositories handed to fn must not be used after fn returns.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos LedgerRepositories) error) error
}

// LedgerStore is a durable store that can also be used outside a transaction
// (each call is then its own unit of work).
type LedgerStore interface {
	LedgerRepositories
	TransactionManager
	Close() error
}
