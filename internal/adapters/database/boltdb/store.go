package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	BucketAccounts = "accounts"
	BucketClients  = "clients"
	BucketRecords  = "records"
	BucketEntries  = "journal_entries"
	BucketCounters = "counters"
)

var allBuckets = []string{BucketAccounts, BucketClients, BucketRecords, BucketEntries, BucketCounters}

// Store is a LedgerStore backed by a single bbolt file. bbolt allows one
// writer at a time, so every WithinTransaction call is serialized.
type Store struct {
	db *bolt.DB
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// Open opens (creating if needed) the database at path and initializes buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTransaction runs fn in one read-write bbolt transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.LedgerRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(ctx, &repos{store: s, tx: tx})
	})
}

func (s *Store) Accounts() portsrepo.AccountRepositoryFacade { return &repos{store: s} }
func (s *Store) Journal() portsrepo.JournalRepositoryFacade  { return &repos{store: s} }
func (s *Store) Records() portsrepo.RecordRepositoryFacade   { return &repos{store: s} }
func (s *Store) Clients() portsrepo.ClientRepositoryFacade   { return &repos{store: s} }
func (s *Store) Counters() portsrepo.CounterRepository       { return &repos{store: s} }

// repos implements every repository port. With tx set it joins that
// transaction; otherwise each call opens its own.
type repos struct {
	store *Store
	tx    *bolt.Tx
}

var (
	_ portsrepo.LedgerRepositories      = (*repos)(nil)
	_ portsrepo.AccountRepositoryFacade = (*repos)(nil)
	_ portsrepo.JournalRepositoryFacade = (*repos)(nil)
	_ portsrepo.RecordRepositoryFacade  = (*repos)(nil)
	_ portsrepo.ClientRepositoryFacade  = (*repos)(nil)
	_ portsrepo.CounterRepository       = (*repos)(nil)
)

func (r *repos) Accounts() portsrepo.AccountRepositoryFacade { return r }
func (r *repos) Journal() portsrepo.JournalRepositoryFacade  { return r }
func (r *repos) Records() portsrepo.RecordRepositoryFacade   { return r }
func (r *repos) Clients() portsrepo.ClientRepositoryFacade   { return r }
func (r *repos) Counters() portsrepo.CounterRepository       { return r }

func (r *repos) view(fn func(tx *bolt.Tx) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.db.View(fn)
}

func (r *repos) update(fn func(tx *bolt.Tx) error) error {
	if r.tx != nil {
		if !r.tx.Writable() {
			return apperrors.NewAppError(500, "write attempted in read-only transaction", nil)
		}
		return fn(r.tx)
	}
	return r.store.db.Update(fn)
}

func bucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("bucket %s not found", name)
	}
	return b, nil
}

// get decodes key from bucket into value. found is false when the key is absent.
func get(tx *bolt.Tx, bucketName, key string, value any) (bool, error) {
	b, err := bucket(tx, bucketName)
	if err != nil {
		return false, err
	}
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, value); err != nil {
		return true, fmt.Errorf("failed to decode %s/%s: %w", bucketName, key, err)
	}
	return true, nil
}

func put(tx *bolt.Tx, bucketName, key string, value any) error {
	b, err := bucket(tx, bucketName)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put([]byte(key), data)
}

// forEach decodes every value in the bucket into a fresh T.
func forEach[T any](tx *bolt.Tx, bucketName string, fn func(v T) error) error {
	b, err := bucket(tx, bucketName)
	if err != nil {
		return err
	}
	return b.ForEach(func(k, data []byte) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("failed to decode %s/%s: %w", bucketName, k, err)
		}
		return fn(v)
	})
}

// NextSequence increments a per-name sub-bucket sequence.
func (r *repos) NextSequence(ctx context.Context, name string) (uint64, error) {
	var seq uint64
	err := r.update(func(tx *bolt.Tx) error {
		counters, err := bucket(tx, BucketCounters)
		if err != nil {
			return err
		}
		b, err := counters.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", name, err)
		}
		seq, err = b.NextSequence()
		return err
	})
	return seq, err
}
