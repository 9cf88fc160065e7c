// Package lock provides cross-process record locks backed by Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "ledger:record-lock"
	retryInterval = 100 * time.Millisecond
	maxRetries    = 20
)

// RedisRecordLocker implements portssvc.RecordLocker with bsm/redislock.
type RedisRecordLocker struct {
	client *redis.Client
	locker *redislock.Client
}

var _ portssvc.RecordLocker = (*RedisRecordLocker)(nil)

// NewRedisRecordLocker connects to addr and checks the connection.
func NewRedisRecordLocker(ctx context.Context, addr string) (*RedisRecordLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		PoolSize:    20,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisRecordLockerFromClient(client), nil
}

// NewRedisRecordLockerFromClient wraps an existing client.
func NewRedisRecordLockerFromClient(client *redis.Client) *RedisRecordLocker {
	return &RedisRecordLocker{client: client, locker: redislock.New(client)}
}

func recordLockKey(kind domain.RecordKind, recordID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, recordID)
}

// LockRecord waits up to about two seconds for the record lock. A lock still
// held by someone else after that is reported as apperrors.ErrConflict.
func (l *RedisRecordLocker) LockRecord(ctx context.Context, kind domain.RecordKind, recordID string, ttl time.Duration) (portssvc.UnlockFunc, error) {
	key := recordLockKey(kind, recordID)
	lk, err := l.locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), maxRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s record %s is being processed elsewhere", apperrors.ErrConflict, kind, recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

// Close closes the underlying redis client.
func (l *RedisRecordLocker) Close() error {
	return l.client.Close()
}
