package boltdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

func (r *repos) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.view(func(tx *bolt.Tx) error {
		found, err := get(tx, BucketAccounts, accountID, &account)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repos) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.view(func(tx *bolt.Tx) error {
		return forEach(tx, BucketAccounts, func(a domain.Account) error {
			accounts = append(accounts, a)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountID < accounts[j].AccountID })
	return accounts, nil
}

func (r *repos) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.update(func(tx *bolt.Tx) error {
		var existing domain.Account
		found, err := get(tx, BucketAccounts, account.AccountID, &existing)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		return put(tx, BucketAccounts, account.AccountID, account)
	})
}

func (r *repos) UpsertAccount(ctx context.Context, account domain.Account) error {
	return r.update(func(tx *bolt.Tx) error {
		var existing domain.Account
		found, err := get(tx, BucketAccounts, account.AccountID, &existing)
		if err != nil {
			return err
		}
		if found {
			account.CreatedAt = existing.CreatedAt
			account.CreatedBy = existing.CreatedBy
		}
		return put(tx, BucketAccounts, account.AccountID, account)
	})
}
