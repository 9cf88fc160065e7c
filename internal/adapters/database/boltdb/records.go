package boltdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

func recordKey(kind domain.RecordKind, recordID string) string {
	return string(kind) + "/" + recordID
}

func (r *repos) FindRecord(ctx context.Context, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	var record domain.Record
	err := r.view(func(tx *bolt.Tx) error {
		found, err := get(tx, BucketRecords, recordKey(kind, recordID), &record)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError(fmt.Sprintf("%s record %s", kind, recordID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repos) SaveRecord(ctx context.Context, record domain.Record) error {
	key := recordKey(record.Kind, record.RecordID)
	return r.update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, BucketRecords)
		if err != nil {
			return err
		}
		if b.Get([]byte(key)) != nil {
			return fmt.Errorf("%w: %s record %s", apperrors.ErrDuplicate, record.Kind, record.RecordID)
		}
		return put(tx, BucketRecords, key, record)
	})
}

func (r *repos) AssignClient(ctx context.Context, kind domain.RecordKind, recordID, clientID, clientName, userID string, now time.Time) error {
	key := recordKey(kind, recordID)
	return r.update(func(tx *bolt.Tx) error {
		var record domain.Record
		found, err := get(tx, BucketRecords, key, &record)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError(fmt.Sprintf("%s record %s", kind, recordID))
		}
		if record.HasClient() {
			return fmt.Errorf("%w: %s record %s belongs to client %s", apperrors.ErrRecordAlreadyAssigned, kind, recordID, *record.ClientID)
		}
		record.ClientID = &clientID
		record.ClientName = clientName
		record.LastUpdatedAt = now
		record.LastUpdatedBy = userID
		return put(tx, BucketRecords, key, record)
	})
}

func (r *repos) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	var client domain.Client
	err := r.view(func(tx *bolt.Tx) error {
		found, err := get(tx, BucketClients, clientID, &client)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError("client " + clientID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repos) ListClients(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.view(func(tx *bolt.Tx) error {
		return forEach(tx, BucketClients, func(c domain.Client) error {
			clients = append(clients, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ClientID < clients[j].ClientID })
	return clients, nil
}

func (r *repos) SaveClient(ctx context.Context, client domain.Client) error {
	return r.update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, BucketClients)
		if err != nil {
			return err
		}
		if b.Get([]byte(client.ClientID)) != nil {
			return fmt.Errorf("%w: client %s", apperrors.ErrDuplicate, client.ClientID)
		}
		return put(tx, BucketClients, client.ClientID, client)
	})
}
