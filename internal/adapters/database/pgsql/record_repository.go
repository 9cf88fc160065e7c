package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/SscSPs/remittance_ledger/internal/models"
	"github.com/SscSPs/remittance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// FindRecord retrieves a cash or USDT record.
func (r *repos) FindRecord(ctx context.Context, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	query := `
		SELECT kind, record_id, flow_type, amount, currency_code, amount_usd, account_id,
			client_id, client_name, record_date, notes,
			created_at, created_by, last_updated_at, last_updated_by
		FROM records WHERE kind = $1 AND record_id = $2;
	`
	var m models.Record
	err := r.db.QueryRow(ctx, query, string(kind), recordID).Scan(
		&m.Kind, &m.RecordID, &m.FlowType, &m.Amount, &m.CurrencyCode, &m.AmountUSD, &m.AccountID,
		&m.ClientID, &m.ClientName, &m.RecordDate, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s record %s", kind, recordID))
		}
		return nil, fmt.Errorf("failed to find %s record %s: %w", kind, recordID, err)
	}
	record := mapping.ToDomainRecord(m)
	return &record, nil
}

// SaveRecord inserts a new record.
func (r *repos) SaveRecord(ctx context.Context, record domain.Record) error {
	m := mapping.ToModelRecord(record)
	query := `
		INSERT INTO records (
			kind, record_id, flow_type, amount, currency_code, amount_usd, account_id,
			client_id, client_name, record_date, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		m.Kind, m.RecordID, m.FlowType, m.Amount, m.CurrencyCode, m.AmountUSD, m.AccountID,
		m.ClientID, m.ClientName, m.RecordDate, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s record %s", apperrors.ErrDuplicate, m.Kind, m.RecordID)
		}
		return fmt.Errorf("failed to save %s record %s: %w", m.Kind, m.RecordID, err)
	}
	return nil
}

// AssignClient sets client_id only where it is still NULL. The UPDATE takes the
// row lock, so of two concurrent callers exactly one sees a changed row.
func (r *repos) AssignClient(ctx context.Context, kind domain.RecordKind, recordID, clientID, clientName, userID string, now time.Time) error {
	query := `
		UPDATE records
		SET client_id = $3, client_name = $4, last_updated_at = $5, last_updated_by = $6
		WHERE kind = $1 AND record_id = $2 AND client_id IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, string(kind), recordID, clientID, clientName, now, userID)
	if err != nil {
		return fmt.Errorf("failed to assign client to %s record %s: %w", kind, recordID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current *string
	err = r.db.QueryRow(ctx, `SELECT client_id FROM records WHERE kind = $1 AND record_id = $2;`, string(kind), recordID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s record %s", kind, recordID))
	}
	if err != nil {
		return fmt.Errorf("failed to read %s record %s: %w", kind, recordID, err)
	}
	return fmt.Errorf("%w: %s record %s belongs to client %s", apperrors.ErrRecordAlreadyAssigned, kind, recordID, derefString(current))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FindClientByID retrieves a client.
func (r *repos) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT client_id, name, created_at, created_by, last_updated_at, last_updated_by FROM clients WHERE client_id = $1;`
	var m models.Client
	err := r.db.QueryRow(ctx, query, clientID).Scan(&m.ClientID, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("client " + clientID)
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}

// ListClients returns all clients ordered by id.
func (r *repos) ListClients(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT client_id, name, created_at, created_by, last_updated_at, last_updated_by FROM clients ORDER BY client_id;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var m models.Client
		if err := rows.Scan(&m.ClientID, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, mapping.ToDomainClient(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}

// SaveClient inserts a new client.
func (r *repos) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (client_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query, m.ClientID, m.Name, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: client %s", apperrors.ErrDuplicate, m.ClientID)
		}
		return fmt.Errorf("failed to save client %s: %w", m.ClientID, err)
	}
	return nil
}
