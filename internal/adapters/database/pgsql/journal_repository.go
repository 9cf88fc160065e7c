package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/remittance_ledger/internal/models"
	"github.com/SscSPs/remittance_ledger/internal/utils/mapping"
	"github.com/SscSPs/remittance_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id::text, entry_date, description, debit_account_id, credit_account_id,
	debit_amount, credit_amount, amount_usd, source_kind, source_record_id, source_event, created_at, created_by`

func scanEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	defer rows.Close()
	var ms []models.JournalEntry
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID, &m.EntryDate, &m.Description, &m.DebitAccountID, &m.CreditAccountID,
			&m.DebitAmount, &m.CreditAmount, &m.AmountUSD, &m.SourceKind, &m.SourceRecordID, &m.SourceEvent,
			&m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return mapping.ToDomainJournalEntrySlice(ms), nil
}

// SaveJournalEntry appends an entry. The table rejects equal legs and unequal amounts.
func (r *repos) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (
			entry_id, entry_date, description, debit_account_id, credit_account_id,
			debit_amount, credit_amount, amount_usd, source_kind, source_record_id, source_event,
			created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID, m.EntryDate, m.Description, m.DebitAccountID, m.CreditAccountID,
		m.DebitAmount, m.CreditAmount, m.AmountUSD, m.SourceKind, m.SourceRecordID, m.SourceEvent,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, m.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}
	return nil
}

// ListEntries returns entries in creation order, optionally restricted to some accounts.
func (r *repos) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	var args []any
	if len(filter.AccountIDs) > 0 {
		query += ` WHERE debit_account_id = ANY($1) OR credit_account_id = ANY($1)`
		args = append(args, filter.AccountIDs)
	}
	query += ` ORDER BY created_at, entry_id;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return scanEntries(rows)
}

// FindEntriesBySource matches the source columns, then falls back to the
// description tag for rows that have none.
func (r *repos) FindEntriesBySource(ctx context.Context, kind domain.RecordKind, recordID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM journal_entries
		WHERE (source_kind = $1 AND source_record_id = $2)
		   OR (source_kind IS NULL AND description LIKE $3 ESCAPE '\')
		ORDER BY created_at, entry_id;
	`
	rows, err := r.db.Query(ctx, query, string(kind), recordID, "%"+escapeLike(domain.RecordTag(recordID))+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to find entries for %s record %s: %w", kind, recordID, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	// LIKE over-matches "Rec #12" inside "Rec #123"
	out := entries[:0]
	for _, e := range entries {
		if e.ReferencesRecord(kind, recordID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListEntriesByAccount pages through an account's entries in creation order.
func (r *repos) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE (debit_account_id = $1 OR credit_account_id = $1)`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) > ($2, $3::uuid)`
		args = append(args, cursorAt, cursorID)
	}
	query += fmt.Sprintf(` ORDER BY created_at, entry_id LIMIT %d;`, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
	return page, &token, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
