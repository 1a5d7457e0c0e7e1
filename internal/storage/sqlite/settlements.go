package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tally-app/tally/internal/models"
	"github.com/tally-app/tally/internal/storage"
)

// CreateSettlement persists a recorded payment.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note any
	if settlement.Note != "" {
		note = settlement.Note
	}
	var settledAt any
	if settlement.SettledAt != 0 {
		settledAt = settlement.SettledAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_member_id, to_member_id, amount_minor, currency, settled, note, created_by, created_at, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromMemberID, settlement.ToMemberID,
		settlement.AmountMinor, settlement.Currency, settlement.Settled, note,
		settlement.CreatedBy, settlement.CreatedAt, settledAt,
	)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note sql.NullString
	var settledAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_member_id, to_member_id, amount_minor, currency, settled, note, created_by, created_at, settled_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.FromMemberID, &settlement.ToMemberID,
		&settlement.AmountMinor, &settlement.Currency, &settlement.Settled, &note,
		&settlement.CreatedBy, &settlement.CreatedAt, &settledAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	if note.Valid {
		settlement.Note = note.String
	}
	if settledAt.Valid {
		settlement.SettledAt = settledAt.Int64
	}
	return settlement, nil
}

// ListSettlements retrieves a group's settlements, oldest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_member_id, to_member_id, amount_minor, currency, settled, note, created_by, created_at, settled_at
		 FROM settlements WHERE group_id = ? ORDER BY rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note sql.NullString
		var settledAt sql.NullInt64

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromMemberID, &settlement.ToMemberID,
			&settlement.AmountMinor, &settlement.Currency, &settlement.Settled, &note,
			&settlement.CreatedBy, &settlement.CreatedAt, &settledAt); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		if note.Valid {
			settlement.Note = note.String
		}
		if settledAt.Valid {
			settlement.SettledAt = settledAt.Int64
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}
	return settlements, nil
}

// MarkSettled flips a settlement's settled flag and stamps the time.
func (s *SQLiteStore) MarkSettled(ctx context.Context, settlementID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET settled = 1, settled_at = ? WHERE id = ?",
		time.Now().Unix(), settlementID,
	)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	return nil
}
