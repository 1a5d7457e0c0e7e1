package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tally-app/tally/internal/models"
	"github.com/tally-app/tally/internal/storage"
)

// CreateExpense persists an expense with its payers, items, and splits
// in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Status == "" {
		expense.Status = models.ExpenseStatusPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, total_minor, currency, status, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.TotalMinor,
		expense.Currency, expense.Status, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	for _, payer := range expense.Payers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, member_id, amount_minor) VALUES (?, ?, ?)",
			expense.ID, payer.MemberID, payer.AmountMinor,
		)
		if err != nil {
			return fmt.Errorf("insert payer: %w", err)
		}
	}

	for i := range expense.Items {
		item := &expense.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_items (id, expense_id, description, amount_minor) VALUES (?, ?, ?, ?)",
			item.ID, expense.ID, item.Description, item.AmountMinor,
		)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}

	for _, split := range splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO splits (expense_id, member_id, amount_minor) VALUES (?, ?, ?)",
			expense.ID, split.MemberID, split.AmountMinor,
		)
		if err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense with its payers, items, and splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.Split, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, total_minor, currency, status, created_by, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.TotalMinor,
		&expense.Currency, &expense.Status, &expense.CreatedBy, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get expense: %w", err)
	}

	if expense.Payers, err = s.listPayers(ctx, expenseID); err != nil {
		return nil, nil, err
	}
	if expense.Items, err = s.listItems(ctx, expenseID); err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, member_id, amount_minor FROM splits WHERE expense_id = ? ORDER BY member_id",
		expenseID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ExpenseID, &split.MemberID, &split.AmountMinor); err != nil {
			return nil, nil, fmt.Errorf("scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate splits: %w", err)
	}
	return expense, splits, nil
}

// ListExpenses retrieves a group's expenses, oldest first. With
// confirmedOnly set, pending expenses are excluded.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, confirmedOnly bool) ([]*models.Expense, error) {
	query := `SELECT id, group_id, description, total_minor, currency, status, created_by, created_at
		 FROM expenses WHERE group_id = ?`
	args := []any{groupID}
	if confirmedOnly {
		query += " AND status = ?"
		args = append(args, models.ExpenseStatusConfirmed)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.TotalMinor,
			&expense.Currency, &expense.Status, &expense.CreatedBy, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if expense.Payers, err = s.listPayers(ctx, expense.ID); err != nil {
			return nil, err
		}
		if expense.Items, err = s.listItems(ctx, expense.ID); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// ListSplits retrieves the splits for a group's expenses, matching the
// confirmed filter of ListExpenses.
func (s *SQLiteStore) ListSplits(ctx context.Context, groupID string, confirmedOnly bool) ([]models.Split, error) {
	query := `SELECT sp.expense_id, sp.member_id, sp.amount_minor
		 FROM splits sp
		 JOIN expenses e ON e.id = sp.expense_id
		 WHERE e.group_id = ?`
	args := []any{groupID}
	if confirmedOnly {
		query += " AND e.status = ?"
		args = append(args, models.ExpenseStatusConfirmed)
	}
	query += " ORDER BY e.rowid, sp.member_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ExpenseID, &split.MemberID, &split.AmountMinor); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate splits: %w", err)
	}
	return splits, nil
}

// ConfirmExpense moves a pending expense to confirmed.
func (s *SQLiteStore) ConfirmExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET status = ? WHERE id = ?",
		models.ExpenseStatusConfirmed, expenseID,
	)
	if err != nil {
		return fmt.Errorf("confirm expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm expense: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// DeleteExpense removes an expense; payers, items, and splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) listPayers(ctx context.Context, expenseID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount_minor FROM expense_payers WHERE expense_id = ? ORDER BY member_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("get payers: %w", err)
	}
	defer rows.Close()

	var payers []models.Share
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.MemberID, &share.AmountMinor); err != nil {
			return nil, fmt.Errorf("scan payer: %w", err)
		}
		payers = append(payers, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payers: %w", err)
	}
	return payers, nil
}

func (s *SQLiteStore) listItems(ctx context.Context, expenseID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount_minor FROM expense_items WHERE expense_id = ? ORDER BY rowid",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Description, &item.AmountMinor); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
