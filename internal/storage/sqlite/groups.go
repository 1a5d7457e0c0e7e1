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

// CreateGroup persists a group and its initial members in one
// transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, members []*models.Member) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, currency, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Currency, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	for _, member := range members {
		member.GroupID = group.ID
		if err := insertMember(ctx, tx, member); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, created_by, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Currency, &group.CreatedBy, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

// ListGroupsByUser retrieves all groups where the user is a registered
// member, oldest first.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.currency, g.created_by, g.created_at
		 FROM groups g
		 JOIN members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Currency, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// AddMember adds one member to an existing group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if _, err := s.GetGroup(ctx, member.GroupID); err != nil {
		return err
	}
	return insertMember(ctx, s.db, member)
}

// ListMembers retrieves a group's members in insertion order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, placeholder_name, created_at
		 FROM members WHERE group_id = ? ORDER BY rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// execer covers *sql.DB and *sql.Tx for shared insert helpers.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertMember maps the Identity sum type onto the two nullable columns;
// the schema CHECK enforces exactly-one-set at the database level too.
func insertMember(ctx context.Context, db execer, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	var userID, placeholderName any
	switch identity := member.Identity.(type) {
	case models.Registered:
		userID = identity.UserID
	case models.Placeholder:
		placeholderName = identity.Name
	default:
		return fmt.Errorf("member %s has no identity", member.ID)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO members (id, group_id, user_id, placeholder_name, created_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.GroupID, userID, placeholderName, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// scanMember rebuilds the Identity sum type from the nullable columns.
func scanMember(rows *sql.Rows) (models.Member, error) {
	var member models.Member
	var userID, placeholderName sql.NullString
	if err := rows.Scan(&member.ID, &member.GroupID, &userID, &placeholderName, &member.CreatedAt); err != nil {
		return models.Member{}, fmt.Errorf("scan member: %w", err)
	}
	switch {
	case userID.Valid:
		member.Identity = models.Registered{UserID: userID.String}
	case placeholderName.Valid:
		member.Identity = models.Placeholder{Name: placeholderName.String}
	default:
		return models.Member{}, fmt.Errorf("member %s has neither user nor placeholder", member.ID)
	}
	return member, nil
}
