// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tally-app/tally/internal/models"
)

// ErrNotFound reports a lookup for an entity that does not exist.
// Implementations wrap it with the entity kind and ID.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the service layer. The
// abstraction allows swapping storage backends without changing the
// services.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group together with its initial
	// members in one transaction. Group and member IDs are assigned by
	// the store if empty.
	CreateGroup(ctx context.Context, group *models.Group, members []*models.Member) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser retrieves all groups the user is a member of.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds one member to an existing group.
	AddMember(ctx context.Context, member *models.Member) error

	// ListMembers retrieves a group's members in insertion order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// CreateExpense persists an expense and its splits in one
	// transaction.
	CreateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error

	// GetExpense retrieves an expense and its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.Split, error)

	// ListExpenses retrieves a group's expenses, optionally only
	// confirmed ones, oldest first.
	ListExpenses(ctx context.Context, groupID string, confirmedOnly bool) ([]*models.Expense, error)

	// ListSplits retrieves the splits for a group's expenses, matching
	// the confirmed filter of ListExpenses.
	ListSplits(ctx context.Context, groupID string, confirmedOnly bool) ([]models.Split, error)

	// ConfirmExpense moves a pending expense to confirmed.
	ConfirmExpense(ctx context.Context, expenseID string) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a recorded payment.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlements retrieves a group's settlements, oldest first.
	ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// MarkSettled flips a settlement's settled flag and stamps the
	// settlement time.
	MarkSettled(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
