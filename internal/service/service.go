// Package service implements the Connect RPC services: auth, groups,
// expenses and settlements. Services translate between the JSON wire
// representation (decimal-string amounts) and the minor-unit domain
// model, delegate the math to internal/engine and persist through
// internal/storage.
package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/tally-app/tally/internal/auth"
	"github.com/tally-app/tally/internal/engine"
	"github.com/tally-app/tally/internal/middleware"
	"github.com/tally-app/tally/internal/models"
	"github.com/tally-app/tally/internal/money"
	"github.com/tally-app/tally/internal/storage"
)

// rpcError maps domain errors onto Connect codes. Validation failures
// become InvalidArgument, missing entities NotFound, cross-record
// integrity violations FailedPrecondition; anything unexpected stays an
// Internal error.
func rpcError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrEmptyParticipants),
		errors.Is(err, engine.ErrSplitMismatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, engine.ErrUnknownMember),
		errors.Is(err, engine.ErrUnknownExpense),
		errors.Is(err, engine.ErrExpenseMismatch),
		errors.Is(err, engine.ErrUnbalanced):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, auth.ErrWeakPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func errInvalid(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// requireMember verifies that the authenticated caller is a registered
// member of the group, returning the group and its full member list for
// further use. Non-members get PermissionDenied rather than NotFound so
// a caller can distinguish a bad ID from a closed door.
func requireMember(ctx context.Context, store storage.Store, groupID string) (*models.Group, []models.Member, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, nil, connect.NewError(connect.CodeUnauthenticated, errors.New("no authenticated user"))
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, rpcError(err)
	}
	members, err := store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, rpcError(err)
	}

	for _, m := range members {
		if id, ok := m.UserID(); ok && id == userID {
			return group, members, nil
		}
	}
	return nil, nil, connect.NewError(connect.CodePermissionDenied,
		fmt.Errorf("user %s is not a member of group %s", userID, groupID))
}

func memberSet(members []models.Member) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m.ID] = true
	}
	return set
}

// parseAmount converts a positive decimal wire amount to minor units.
func parseAmount(field, value string) (int64, error) {
	minor, err := money.ParseToMinor(value)
	if err != nil {
		return 0, errInvalid("%s: %v", field, err)
	}
	if minor <= 0 {
		return 0, errInvalid("%s must be positive, got %s", field, value)
	}
	return minor, nil
}

func toWireMember(m models.Member) Member {
	wire := Member{ID: m.ID}
	switch id := m.Identity.(type) {
	case models.Registered:
		wire.Kind = "registered"
		wire.UserID = id.UserID
	case models.Placeholder:
		wire.Kind = "placeholder"
		wire.Name = id.Name
	}
	return wire
}

func toWireMembers(members []models.Member) []Member {
	wire := make([]Member, len(members))
	for i, m := range members {
		wire[i] = toWireMember(m)
	}
	return wire
}

func toWireGroup(group *models.Group, members []models.Member) Group {
	return Group{
		ID:        group.ID,
		Name:      group.Name,
		Currency:  group.Currency,
		Members:   toWireMembers(members),
		CreatedAt: group.CreatedAt,
	}
}

func toWireExpense(expense *models.Expense, splits []models.Split) Expense {
	wire := Expense{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		Description: expense.Description,
		Total:       money.FormatMinor(expense.TotalMinor),
		Currency:    expense.Currency,
		Status:      string(expense.Status),
		Payers:      make([]Share, len(expense.Payers)),
		Splits:      make([]Share, len(splits)),
		CreatedAt:   expense.CreatedAt,
	}
	for i, p := range expense.Payers {
		wire.Payers[i] = Share{MemberID: p.MemberID, Amount: money.FormatMinor(p.AmountMinor)}
	}
	for i, s := range splits {
		wire.Splits[i] = Share{MemberID: s.MemberID, Amount: money.FormatMinor(s.AmountMinor)}
	}
	for _, item := range expense.Items {
		wire.Items = append(wire.Items, Item{
			ID:          item.ID,
			Description: item.Description,
			Amount:      money.FormatMinor(item.AmountMinor),
		})
	}
	return wire
}

func toWireSettlement(settlement *models.Settlement) Settlement {
	return Settlement{
		ID:           settlement.ID,
		GroupID:      settlement.GroupID,
		FromMemberID: settlement.FromMemberID,
		ToMemberID:   settlement.ToMemberID,
		Amount:       money.FormatMinor(settlement.AmountMinor),
		Currency:     settlement.Currency,
		Settled:      settlement.Settled,
		Note:         settlement.Note,
		CreatedAt:    settlement.CreatedAt,
		SettledAt:    settlement.SettledAt,
	}
}
