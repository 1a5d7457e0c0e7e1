package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/tally-app/tally/internal/engine"
	"github.com/tally-app/tally/internal/middleware"
	"github.com/tally-app/tally/internal/models"
	"github.com/tally-app/tally/internal/money"
	"github.com/tally-app/tally/internal/storage"
)

// ExpenseService manages the expense lifecycle: created pending,
// confirmed into the balance picture, or deleted.
type ExpenseService struct {
	store storage.Store
}

func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense records a new pending expense. The split strategy is
// resolved to per-member minor-unit shares here, at creation time, so
// every stored expense carries an exact allocation.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	group, members, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	if msg.Description == "" {
		return nil, errInvalid("description is required")
	}
	totalMinor, err := parseAmount("total", msg.Total)
	if err != nil {
		return nil, err
	}

	known := memberSet(members)

	if len(msg.Payers) == 0 {
		return nil, errInvalid("at least one payer is required")
	}
	payers := make([]models.Share, len(msg.Payers))
	var paidSum int64
	for i, p := range msg.Payers {
		if !known[p.MemberID] {
			return nil, errInvalid("payer %s is not a member of group %s", p.MemberID, group.ID)
		}
		amount, err := parseAmount("payer amount", p.Amount)
		if err != nil {
			return nil, err
		}
		payers[i] = models.Share{MemberID: p.MemberID, AmountMinor: amount}
		paidSum += amount
	}
	if paidSum != totalMinor {
		return nil, errInvalid("payer amounts sum to %s, expense total is %s",
			money.FormatMinor(paidSum), money.FormatMinor(totalMinor))
	}

	for _, id := range msg.Split.ParticipantIDs {
		if !known[id] {
			return nil, errInvalid("participant %s is not a member of group %s", id, group.ID)
		}
	}
	shares, err := s.allocate(totalMinor, msg.Split)
	if err != nil {
		return nil, err
	}

	var items []models.Item
	for _, in := range msg.Items {
		amount, err := parseAmount("item amount", in.Amount)
		if err != nil {
			return nil, err
		}
		items = append(items, models.Item{Description: in.Description, AmountMinor: amount})
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: msg.Description,
		TotalMinor:  totalMinor,
		Currency:    group.Currency,
		Status:      models.ExpenseStatusPending,
		Payers:      payers,
		Items:       items,
		CreatedBy:   middleware.GetUserID(ctx),
	}
	splits := make([]models.Split, len(shares))
	for i, amount := range shares {
		splits[i] = models.Split{MemberID: msg.Split.ParticipantIDs[i], AmountMinor: amount}
	}

	if err := s.store.CreateExpense(ctx, expense, splits); err != nil {
		return nil, rpcError(err)
	}

	return connect.NewResponse(&CreateExpenseResponse{
		Expense: toWireExpense(expense, splits),
	}), nil
}

// allocate dispatches the split strategy to the engine and returns one
// minor-unit share per participant, conserving the total to the cent.
func (s *ExpenseService) allocate(totalMinor int64, split SplitInput) ([]int64, error) {
	switch split.Strategy {
	case StrategyEqual:
		shares, err := engine.Equal(totalMinor, len(split.ParticipantIDs))
		if err != nil {
			return nil, rpcError(err)
		}
		return shares, nil

	case StrategyExact:
		if len(split.Amounts) != len(split.ParticipantIDs) {
			return nil, errInvalid("exact split needs one amount per participant, got %d amounts for %d participants",
				len(split.Amounts), len(split.ParticipantIDs))
		}
		amounts := make([]int64, len(split.Amounts))
		for i, a := range split.Amounts {
			minor, err := money.ParseToMinor(a)
			if err != nil {
				return nil, errInvalid("split amount: %v", err)
			}
			amounts[i] = minor
		}
		shares, err := engine.Exact(totalMinor, amounts)
		if err != nil {
			return nil, rpcError(err)
		}
		return shares, nil

	case StrategyPercentage:
		if len(split.Percents) != len(split.ParticipantIDs) {
			return nil, errInvalid("percentage split needs one percent per participant, got %d percents for %d participants",
				len(split.Percents), len(split.ParticipantIDs))
		}
		shares, err := engine.Percentage(totalMinor, split.Percents)
		if err != nil {
			return nil, rpcError(err)
		}
		return shares, nil

	default:
		return nil, errInvalid("unknown split strategy %q", split.Strategy)
	}
}

// getMemberExpense loads an expense and checks the caller belongs to its
// group.
func (s *ExpenseService) getMemberExpense(ctx context.Context, expenseID string) (*models.Expense, []models.Split, error) {
	expense, splits, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, rpcError(err)
	}
	if _, _, err := requireMember(ctx, s.store, expense.GroupID); err != nil {
		return nil, nil, err
	}
	return expense, splits, nil
}

// GetExpense returns one expense with its payer shares and splits.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	expense, splits, err := s.getMemberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetExpenseResponse{
		Expense: toWireExpense(expense, splits),
	}), nil
}

// ListExpenses returns a group's expenses oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	if _, _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupID, req.Msg.ConfirmedOnly)
	if err != nil {
		return nil, rpcError(err)
	}
	splits, err := s.store.ListSplits(ctx, req.Msg.GroupID, req.Msg.ConfirmedOnly)
	if err != nil {
		return nil, rpcError(err)
	}

	byExpense := make(map[string][]models.Split)
	for _, split := range splits {
		byExpense[split.ExpenseID] = append(byExpense[split.ExpenseID], split)
	}

	res := &ListExpensesResponse{Expenses: make([]Expense, len(expenses))}
	for i, expense := range expenses {
		res.Expenses[i] = toWireExpense(expense, byExpense[expense.ID])
	}
	return connect.NewResponse(res), nil
}

// ConfirmExpense moves a pending expense into the confirmed state,
// making it count toward balances. Confirming twice is a no-op.
func (s *ExpenseService) ConfirmExpense(ctx context.Context, req *connect.Request[ConfirmExpenseRequest]) (*connect.Response[ConfirmExpenseResponse], error) {
	expense, splits, err := s.getMemberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}

	if expense.Status != models.ExpenseStatusConfirmed {
		if err := s.store.ConfirmExpense(ctx, expense.ID); err != nil {
			return nil, rpcError(err)
		}
		expense.Status = models.ExpenseStatusConfirmed
	}

	return connect.NewResponse(&ConfirmExpenseResponse{
		Expense: toWireExpense(expense, splits),
	}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	if _, _, err := s.getMemberExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, rpcError(err)
	}
	return connect.NewResponse(&DeleteExpenseResponse{}), nil
}
