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

// SettlementService derives balances and settlement plans from the
// confirmed expense history and records actual payments.
type SettlementService struct {
	store storage.Store
}

func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// balances computes the group's current member balances: confirmed
// expenses aggregated, then settled payments applied.
func (s *SettlementService) balances(ctx context.Context, members []models.Member, groupID string) ([]engine.Balance, error) {
	stored, err := s.store.ListExpenses(ctx, groupID, true)
	if err != nil {
		return nil, rpcError(err)
	}
	expenses := make([]models.Expense, len(stored))
	for i, e := range stored {
		expenses[i] = *e
	}
	splits, err := s.store.ListSplits(ctx, groupID, true)
	if err != nil {
		return nil, rpcError(err)
	}

	balances, err := engine.Aggregate(members, expenses, splits)
	if err != nil {
		return nil, rpcError(err)
	}

	recorded, err := s.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, rpcError(err)
	}
	settlements := make([]models.Settlement, len(recorded))
	for i, settlement := range recorded {
		settlements[i] = *settlement
	}
	balances, err = engine.ApplySettlements(balances, settlements)
	if err != nil {
		return nil, rpcError(err)
	}
	return balances, nil
}

// GetGroupBalances returns every member's paid, owed and net position.
// Nets across the group always sum to zero.
func (s *SettlementService) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	group, members, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	balances, err := s.balances(ctx, members, group.ID)
	if err != nil {
		return nil, err
	}

	res := &GetGroupBalancesResponse{
		Currency: group.Currency,
		Balances: make([]Balance, len(balances)),
	}
	for i, b := range balances {
		res.Balances[i] = Balance{
			MemberID: b.MemberID,
			Paid:     money.FormatMinor(b.TotalPaid),
			Owed:     money.FormatMinor(b.TotalOwed),
			Net:      money.FormatMinor(b.Net),
		}
	}
	return connect.NewResponse(res), nil
}

// GetSettlementPlan returns a minimal set of payments that would zero
// the group's balances, largest debts first.
func (s *SettlementService) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	group, members, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	balances, err := s.balances(ctx, members, group.ID)
	if err != nil {
		return nil, err
	}
	transactions, err := engine.Simplify(balances)
	if err != nil {
		return nil, rpcError(err)
	}

	res := &GetSettlementPlanResponse{
		Transactions: make([]Transaction, len(transactions)),
	}
	for i, t := range transactions {
		res.Transactions[i] = Transaction{
			FromMemberID: t.FromMemberID,
			ToMemberID:   t.ToMemberID,
			Amount:       money.FormatMinor(t.AmountMinor),
			Currency:     group.Currency,
		}
	}
	return connect.NewResponse(res), nil
}

// RecordSettlement stores a payment between two members. The payment is
// created unsettled and only affects balances once marked settled.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	group, members, err := requireMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	known := memberSet(members)
	if !known[msg.FromMemberID] {
		return nil, errInvalid("payer %s is not a member of group %s", msg.FromMemberID, group.ID)
	}
	if !known[msg.ToMemberID] {
		return nil, errInvalid("payee %s is not a member of group %s", msg.ToMemberID, group.ID)
	}
	if msg.FromMemberID == msg.ToMemberID {
		return nil, errInvalid("payer and payee must differ")
	}
	amount, err := parseAmount("amount", msg.Amount)
	if err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: msg.FromMemberID,
		ToMemberID:   msg.ToMemberID,
		AmountMinor:  amount,
		Currency:     group.Currency,
		Note:         msg.Note,
		CreatedBy:    middleware.GetUserID(ctx),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, rpcError(err)
	}

	return connect.NewResponse(&RecordSettlementResponse{
		Settlement: toWireSettlement(settlement),
	}), nil
}

// MarkSettled confirms a recorded payment happened, folding it into the
// group's balances.
func (s *SettlementService) MarkSettled(ctx context.Context, req *connect.Request[MarkSettledRequest]) (*connect.Response[MarkSettledResponse], error) {
	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, rpcError(err)
	}
	if _, _, err := requireMember(ctx, s.store, settlement.GroupID); err != nil {
		return nil, err
	}

	if !settlement.Settled {
		if err := s.store.MarkSettled(ctx, settlement.ID); err != nil {
			return nil, rpcError(err)
		}
		settlement, err = s.store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			return nil, rpcError(err)
		}
	}

	return connect.NewResponse(&MarkSettledResponse{
		Settlement: toWireSettlement(settlement),
	}), nil
}

// ListSettlements returns a group's recorded payments oldest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	if _, _, err := requireMember(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, rpcError(err)
	}

	res := &ListSettlementsResponse{
		Settlements: make([]Settlement, len(settlements)),
	}
	for i, settlement := range settlements {
		res.Settlements[i] = toWireSettlement(settlement)
	}
	return connect.NewResponse(res), nil
}
