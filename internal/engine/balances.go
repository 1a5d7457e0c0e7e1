package engine

import (
	"fmt"

	"github.com/tally-app/tally/internal/models"
)

// shareEpsilon is the integrity tolerance for expense share sums: one
// minor unit, to absorb legacy rows written before integer allocation.
const shareEpsilon = 1

// Balance is one member's derived position across a set of expenses.
// Net is TotalPaid - TotalOwed: positive means the member is owed money,
// negative means the member owes money. Balances are computed fresh on
// every call and never stored.
type Balance struct {
	MemberID  string
	TotalPaid int64
	TotalOwed int64
	Net       int64
}

// Aggregate computes each member's net balance from confirmed expenses
// and their persisted splits. The result is ordered by the member input
// order and includes a zero balance for members with no activity.
//
// The caller is responsible for passing confirmed expenses only.
// Aggregate verifies the per-expense invariants (payer shares and splits
// each sum to the expense total within one minor unit, every referenced
// member is on the roster) and fails rather than producing balances from
// inconsistent data.
func Aggregate(members []models.Member, expenses []models.Expense, splits []models.Split) ([]Balance, error) {
	balances := make([]Balance, len(members))
	index := make(map[string]*Balance, len(members))
	for i, m := range members {
		balances[i] = Balance{MemberID: m.ID}
		index[m.ID] = &balances[i]
	}

	totals := make(map[string]int64, len(expenses))
	for _, exp := range expenses {
		var paid int64
		for _, payer := range exp.Payers {
			bal, ok := index[payer.MemberID]
			if !ok {
				return nil, fmt.Errorf("%w: payer %s on expense %s", ErrUnknownMember, payer.MemberID, exp.ID)
			}
			bal.TotalPaid += payer.AmountMinor
			paid += payer.AmountMinor
		}
		if delta := paid - exp.TotalMinor; delta > shareEpsilon || delta < -shareEpsilon {
			return nil, fmt.Errorf("%w: expense %s payers sum to %d, total is %d",
				ErrExpenseMismatch, exp.ID, paid, exp.TotalMinor)
		}
		totals[exp.ID] = exp.TotalMinor
	}

	owedByExpense := make(map[string]int64, len(expenses))
	for _, split := range splits {
		if _, ok := totals[split.ExpenseID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExpense, split.ExpenseID)
		}
		bal, ok := index[split.MemberID]
		if !ok {
			return nil, fmt.Errorf("%w: split for member %s on expense %s",
				ErrUnknownMember, split.MemberID, split.ExpenseID)
		}
		bal.TotalOwed += split.AmountMinor
		owedByExpense[split.ExpenseID] += split.AmountMinor
	}
	for expenseID, total := range totals {
		owed := owedByExpense[expenseID]
		if delta := owed - total; delta > shareEpsilon || delta < -shareEpsilon {
			return nil, fmt.Errorf("%w: expense %s splits sum to %d, total is %d",
				ErrExpenseMismatch, expenseID, owed, total)
		}
	}

	for i := range balances {
		balances[i].Net = balances[i].TotalPaid - balances[i].TotalOwed
	}
	return balances, nil
}

// ApplySettlements folds settled payments into balances: the payer's
// paid total goes up, the receiver's owed total goes up, moving both
// nets toward zero. Unsettled settlements are ignored; they are
// proposals, not money that moved.
func ApplySettlements(balances []Balance, settlements []models.Settlement) ([]Balance, error) {
	out := make([]Balance, len(balances))
	copy(out, balances)
	index := make(map[string]*Balance, len(out))
	for i := range out {
		index[out[i].MemberID] = &out[i]
	}

	for _, s := range settlements {
		if !s.Settled {
			continue
		}
		from, ok := index[s.FromMemberID]
		if !ok {
			return nil, fmt.Errorf("%w: settlement %s payer %s", ErrUnknownMember, s.ID, s.FromMemberID)
		}
		to, ok := index[s.ToMemberID]
		if !ok {
			return nil, fmt.Errorf("%w: settlement %s receiver %s", ErrUnknownMember, s.ID, s.ToMemberID)
		}
		from.TotalPaid += s.AmountMinor
		to.TotalOwed += s.AmountMinor
	}

	for i := range out {
		out[i].Net = out[i].TotalPaid - out[i].TotalOwed
	}
	return out, nil
}
