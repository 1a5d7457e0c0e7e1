package engine

import "fmt"

// Transaction is a proposed payment from a net debtor to a net creditor.
// AmountMinor is always strictly positive.
type Transaction struct {
	FromMemberID string
	ToMemberID   string
	AmountMinor  int64
}

// party tracks one side's remaining amount during matching. remaining is
// kept positive for both creditors and debtors.
type party struct {
	memberID  string
	remaining int64
}

// Simplify reduces net balances to a small set of settling transactions
// using greedy largest-first matching: repeatedly pair the largest
// remaining creditor with the largest remaining debtor and settle the
// smaller of the two amounts. Ties break on input order, so the output
// is deterministic for a stable balance ordering.
//
// The greedy pairing emits at most N-1 transactions for N non-zero
// balances (each step fully settles at least one party) but is not
// guaranteed to be the theoretical minimum; finding that minimum is a
// set-partition problem and NP-hard in general.
func Simplify(balances []Balance) ([]Transaction, error) {
	var sum int64
	var creditors, debtors []party
	for _, b := range balances {
		sum += b.Net
		switch {
		case b.Net > 0:
			creditors = append(creditors, party{memberID: b.MemberID, remaining: b.Net})
		case b.Net < 0:
			debtors = append(debtors, party{memberID: b.MemberID, remaining: -b.Net})
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: net sum is %d", ErrUnbalanced, sum)
	}

	var transactions []Transaction
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := creditors[ci].remaining
		if debtors[di].remaining < amount {
			amount = debtors[di].remaining
		}

		transactions = append(transactions, Transaction{
			FromMemberID: debtors[di].memberID,
			ToMemberID:   creditors[ci].memberID,
			AmountMinor:  amount,
		})

		creditors[ci].remaining -= amount
		debtors[di].remaining -= amount
		if creditors[ci].remaining == 0 {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtors[di].remaining == 0 {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}
	return transactions, nil
}

// largest returns the index of the party with the biggest remaining
// amount, keeping the earliest on ties.
func largest(parties []party) int {
	best := 0
	for i, p := range parties {
		if p.remaining > parties[best].remaining {
			best = i
		}
	}
	return best
}
