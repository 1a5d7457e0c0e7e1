package engine

import (
	"errors"
	"testing"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Transaction
		wantErr  error
	}{
		{
			name: "largest creditor settled first",
			balances: []Balance{
				{MemberID: "A", Net: 500},
				{MemberID: "B", Net: 300},
				{MemberID: "C", Net: -800},
			},
			want: []Transaction{
				{FromMemberID: "C", ToMemberID: "A", AmountMinor: 500},
				{FromMemberID: "C", ToMemberID: "B", AmountMinor: 300},
			},
		},
		{
			name: "single pair",
			balances: []Balance{
				{MemberID: "A", Net: 250},
				{MemberID: "B", Net: -250},
			},
			want: []Transaction{
				{FromMemberID: "B", ToMemberID: "A", AmountMinor: 250},
			},
		},
		{
			name: "zero-balance members are skipped",
			balances: []Balance{
				{MemberID: "A", Net: 0},
				{MemberID: "B", Net: 100},
				{MemberID: "C", Net: 0},
				{MemberID: "D", Net: -100},
			},
			want: []Transaction{
				{FromMemberID: "D", ToMemberID: "B", AmountMinor: 100},
			},
		},
		{
			name: "tie between creditors breaks on input order",
			balances: []Balance{
				{MemberID: "A", Net: 300},
				{MemberID: "B", Net: 300},
				{MemberID: "C", Net: -600},
			},
			want: []Transaction{
				{FromMemberID: "C", ToMemberID: "A", AmountMinor: 300},
				{FromMemberID: "C", ToMemberID: "B", AmountMinor: 300},
			},
		},
		{
			name: "largest debtor picked across multiple debtors",
			balances: []Balance{
				{MemberID: "A", Net: -100},
				{MemberID: "B", Net: 900},
				{MemberID: "C", Net: -800},
			},
			want: []Transaction{
				{FromMemberID: "C", ToMemberID: "B", AmountMinor: 800},
				{FromMemberID: "A", ToMemberID: "B", AmountMinor: 100},
			},
		},
		{
			name:     "all zero balances need no transactions",
			balances: []Balance{{MemberID: "A"}, {MemberID: "B"}},
			want:     nil,
		},
		{
			name:     "empty input",
			balances: nil,
			want:     nil,
		},
		{
			name: "unbalanced input is rejected",
			balances: []Balance{
				{MemberID: "A", Net: 500},
				{MemberID: "B", Net: -300},
			},
			wantErr: ErrUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simplify(tt.balances)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Simplify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Simplify() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transactions %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("transaction[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestSimplifyRezerosBalances checks the core invariants across a batch
// of balance sets: applying the emitted transactions zeroes every
// balance, amounts are strictly positive, and the transaction count
// stays within N-1 for N non-zero parties.
func TestSimplifyRezerosBalances(t *testing.T) {
	cases := [][]Balance{
		{{MemberID: "a", Net: 1}, {MemberID: "b", Net: -1}},
		{{MemberID: "a", Net: 500}, {MemberID: "b", Net: 300}, {MemberID: "c", Net: -800}},
		{{MemberID: "a", Net: 10}, {MemberID: "b", Net: 20}, {MemberID: "c", Net: 30}, {MemberID: "d", Net: -60}},
		{{MemberID: "a", Net: -5}, {MemberID: "b", Net: -5}, {MemberID: "c", Net: -5}, {MemberID: "d", Net: 15}},
		{{MemberID: "a", Net: 12345}, {MemberID: "b", Net: -11111}, {MemberID: "c", Net: -1234}},
		{{MemberID: "a", Net: 7}, {MemberID: "b", Net: -3}, {MemberID: "c", Net: -3}, {MemberID: "d", Net: -1}, {MemberID: "e", Net: 0}},
	}

	for _, balances := range cases {
		transactions, err := Simplify(balances)
		if err != nil {
			t.Fatalf("Simplify(%v) error = %v", balances, err)
		}

		remaining := make(map[string]int64, len(balances))
		nonZero := 0
		for _, b := range balances {
			remaining[b.MemberID] = b.Net
			if b.Net != 0 {
				nonZero++
			}
		}

		if nonZero > 0 && len(transactions) > nonZero-1 {
			t.Errorf("Simplify(%v) used %d transactions for %d parties", balances, len(transactions), nonZero)
		}
		for _, tx := range transactions {
			if tx.AmountMinor <= 0 {
				t.Errorf("Simplify(%v) emitted non-positive amount %d", balances, tx.AmountMinor)
			}
			remaining[tx.FromMemberID] += tx.AmountMinor
			remaining[tx.ToMemberID] -= tx.AmountMinor
		}
		for id, net := range remaining {
			if net != 0 {
				t.Errorf("Simplify(%v) left %s at %d after applying transactions", balances, id, net)
			}
		}
	}
}

func TestSimplifyDeterministic(t *testing.T) {
	balances := []Balance{
		{MemberID: "a", Net: 400},
		{MemberID: "b", Net: 400},
		{MemberID: "c", Net: -400},
		{MemberID: "d", Net: -400},
	}
	first, err := Simplify(balances)
	if err != nil {
		t.Fatalf("Simplify() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Simplify(balances)
		if err != nil {
			t.Fatalf("Simplify() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatal("Simplify() output length varies across runs")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("Simplify() run %d differs at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
