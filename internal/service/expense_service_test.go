package service

import (
	"testing"

	"connectrpc.com/connect"
)

// memberIDs pulls the member IDs out of a group in insertion order.
func memberIDs(group Group) []string {
	ids := make([]string, len(group.Members))
	for i, m := range group.Members {
		ids[i] = m.ID
	}
	return ids
}

func TestCreateExpense_EqualSplit(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Dinner", "Bob", "Charlie")
	ids := memberIDs(group)

	res := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Pizza night",
		Total:       "10.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "10.00"}},
		Split: SplitInput{
			Strategy:       StrategyEqual,
			ParticipantIDs: ids,
		},
	})

	expense := res.Expense
	if expense.ID == "" {
		t.Error("expected non-empty expense ID")
	}
	if expense.Status != "pending" {
		t.Errorf("status: expected 'pending', got '%s'", expense.Status)
	}
	if expense.Currency != "USD" {
		t.Errorf("currency: expected group's 'USD', got '%s'", expense.Currency)
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("splits: expected 3, got %d", len(expense.Splits))
	}

	// 1000 cents over three people: the leftover cent lands on the first.
	wantAmounts := []string{"3.34", "3.33", "3.33"}
	for i, split := range expense.Splits {
		if split.MemberID != ids[i] {
			t.Errorf("split %d: expected member %s, got %s", i, ids[i], split.MemberID)
		}
		if split.Amount != wantAmounts[i] {
			t.Errorf("split %d: expected %s, got %s", i, wantAmounts[i], split.Amount)
		}
	}
}

func TestCreateExpense_ExactSplit(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Groceries", "Bob")
	ids := memberIDs(group)

	res := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Weekly shop",
		Total:       "45.67",
		Payers:      []Share{{MemberID: ids[0], Amount: "45.67"}},
		Split: SplitInput{
			Strategy:       StrategyExact,
			ParticipantIDs: ids,
			Amounts:        []string{"30.17", "15.50"},
		},
	})

	splits := res.Expense.Splits
	if splits[0].Amount != "30.17" || splits[1].Amount != "15.50" {
		t.Errorf("expected splits 30.17/15.50, got %s/%s", splits[0].Amount, splits[1].Amount)
	}
}

func TestCreateExpense_ExactSplitMismatch(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Groceries", "Bob")
	ids := memberIDs(group)

	_, err := call[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Weekly shop",
		Total:       "45.67",
		Payers:      []Share{{MemberID: ids[0], Amount: "45.67"}},
		Split: SplitInput{
			Strategy:       StrategyExact,
			ParticipantIDs: ids,
			Amounts:        []string{"30.00", "15.00"}, // off by 0.67
		},
	})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateExpense_PercentageSplit(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Rent", "Bob")
	ids := memberIDs(group)

	res := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "October rent",
		Total:       "1500.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "1500.00"}},
		Split: SplitInput{
			Strategy:       StrategyPercentage,
			ParticipantIDs: ids,
			Percents:       []float64{60, 40},
		},
	})

	splits := res.Expense.Splits
	if splits[0].Amount != "900.00" || splits[1].Amount != "600.00" {
		t.Errorf("expected splits 900.00/600.00, got %s/%s", splits[0].Amount, splits[1].Amount)
	}
}

func TestCreateExpense_PayerSumMismatch(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Picnic", "Bob")
	ids := memberIDs(group)

	_, err := call[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Snacks",
		Total:       "20.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "15.00"}},
		Split: SplitInput{
			Strategy:       StrategyEqual,
			ParticipantIDs: ids,
		},
	})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateExpense_UnknownParticipant(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Picnic", "Bob")
	ids := memberIDs(group)

	_, err := call[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Snacks",
		Total:       "20.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "20.00"}},
		Split: SplitInput{
			Strategy:       StrategyEqual,
			ParticipantIDs: []string{ids[0], "not-a-member"},
		},
	})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateExpense_UnknownStrategy(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Picnic", "Bob")
	ids := memberIDs(group)

	_, err := call[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Snacks",
		Total:       "20.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "20.00"}},
		Split: SplitInput{
			Strategy:       "vibes",
			ParticipantIDs: ids,
		},
	})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateExpense_WithItems(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Dinner", "Bob")
	ids := memberIDs(group)

	res := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Thai takeout",
		Total:       "32.50",
		Payers:      []Share{{MemberID: ids[0], Amount: "32.50"}},
		Split: SplitInput{
			Strategy:       StrategyEqual,
			ParticipantIDs: ids,
		},
		Items: []ItemInput{
			{Description: "Pad thai", Amount: "14.00"},
			{Description: "Green curry", Amount: "18.50"},
		},
	})

	if len(res.Expense.Items) != 2 {
		t.Fatalf("items: expected 2, got %d", len(res.Expense.Items))
	}
	if res.Expense.Items[0].Description != "Pad thai" || res.Expense.Items[0].Amount != "14.00" {
		t.Errorf("unexpected first item: %+v", res.Expense.Items[0])
	}
}

func TestConfirmExpense(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Dinner", "Bob")
	ids := memberIDs(group)

	created := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Sushi",
		Total:       "40.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "40.00"}},
		Split:       SplitInput{Strategy: StrategyEqual, ParticipantIDs: ids},
	})

	res := mustCall[ConfirmExpenseRequest, ConfirmExpenseResponse](env, ExpenseConfirmProcedure, &ConfirmExpenseRequest{
		ExpenseID: created.Expense.ID,
	})
	if res.Expense.Status != "confirmed" {
		t.Errorf("status: expected 'confirmed', got '%s'", res.Expense.Status)
	}

	// Confirming again is a no-op, not an error.
	res = mustCall[ConfirmExpenseRequest, ConfirmExpenseResponse](env, ExpenseConfirmProcedure, &ConfirmExpenseRequest{
		ExpenseID: created.Expense.ID,
	})
	if res.Expense.Status != "confirmed" {
		t.Errorf("status after second confirm: expected 'confirmed', got '%s'", res.Expense.Status)
	}
}

func TestListExpenses_ConfirmedOnly(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Dinner", "Bob")
	ids := memberIDs(group)

	newExpense := func(desc string) string {
		res := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
			GroupID:     group.ID,
			Description: desc,
			Total:       "10.00",
			Payers:      []Share{{MemberID: ids[0], Amount: "10.00"}},
			Split:       SplitInput{Strategy: StrategyEqual, ParticipantIDs: ids},
		})
		return res.Expense.ID
	}

	confirmed := newExpense("Confirmed dinner")
	newExpense("Still pending")
	mustCall[ConfirmExpenseRequest, ConfirmExpenseResponse](env, ExpenseConfirmProcedure, &ConfirmExpenseRequest{ExpenseID: confirmed})

	all := mustCall[ListExpensesRequest, ListExpensesResponse](env, ExpenseListProcedure, &ListExpensesRequest{
		GroupID: group.ID,
	})
	if len(all.Expenses) != 2 {
		t.Errorf("all expenses: expected 2, got %d", len(all.Expenses))
	}

	onlyConfirmed := mustCall[ListExpensesRequest, ListExpensesResponse](env, ExpenseListProcedure, &ListExpensesRequest{
		GroupID:       group.ID,
		ConfirmedOnly: true,
	})
	if len(onlyConfirmed.Expenses) != 1 {
		t.Fatalf("confirmed expenses: expected 1, got %d", len(onlyConfirmed.Expenses))
	}
	if onlyConfirmed.Expenses[0].ID != confirmed {
		t.Errorf("expected confirmed expense %s, got %s", confirmed, onlyConfirmed.Expenses[0].ID)
	}
	if len(onlyConfirmed.Expenses[0].Splits) == 0 {
		t.Error("expected splits on listed expense")
	}
}

func TestDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Dinner", "Bob")
	ids := memberIDs(group)

	created := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Mistake",
		Total:       "5.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "5.00"}},
		Split:       SplitInput{Strategy: StrategyEqual, ParticipantIDs: ids},
	})

	mustCall[DeleteExpenseRequest, DeleteExpenseResponse](env, ExpenseDeleteProcedure, &DeleteExpenseRequest{
		ExpenseID: created.Expense.ID,
	})

	_, err := call[GetExpenseRequest, GetExpenseResponse](env, ExpenseGetProcedure, &GetExpenseRequest{
		ExpenseID: created.Expense.ID,
	})
	assertCode(t, err, connect.CodeNotFound)
}

func TestGetExpense_NonMemberDenied(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup("Dinner", "Bob")
	ids := memberIDs(group)

	created := mustCall[CreateExpenseRequest, CreateExpenseResponse](env, ExpenseCreateProcedure, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Sushi",
		Total:       "40.00",
		Payers:      []Share{{MemberID: ids[0], Amount: "40.00"}},
		Split:       SplitInput{Strategy: StrategyEqual, ParticipantIDs: ids},
	})

	outsiderToken, _ := env.register("eve@example.com", "Eve", "hunter2hunter2")
	_, err := call[GetExpenseRequest, GetExpenseResponse](env.as(outsiderToken), ExpenseGetProcedure, &GetExpenseRequest{
		ExpenseID: created.Expense.ID,
	})
	assertCode(t, err, connect.CodePermissionDenied)
}
