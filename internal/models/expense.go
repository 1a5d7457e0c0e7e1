package models

// ExpenseStatus is the lifecycle state of an expense.
type ExpenseStatus string

const (
	// ExpenseStatusPending marks a provisional expense, still editable.
	// Pending expenses are excluded from balances.
	ExpenseStatusPending ExpenseStatus = "pending"

	// ExpenseStatusConfirmed marks an expense that has been explicitly
	// confirmed and counts toward balances.
	ExpenseStatusConfirmed ExpenseStatus = "confirmed"
)

// Share is one member's portion of an expense total, in minor units.
// Used both for payer shares (who fronted the money) and for splits
// (who owes what).
type Share struct {
	MemberID    string
	AmountMinor int64
}

// Item is an optional line item on an expense. Items are informational;
// the authoritative allocation lives in the expense's splits.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Description names the item (e.g., "Pizza").
	Description string

	// AmountMinor is the item price in minor units.
	AmountMinor int64
}

// Expense represents a single monetary event in a group.
//
// Invariant: the payer shares sum to TotalMinor, and the splits persisted
// for the expense sum to TotalMinor, both within one minor unit. A
// violation is a data-integrity error surfaced by the engine, never
// silently tolerated.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label for the expense.
	Description string

	// TotalMinor is the full expense amount in minor units.
	TotalMinor int64

	// Currency is the ISO 4217 code; always the group's currency.
	Currency string

	// Status is pending until explicitly confirmed.
	Status ExpenseStatus

	// Payers lists who fronted the money and how much, in minor units.
	Payers []Share

	// Items is the optional itemization of the expense.
	Items []Item

	// CreatedBy is the user ID that recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// Split is the portion of one expense's total allocated to one member,
// produced by the split allocator at expense creation time and persisted
// alongside the expense. Always minor units.
type Split struct {
	ExpenseID   string
	MemberID    string
	AmountMinor int64
}
