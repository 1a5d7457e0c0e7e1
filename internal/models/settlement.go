package models

// Settlement represents a payment between two group members that reduces
// their balances toward zero. The Settled flag is the only settlement
// state that persists: it is flipped once the real-world payment actually
// happened, and only settled payments count toward balances.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromMemberID is the member who pays (net debtor).
	FromMemberID string

	// ToMemberID is the member who receives (net creditor).
	ToMemberID string

	// AmountMinor is the payment amount in minor units; always positive.
	AmountMinor int64

	// Currency is the ISO 4217 code; always the group's currency.
	Currency string

	// Settled reports whether the real-world payment has happened.
	Settled bool

	// Note is an optional description for the settlement.
	Note string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// SettledAt is the Unix timestamp when the payment was marked
	// settled; zero while unsettled.
	SettledAt int64
}
