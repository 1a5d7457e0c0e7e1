package engine

import "errors"

var (
	// ErrInvalidAmount reports a non-positive expense total.
	ErrInvalidAmount = errors.New("total must be positive")

	// ErrEmptyParticipants reports an allocation with nobody to allocate to.
	ErrEmptyParticipants = errors.New("at least one participant required")

	// ErrSplitMismatch reports shares or percentages that do not add up
	// to the expense total.
	ErrSplitMismatch = errors.New("shares do not sum to total")

	// ErrUnknownMember reports a split, payer, or settlement referencing
	// a member absent from the provided roster. This indicates a
	// data-integrity problem in the upstream store.
	ErrUnknownMember = errors.New("reference to unknown member")

	// ErrUnknownExpense reports a split referencing an expense absent
	// from the provided expense set.
	ErrUnknownExpense = errors.New("split references unknown expense")

	// ErrExpenseMismatch reports an expense whose payer shares or splits
	// do not sum to its total within one minor unit.
	ErrExpenseMismatch = errors.New("expense shares do not sum to expense total")

	// ErrUnbalanced reports balances that do not net to zero, which the
	// simplifier cannot settle cleanly.
	ErrUnbalanced = errors.New("balances do not sum to zero")
)
