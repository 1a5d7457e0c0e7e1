// Package models defines the core domain records for tally.
//
// All entities are immutable value records: the settlement engine and the
// service layer pass them around but never mutate them in place. IDs are
// UUID strings, timestamps are Unix seconds.
//
// Monetary amounts are always integer minor units (cents) inside the
// application. Decimal strings exist only on the wire; see internal/money
// for the conversion boundary.
//
// The models:
//   - User: a registered account (email + password login)
//   - Group: a set of members who split expenses in one currency
//   - Member: a participant in a group, either a registered user or a
//     placeholder for someone not yet signed up
//   - Expense: a confirmed or pending monetary event with payer shares
//   - Split: one participant's allocated portion of an expense
//   - Settlement: a recorded payment between two members, with a settled
//     flag flipped once the real-world payment happened
package models
