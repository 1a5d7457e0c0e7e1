package models

// Group represents a set of members who split expenses with each other.
// Every amount inside a group is denominated in the group's currency;
// cross-currency groups are not supported.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Currency is the ISO 4217 code all group amounts are denominated in.
	Currency string

	// CreatedBy is the user ID that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
