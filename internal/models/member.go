package models

// Identity says who a group member is. Exactly one of the two variants
// applies: a Registered member is backed by a user account, a Placeholder
// stands in for someone who has not signed up yet. Modeling this as a
// closed interface makes the "both set" and "neither set" states
// unrepresentable.
type Identity interface {
	isIdentity()

	// Label returns a human-readable identifier for logs and titles:
	// the user ID for registered members, the name for placeholders.
	Label() string
}

// Registered identifies a member backed by a user account.
type Registered struct {
	UserID string
}

func (Registered) isIdentity() {}

// Label returns the backing user ID.
func (r Registered) Label() string { return r.UserID }

// Placeholder identifies a member who has not signed up yet.
// Only a display name is known.
type Placeholder struct {
	Name string
}

func (Placeholder) isIdentity() {}

// Label returns the placeholder's display name.
func (p Placeholder) Label() string { return p.Name }

// Member is a participant in a group. Expenses, splits, and settlements
// all reference members by ID, never users directly, so placeholder
// members take part in the money flow like anyone else.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// Identity is the registered-or-placeholder variant.
	Identity Identity

	// CreatedAt is the Unix timestamp when the member was added.
	CreatedAt int64
}

// UserID returns the backing user ID and true if the member is
// registered, or "" and false for placeholders.
func (m Member) UserID() (string, bool) {
	if r, ok := m.Identity.(Registered); ok {
		return r.UserID, true
	}
	return "", false
}
