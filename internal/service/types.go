package service

// Procedure paths for every RPC, in Connect's /package.Service/Method
// form. cmd/server registers a handler per procedure and clients dial
// the same constants.
const (
	AuthRegisterProcedure = "/tally.v1.AuthService/Register"
	AuthLoginProcedure    = "/tally.v1.AuthService/Login"

	GroupCreateProcedure    = "/tally.v1.GroupService/CreateGroup"
	GroupGetProcedure       = "/tally.v1.GroupService/GetGroup"
	GroupListProcedure      = "/tally.v1.GroupService/ListGroups"
	GroupAddMemberProcedure = "/tally.v1.GroupService/AddMember"

	ExpenseCreateProcedure  = "/tally.v1.ExpenseService/CreateExpense"
	ExpenseGetProcedure     = "/tally.v1.ExpenseService/GetExpense"
	ExpenseListProcedure    = "/tally.v1.ExpenseService/ListExpenses"
	ExpenseConfirmProcedure = "/tally.v1.ExpenseService/ConfirmExpense"
	ExpenseDeleteProcedure  = "/tally.v1.ExpenseService/DeleteExpense"

	SettlementBalancesProcedure = "/tally.v1.SettlementService/GetGroupBalances"
	SettlementPlanProcedure     = "/tally.v1.SettlementService/GetSettlementPlan"
	SettlementRecordProcedure   = "/tally.v1.SettlementService/RecordSettlement"
	SettlementSettleProcedure   = "/tally.v1.SettlementService/MarkSettled"
	SettlementListProcedure     = "/tally.v1.SettlementService/ListSettlements"
)

// Split strategies accepted by CreateExpense.
const (
	StrategyEqual      = "equal"
	StrategyExact      = "exact"
	StrategyPercentage = "percentage"
)

// Monetary amounts cross the wire as fixed-decimal strings ("10.50");
// internal/money converts them to minor units at this boundary and the
// engine never sees a decimal.

// User is the wire shape of an account. The password hash never leaves
// the server.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// NewMember describes a member to add: exactly one of UserID (registered)
// or Name (placeholder) must be set.
type NewMember struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Member is the wire shape of a group member. Kind is "registered" or
// "placeholder"; UserID is set for the former, Name for the latter.
type Member struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Currency  string   `json:"currency"`
	Members   []Member `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type CreateGroupRequest struct {
	Name     string      `json:"name"`
	Currency string      `json:"currency"`
	Members  []NewMember `json:"members"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string    `json:"group_id"`
	Member  NewMember `json:"member"`
}

type AddMemberResponse struct {
	Member Member `json:"member"`
}

// Share pairs a member with a decimal amount, used for payer shares and
// splits on the wire.
type Share struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

// SplitInput selects the allocation strategy for a new expense.
// Amounts parallels ParticipantIDs for the exact strategy, Percents for
// the percentage strategy.
type SplitInput struct {
	Strategy       string    `json:"strategy"`
	ParticipantIDs []string  `json:"participant_ids"`
	Amounts        []string  `json:"amounts,omitempty"`
	Percents       []float64 `json:"percents,omitempty"`
}

type ItemInput struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type Item struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Total       string  `json:"total"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	Payers      []Share `json:"payers"`
	Splits      []Share `json:"splits"`
	Items       []Item  `json:"items,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

type CreateExpenseRequest struct {
	GroupID     string      `json:"group_id"`
	Description string      `json:"description"`
	Total       string      `json:"total"`
	Payers      []Share     `json:"payers"`
	Split       SplitInput  `json:"split"`
	Items       []ItemInput `json:"items,omitempty"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID       string `json:"group_id"`
	ConfirmedOnly bool   `json:"confirmed_only,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type ConfirmExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ConfirmExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// Balance is one member's derived position: positive net means the
// member is owed money.
type Balance struct {
	MemberID string `json:"member_id"`
	Paid     string `json:"paid"`
	Owed     string `json:"owed"`
	Net      string `json:"net"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Currency string    `json:"currency"`
	Balances []Balance `json:"balances"`
}

// Transaction is one proposed settling payment from the plan.
type Transaction struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

type GetSettlementPlanRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementPlanResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type Settlement struct {
	ID           string `json:"id"`
	GroupID      string `json:"group_id"`
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Settled      bool   `json:"settled"`
	Note         string `json:"note,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	SettledAt    int64  `json:"settled_at,omitempty"`
}

type RecordSettlementRequest struct {
	GroupID      string `json:"group_id"`
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Note         string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type MarkSettledRequest struct {
	SettlementID string `json:"settlement_id"`
}

type MarkSettledResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}
