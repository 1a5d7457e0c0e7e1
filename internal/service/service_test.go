package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/tally-app/tally/internal/auth"
	"github.com/tally-app/tally/internal/middleware"
	"github.com/tally-app/tally/internal/rpc"
	"github.com/tally-app/tally/internal/storage/sqlite"
)

// testEnv is a full server over a temp database plus the credentials of
// one registered user ("Alice") to make authenticated calls with.
type testEnv struct {
	t      *testing.T
	url    string
	token  string
	userID string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)
	groupSvc := NewGroupService(store)
	expenseSvc := NewExpenseService(store)
	settlementSvc := NewSettlementService(store)

	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(rpc.NewHandler(AuthRegisterProcedure, authSvc.Register))
	mux.Handle(rpc.NewHandler(AuthLoginProcedure, authSvc.Login))
	mux.Handle(rpc.NewHandler(GroupCreateProcedure, groupSvc.CreateGroup, private))
	mux.Handle(rpc.NewHandler(GroupGetProcedure, groupSvc.GetGroup, private))
	mux.Handle(rpc.NewHandler(GroupListProcedure, groupSvc.ListGroups, private))
	mux.Handle(rpc.NewHandler(GroupAddMemberProcedure, groupSvc.AddMember, private))
	mux.Handle(rpc.NewHandler(ExpenseCreateProcedure, expenseSvc.CreateExpense, private))
	mux.Handle(rpc.NewHandler(ExpenseGetProcedure, expenseSvc.GetExpense, private))
	mux.Handle(rpc.NewHandler(ExpenseListProcedure, expenseSvc.ListExpenses, private))
	mux.Handle(rpc.NewHandler(ExpenseConfirmProcedure, expenseSvc.ConfirmExpense, private))
	mux.Handle(rpc.NewHandler(ExpenseDeleteProcedure, expenseSvc.DeleteExpense, private))
	mux.Handle(rpc.NewHandler(SettlementBalancesProcedure, settlementSvc.GetGroupBalances, private))
	mux.Handle(rpc.NewHandler(SettlementPlanProcedure, settlementSvc.GetSettlementPlan, private))
	mux.Handle(rpc.NewHandler(SettlementRecordProcedure, settlementSvc.RecordSettlement, private))
	mux.Handle(rpc.NewHandler(SettlementSettleProcedure, settlementSvc.MarkSettled, private))
	mux.Handle(rpc.NewHandler(SettlementListProcedure, settlementSvc.ListSettlements, private))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := &testEnv{t: t, url: server.URL}
	env.token, env.userID = env.register("alice@example.com", "Alice", "correct-horse-battery")
	return env
}

// call invokes one procedure with the env's token attached.
func call[Req, Res any](e *testEnv, procedure string, msg *Req) (*Res, error) {
	client := rpc.NewClient[Req, Res](http.DefaultClient, e.url, procedure)
	req := connect.NewRequest(msg)
	if e.token != "" {
		req.Header().Set("Authorization", "Bearer "+e.token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// mustCall is call that fails the test on error.
func mustCall[Req, Res any](e *testEnv, procedure string, msg *Req) *Res {
	e.t.Helper()
	res, err := call[Req, Res](e, procedure, msg)
	if err != nil {
		e.t.Fatalf("%s failed: %v", procedure, err)
	}
	return res
}

// as returns a copy of the env calling with a different token.
func (e *testEnv) as(token string) *testEnv {
	clone := *e
	clone.token = token
	return &clone
}

func (e *testEnv) register(email, displayName, password string) (token, userID string) {
	e.t.Helper()
	res := mustCall[RegisterRequest, RegisterResponse](e.as(""), AuthRegisterProcedure, &RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	})
	return res.Token, res.User.ID
}

// createGroup creates a group with the given placeholder members; the
// authenticated user is added automatically as the first member.
func (e *testEnv) createGroup(name string, placeholders ...string) Group {
	e.t.Helper()
	members := make([]NewMember, len(placeholders))
	for i, n := range placeholders {
		members[i] = NewMember{Name: n}
	}
	res := mustCall[CreateGroupRequest, CreateGroupResponse](e, GroupCreateProcedure, &CreateGroupRequest{
		Name:     name,
		Currency: "USD",
		Members:  members,
	})
	return res.Group
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %v, got nil", want)
	}
	connectErr, ok := err.(*connect.Error)
	if !ok {
		t.Fatalf("expected connect.Error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v", want, connectErr.Code())
	}
}
