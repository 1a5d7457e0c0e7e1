package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tally-app/tally/internal/auth"
	"github.com/tally-app/tally/internal/config"
	"github.com/tally-app/tally/internal/middleware"
	"github.com/tally-app/tally/internal/rpc"
	"github.com/tally-app/tally/internal/service"
	"github.com/tally-app/tally/internal/storage/sqlite"
	"github.com/tally-app/tally/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager)
	groupService := service.NewGroupService(store)
	expenseService := service.NewExpenseService(store)
	settlementService := service.NewSettlementService(store)

	// Register and Login are the only procedures callable without a
	// token; everything else goes through RequireAuth.
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
	)
	private := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(rpc.NewHandler(service.AuthRegisterProcedure, authService.Register, public))
	mux.Handle(rpc.NewHandler(service.AuthLoginProcedure, authService.Login, public))

	mux.Handle(rpc.NewHandler(service.GroupCreateProcedure, groupService.CreateGroup, private))
	mux.Handle(rpc.NewHandler(service.GroupGetProcedure, groupService.GetGroup, private))
	mux.Handle(rpc.NewHandler(service.GroupListProcedure, groupService.ListGroups, private))
	mux.Handle(rpc.NewHandler(service.GroupAddMemberProcedure, groupService.AddMember, private))

	mux.Handle(rpc.NewHandler(service.ExpenseCreateProcedure, expenseService.CreateExpense, private))
	mux.Handle(rpc.NewHandler(service.ExpenseGetProcedure, expenseService.GetExpense, private))
	mux.Handle(rpc.NewHandler(service.ExpenseListProcedure, expenseService.ListExpenses, private))
	mux.Handle(rpc.NewHandler(service.ExpenseConfirmProcedure, expenseService.ConfirmExpense, private))
	mux.Handle(rpc.NewHandler(service.ExpenseDeleteProcedure, expenseService.DeleteExpense, private))

	mux.Handle(rpc.NewHandler(service.SettlementBalancesProcedure, settlementService.GetGroupBalances, private))
	mux.Handle(rpc.NewHandler(service.SettlementPlanProcedure, settlementService.GetSettlementPlan, private))
	mux.Handle(rpc.NewHandler(service.SettlementRecordProcedure, settlementService.RecordSettlement, private))
	mux.Handle(rpc.NewHandler(service.SettlementSettleProcedure, settlementService.MarkSettled, private))
	mux.Handle(rpc.NewHandler(service.SettlementListProcedure, settlementService.ListSettlements, private))

	mux.Handle("/metrics", promhttp.Handler())

	handler := loggingMiddleware(corsMiddleware(mux))

	// h2c enables HTTP/2 without TLS, which Connect clients expect from
	// a plaintext endpoint.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
