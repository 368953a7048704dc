// Package http wires the budget API surface: the token-gated ledger
// endpoints the dashboard polls, the signup/login issuance flow, and the
// health probes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spendwise/budgetd/internal/budget/service"
	"github.com/spendwise/budgetd/internal/budget/store"
	"github.com/spendwise/budgetd/pkg/httpx"
	"github.com/spendwise/budgetd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Gate     *service.TokenGate
	Ledger   *service.Ledger
	Accounts *service.Accounts
}

func NewRouter(
	buildVersion string,
	corsOrigins []string,
	maxBodyBytes int64,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(httpx.DefaultCORSConfig(corsOrigins)),
		httpx.MaxBodySize(maxBodyBytes),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerLedger()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	accountHandler := &AccountHandler{Accounts: r.Accounts, Gate: r.Gate}

	// Credential endpoints get the strict profile: brute force lives here.
	r.Mux.Handle("POST /signup",
		httpx.Chain(http.HandlerFunc(accountHandler.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(accountHandler.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/change_password",
		httpx.Chain(http.HandlerFunc(accountHandler.HandleChangePassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerLedger() {
	budgetHandler := &BudgetHandler{Gate: r.Gate, Ledger: r.Ledger}

	moderate := httpx.RateLimitByIP(httpx.ModerateLimit)
	r.Mux.Handle("POST /api/get_budget",
		httpx.Chain(http.HandlerFunc(budgetHandler.HandleGetBudget), moderate))
	r.Mux.Handle("POST /api/update_income",
		httpx.Chain(http.HandlerFunc(budgetHandler.HandleUpdateIncome), moderate))
	r.Mux.Handle("POST /api/update_savings",
		httpx.Chain(http.HandlerFunc(budgetHandler.HandleUpdateSavings), moderate))
	r.Mux.Handle("POST /api/add_budget",
		httpx.Chain(http.HandlerFunc(budgetHandler.HandleAddBudget), moderate))
	r.Mux.Handle("POST /api/delete_from_budget",
		httpx.Chain(http.HandlerFunc(budgetHandler.HandleDeleteFromBudget), moderate))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
