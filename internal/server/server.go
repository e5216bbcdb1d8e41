package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fruktoz0/homebudgetdemo/internal/autopay"
	"github.com/Fruktoz0/homebudgetdemo/internal/config"
	"github.com/Fruktoz0/homebudgetdemo/internal/handler"
	"github.com/Fruktoz0/homebudgetdemo/internal/middleware"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
	ws "github.com/Fruktoz0/homebudgetdemo/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	wsH            *ws.Handler
	authH          *handler.AuthHandler
	householdH     *handler.HouseholdHandler
	invitationH    *handler.InvitationHandler
	transactionH   *handler.TransactionHandler
	recurringH     *handler.RecurringHandler
	savingH        *handler.SavingHandler
	auditH         *handler.AuditHandler
	sessionStore   *store.SessionStore
	userStore      *store.UserStore
	householdStore *store.HouseholdStore
	rateLimiter    *middleware.RateLimiter
	logger         *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	householdStore := store.NewHouseholdStore(db)
	sessionStore := store.NewSessionStore(db, cfg.SessionTTL)
	invitationStore := store.NewInvitationStore(db)
	transactionStore := store.NewTransactionStore(db)
	recurringStore := store.NewRecurringStore(db)
	savingStore := store.NewSavingStore(db)
	auditStore := store.NewAuditStore(db)

	scheduler := autopay.NewScheduler(recurringStore, transactionStore, logger.With("component", "autopay"))

	return &Server{
		db:             db,
		hub:            hub,
		wsH:            ws.NewHandler(hub, logger.With("component", "websocket")),
		authH:          handler.NewAuthHandler(userStore, sessionStore, cfg.SessionTTL, logger.With("component", "auth")),
		householdH:     handler.NewHouseholdHandler(householdStore, hub, logger.With("component", "household")),
		invitationH:    handler.NewInvitationHandler(invitationStore, logger.With("component", "invitation")),
		transactionH:   handler.NewTransactionHandler(transactionStore, householdStore, hub, logger.With("component", "transaction")),
		recurringH:     handler.NewRecurringHandler(recurringStore, scheduler, hub, logger.With("component", "recurring")),
		savingH:        handler.NewSavingHandler(savingStore, hub, logger.With("component", "saving")),
		auditH:         handler.NewAuditHandler(auditStore, logger.With("component", "audit")),
		sessionStore:   sessionStore,
		userStore:      userStore,
		householdStore: householdStore,
		rateLimiter:    middleware.NewRateLimiter(),
		logger:         logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// HouseholdStore returns the household store for seeding tasks.
func (s *Server) HouseholdStore() *store.HouseholdStore {
	return s.householdStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return middleware.RequestID(logged)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Session + profile
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me", s.authH.UpdateProfile)

	// Household membership
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("GET /api/households/current", s.householdH.Current)
	mux.HandleFunc("POST /api/households/join", s.householdH.Join)
	mux.HandleFunc("POST /api/households/members/{id}/approve", s.householdH.Approve)
	mux.HandleFunc("DELETE /api/households/members/{id}", s.householdH.Remove)

	// Invitations
	mux.HandleFunc("POST /api/invitations", s.invitationH.Create)
	mux.HandleFunc("GET /api/invitations", s.invitationH.List)
	mux.HandleFunc("POST /api/invitations/{id}/revoke", s.invitationH.Revoke)

	// Transactions
	mux.HandleFunc("GET /api/transactions", s.transactionH.List)
	mux.HandleFunc("POST /api/transactions", s.transactionH.Create)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.transactionH.Delete)
	mux.HandleFunc("GET /api/transactions/export", s.transactionH.Export)
	mux.HandleFunc("GET /api/categories", s.transactionH.Categories)

	// Recurring items + auto-payment run
	mux.HandleFunc("GET /api/recurring", s.recurringH.List)
	mux.HandleFunc("POST /api/recurring", s.recurringH.Create)
	mux.HandleFunc("PUT /api/recurring/{id}", s.recurringH.Update)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.recurringH.Delete)
	mux.HandleFunc("POST /api/recurring/process", s.recurringH.Process)

	// Saving goals
	mux.HandleFunc("GET /api/savings", s.savingH.List)
	mux.HandleFunc("POST /api/savings", s.savingH.Create)
	mux.HandleFunc("DELETE /api/savings/{id}", s.savingH.Delete)
	mux.HandleFunc("POST /api/savings/{id}/balance", s.savingH.UpdateBalance)
	mux.HandleFunc("GET /api/savings/{id}/logs", s.savingH.Logs)

	// Audit trail
	mux.HandleFunc("GET /api/audit-logs", s.auditH.List)

	// WebSocket
	mux.Handle("GET /ws", s.wsH)
}
