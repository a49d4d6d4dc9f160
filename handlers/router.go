// Package handlers is the HTTP front-end. Handlers decode the request, run
// the operation against the caller's session-scoped banking service and
// answer with a JSON message; domain errors become HTTP status codes here
// and nowhere else.
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"bankapp/auth"
	"bankapp/chat"
	"bankapp/session"
)

// Server wires the HTTP surface together.
type Server struct {
	Auth     *auth.Authenticator
	Sessions *session.Store
	Engine   *chat.Engine

	// StaticDir, when non-empty, is served under /app/.
	StaticDir string
}

// Router builds the full route table. Everything under /api requires a
// bearer token; session state is keyed by the X-Session-Id header.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.Health).Methods("GET")
	r.HandleFunc("/session", s.NewSession).Methods("GET")
	r.HandleFunc("/auth/register", s.AuthRegister).Methods("POST")
	r.HandleFunc("/auth/token", s.AuthToken).Methods("POST")
	// Customer registration bootstraps a session, so no token yet.
	r.HandleFunc("/customers", s.CreateCustomer).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.Auth.VerifyToken)

	api.HandleFunc("/login/{cpf}", s.Login).Methods("POST")
	api.HandleFunc("/logout", s.Logout).Methods("POST")
	api.HandleFunc("/accounts", s.NewAccount).Methods("POST")
	api.HandleFunc("/accounts", s.ListAccounts).Methods("GET")
	api.HandleFunc("/accounts/{number}", s.RemoveAccount).Methods("DELETE")
	api.HandleFunc("/balance", s.Balance).Methods("GET")
	api.HandleFunc("/statement", s.Statement).Methods("GET")
	api.HandleFunc("/statement/export", s.ExportStatement).Methods("GET")
	api.HandleFunc("/deposit", s.Deposit).Methods("POST")
	api.HandleFunc("/withdraw", s.Withdraw).Methods("POST")
	api.HandleFunc("/loan/simulate", s.SimulateLoan).Methods("POST")
	api.HandleFunc("/loan/contract", s.ContractLoan).Methods("POST")
	api.HandleFunc("/loan/installment", s.PayInstallment).Methods("POST")
	api.HandleFunc("/loan/payoff", s.PayoffLoan).Methods("POST")
	api.HandleFunc("/chat", s.Chat).Methods("POST")

	if s.StaticDir != "" {
		r.PathPrefix("/app/").Handler(
			http.StripPrefix("/app/", http.FileServer(http.Dir(s.StaticDir))))
	}
	return r
}
