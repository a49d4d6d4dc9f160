package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"bankapp/auth"
	"bankapp/bank"
	"bankapp/session"
)

// SessionHeader carries the opaque session token. A request without one (or
// with a stale one) gets a fresh session; the token in use is echoed back on
// every response so clients can persist it.
const SessionHeader = "X-Session-Id"

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type loanRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	Installments int             `json:"installments"`
	Rate         decimal.Decimal `json:"rate"`
}

type credentialsRequest struct {
	CPF      string `json:"cpf"`
	Password string `json:"password"`
}

type customerRequest struct {
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, msg string, err error) {
	writeJSON(w, statusFor(err), map[string]string{"message": msg})
}

// statusFor maps domain errors onto HTTP statuses. Policy and guard
// violations are conflicts: the request was well-formed, the state refused
// it.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, bank.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, bank.ErrCustomerNotFound),
		errors.Is(err, bank.ErrAccountNotFound),
		errors.Is(err, bank.ErrNoAccount):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrInvalidInstallments):
		return http.StatusBadRequest
	case errors.Is(err, bank.ErrDuplicateCPF),
		errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, bank.ErrLimitExceeded),
		errors.Is(err, bank.ErrWithdrawalCountExceeded),
		errors.Is(err, bank.ErrLastAccount),
		errors.Is(err, bank.ErrNonZeroBalance),
		errors.Is(err, bank.ErrActiveLoan),
		errors.Is(err, bank.ErrNoActiveLoan),
		errors.Is(err, bank.ErrAllInstallmentsPaid),
		errors.Is(err, bank.ErrPartialPayoff):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// resolve finds (or starts) the request's session and echoes the token.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	token, sess, created := s.Sessions.GetOrCreate(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, token)
	return sess, created
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) NewSession(w http.ResponseWriter, r *http.Request) {
	token := s.Sessions.New()
	w.Header().Set(SessionHeader, token)
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": token})
}

func (s *Server) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CPF == "" || req.Password == "" {
		http.Error(w, "cpf and password are required", http.StatusBadRequest)
		return
	}
	if err := s.Auth.Register(req.CPF, req.Password); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Access credentials registered."})
}

func (s *Server) AuthToken(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, err := s.Auth.Login(req.CPF, req.Password)
	if err != nil {
		http.Error(w, "invalid cpf or password", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, created := s.resolve(w, r)
	var msg string
	var err error
	sess.Do(func(svc *bank.Service) {
		msg, err = svc.CreateCustomer(req.Name, req.CPF, req.BirthDate, req.Address)
	})
	body := map[string]string{"message": msg}
	if created {
		body["sessionId"] = w.Header().Get(SessionHeader)
	}
	status := statusFor(err)
	if err == nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, body)
}

// do runs one message-producing service operation for the request session.
func (s *Server) do(w http.ResponseWriter, r *http.Request, op func(*bank.Service) (string, error)) {
	sess, _ := s.resolve(w, r)
	var msg string
	var err error
	sess.Do(func(svc *bank.Service) { msg, err = op(svc) })
	writeMessage(w, msg, err)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	cpf := mux.Vars(r)["cpf"]
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.Login(cpf) })
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.Logout() })
}

func (s *Server) NewAccount(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.NewAccount() })
}

func (s *Server) ListAccounts(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.ListAccounts() })
}

func (s *Server) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		http.Error(w, "invalid account number", http.StatusBadRequest)
		return
	}
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.RemoveAccount(number) })
}

func (s *Server) Balance(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.Balance() })
}

func (s *Server) Statement(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.Statement() })
}

func (s *Server) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.Deposit(req.Amount) })
}

func (s *Server) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.Withdraw(req.Amount) })
}

func (s *Server) SimulateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.do(w, r, func(svc *bank.Service) (string, error) {
		return svc.SimulateLoan(req.Principal, req.Installments, req.Rate)
	})
}

func (s *Server) ContractLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.do(w, r, func(svc *bank.Service) (string, error) {
		return svc.ContractLoan(req.Principal, req.Installments, req.Rate)
	})
}

func (s *Server) PayInstallment(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.PayInstallment() })
}

func (s *Server) PayoffLoan(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(svc *bank.Service) (string, error) { return svc.PayoffLoan() })
}

func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, _ := s.resolve(w, r)
	var reply string
	sess.Do(func(svc *bank.Service) {
		reply = s.Engine.Reply(r.Context(), svc, req.Message)
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}
