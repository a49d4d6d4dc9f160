package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bankapp/auth"
	"bankapp/chat"
	"bankapp/session"
)

func newTestHandler() http.Handler {
	s := &Server{
		Auth:     auth.New("test-secret", time.Hour),
		Sessions: session.NewStore(time.Hour),
		Engine:   &chat.Engine{},
	}
	return s.Router()
}

// call runs one request and decodes the JSON body, when there is one.
func call(t *testing.T, h http.Handler, method, path, token, sid string, body interface{}) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sid != "" {
		req.Header.Set(SessionHeader, sid)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]string{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

// login registers access credentials and returns a bearer token.
func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, _ := call(t, h, "POST", "/auth/register", "", "", map[string]string{"cpf": "111", "password": "hunter2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register code=%d body=%s", rec.Code, rec.Body)
	}
	rec, out := call(t, h, "POST", "/auth/token", "", "", map[string]string{"cpf": "111", "password": "hunter2"})
	if rec.Code != http.StatusOK || out["access_token"] == "" {
		t.Fatalf("token code=%d body=%s", rec.Code, rec.Body)
	}
	return out["access_token"]
}

// bootstrap creates a customer with an account and returns token + session.
func bootstrap(t *testing.T, h http.Handler) (token, sid string) {
	t.Helper()
	token = login(t, h)
	rec, out := call(t, h, "POST", "/customers", "", "", map[string]string{
		"name": "Alice", "cpf": "111", "birth_date": "1990-01-01", "address": "1 Main St",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer code=%d body=%s", rec.Code, rec.Body)
	}
	sid = out["sessionId"]
	if sid == "" {
		t.Fatal("no sessionId returned")
	}
	if rec, _ = call(t, h, "POST", "/api/login/111", token, sid, nil); rec.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", rec.Code, rec.Body)
	}
	if rec, _ = call(t, h, "POST", "/api/accounts", token, sid, nil); rec.Code != http.StatusOK {
		t.Fatalf("new account code=%d body=%s", rec.Code, rec.Body)
	}
	return token, sid
}

func TestHealth(t *testing.T) {
	h := newTestHandler()
	rec, out := call(t, h, "GET", "/health", "", "", nil)
	if rec.Code != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	h := newTestHandler()
	rec, _ := call(t, h, "GET", "/api/balance", "", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want=401", rec.Code)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	h := newTestHandler()
	rec, _ := call(t, h, "POST", "/auth/register", "", "", map[string]string{"cpf": "", "password": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code=%d want=400", rec.Code)
	}
	login(t, h)
	rec, _ = call(t, h, "POST", "/auth/register", "", "", map[string]string{"cpf": "111", "password": "again"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("code=%d want=409", rec.Code)
	}
	rec, _ = call(t, h, "POST", "/auth/token", "", "", map[string]string{"cpf": "111", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want=401", rec.Code)
	}
}

func TestBankingFlow(t *testing.T) {
	h := newTestHandler()
	token, sid := bootstrap(t, h)

	rec, out := call(t, h, "POST", "/api/deposit", token, sid, map[string]interface{}{"amount": 1000})
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit code=%d body=%s", rec.Code, rec.Body)
	}

	// Policy violations come back as conflicts with the failure reason.
	rec, out = call(t, h, "POST", "/api/withdraw", token, sid, map[string]interface{}{"amount": 1500})
	if rec.Code != http.StatusConflict {
		t.Fatalf("withdraw code=%d want=409 body=%s", rec.Code, rec.Body)
	}
	if !strings.Contains(out["message"], "insufficient funds") {
		t.Fatalf("message=%q", out["message"])
	}

	rec, out = call(t, h, "GET", "/api/balance", token, sid, nil)
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "1000.00") {
		t.Fatalf("balance code=%d message=%q", rec.Code, out["message"])
	}

	rec, out = call(t, h, "GET", "/api/statement", token, sid, nil)
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "Deposit: 1000.00") {
		t.Fatalf("statement code=%d message=%q", rec.Code, out["message"])
	}

	rec, _ = call(t, h, "DELETE", "/api/accounts/1", token, sid, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("remove last account code=%d want=409", rec.Code)
	}
	rec, _ = call(t, h, "DELETE", "/api/accounts/nope", token, sid, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("remove bad number code=%d want=400", rec.Code)
	}
}

func TestLoanFlow(t *testing.T) {
	h := newTestHandler()
	token, sid := bootstrap(t, h)

	body := map[string]interface{}{"principal": 5000, "installments": 12, "rate": 0.02}
	rec, out := call(t, h, "POST", "/api/loan/simulate", token, sid, body)
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "6200.00") {
		t.Fatalf("simulate code=%d message=%q", rec.Code, out["message"])
	}

	rec, out = call(t, h, "POST", "/api/loan/contract", token, sid, body)
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "5000.00 deposited") {
		t.Fatalf("contract code=%d message=%q", rec.Code, out["message"])
	}

	rec, out = call(t, h, "POST", "/api/loan/installment", token, sid, nil)
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "(1/12)") {
		t.Fatalf("installment code=%d message=%q", rec.Code, out["message"])
	}

	// Balance cannot cover the rest: partial payoff is a conflict.
	rec, out = call(t, h, "POST", "/api/loan/payoff", token, sid, nil)
	if rec.Code != http.StatusConflict || !strings.Contains(out["message"], "outstanding") {
		t.Fatalf("payoff code=%d message=%q", rec.Code, out["message"])
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newTestHandler()
	token, sid := bootstrap(t, h)

	// A request without the session header gets a fresh, empty service.
	rec, out := call(t, h, "POST", "/api/login/111", token, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code=%d want=404 body=%s", rec.Code, rec.Body)
	}
	fresh := rec.Header().Get(SessionHeader)
	if fresh == "" || fresh == sid {
		t.Fatalf("expected a new session token, got %q", fresh)
	}

	// The original session still has its state.
	rec, out = call(t, h, "GET", "/api/balance", token, sid, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d message=%q", rec.Code, out["message"])
	}
}

func TestStatementExport(t *testing.T) {
	h := newTestHandler()
	token, sid := bootstrap(t, h)
	if rec, _ := call(t, h, "POST", "/api/deposit", token, sid, map[string]interface{}{"amount": 100}); rec.Code != http.StatusOK {
		t.Fatalf("deposit code=%d", rec.Code)
	}

	rec, _ := call(t, h, "GET", "/api/statement/export?format=pdf", token, sid, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf code=%d type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("pdf body does not look like a PDF")
	}

	rec, _ = call(t, h, "GET", "/api/statement/export?format=xlsx", token, sid, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheet") {
		t.Fatalf("xlsx code=%d type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec, _ = call(t, h, "GET", "/api/statement/export?format=csv", token, sid, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("csv code=%d want=400", rec.Code)
	}

	// Exporting from a session with no login is refused, not a crash.
	rec, _ = call(t, h, "GET", "/api/statement/export?format=pdf", token, "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want=401", rec.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	h := newTestHandler()
	token, sid := bootstrap(t, h)

	rec, out := call(t, h, "POST", "/api/chat", token, sid, map[string]string{"message": "/deposit 100"})
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "Deposit of 100.00") {
		t.Fatalf("chat code=%d message=%q", rec.Code, out["message"])
	}
	rec, out = call(t, h, "POST", "/api/chat", token, sid, map[string]string{"message": "tell me a joke"})
	if rec.Code != http.StatusOK || !strings.Contains(out["message"], "banking commands") {
		t.Fatalf("chat fallback code=%d message=%q", rec.Code, out["message"])
	}
}
