package console

import (
	"strings"
	"testing"

	"bankapp/bank"
)

// run feeds scripted input lines through the REPL and returns the output.
func run(t *testing.T, svc *bank.Service, lines ...string) string {
	t.Helper()
	var out strings.Builder
	Run(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	return out.String()
}

func TestCreateLoginDepositWithdraw(t *testing.T) {
	svc := bank.NewService()
	out := run(t, svc,
		"nu", "111", "Alice", "1990-01-01", "1 Main St",
		"login", "111",
		"nc",
		"d", "1000",
		"w", "250",
		"s",
		"q",
	)
	for _, want := range []string{
		"Customer created: Alice",
		"Logged in as Alice",
		"Account created.",
		"Deposit of 1000.00 completed.",
		"Withdrawal of 250.00 completed.",
		"Current balance: 750.00",
		"Goodbye.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoanFromMenu(t *testing.T) {
	svc := bank.NewService()
	out := run(t, svc,
		"nu", "111", "Alice", "1990-01-01", "1 Main St",
		"login", "111",
		"nc",
		"loan", "5000", "12", "0.02", "y",
		"pi",
		"q",
	)
	for _, want := range []string{
		"Simulation: total 6200.00",
		"Loan contracted: 5000.00 deposited.",
		"Installment paid (1/12).",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoanDeclined(t *testing.T) {
	svc := bank.NewService()
	out := run(t, svc,
		"nu", "111", "Alice", "1990-01-01", "1 Main St",
		"login", "111",
		"nc",
		"loan", "5000", "12", "0.02", "n",
		"q",
	)
	if strings.Contains(out, "Loan contracted") {
		t.Fatalf("declined loan was contracted:\n%s", out)
	}
	if svc.Active() == nil || svc.Active().Loan != nil {
		t.Fatal("declined loan must leave no record")
	}
}

func TestInvalidInputs(t *testing.T) {
	svc := bank.NewService()
	out := run(t, svc,
		"bogus",
		"nu", "111", "Alice", "1990-01-01", "1 Main St",
		"login", "111",
		"nc",
		"d", "not-a-number",
		"q",
	)
	if !strings.Contains(out, "Invalid option.") {
		t.Fatalf("output missing invalid-option notice:\n%s", out)
	}
	if !strings.Contains(out, "Invalid amount.") {
		t.Fatalf("output missing invalid-amount notice:\n%s", out)
	}
}

func TestEOFQuits(t *testing.T) {
	svc := bank.NewService()
	// Input ends mid-prompt; Run must return instead of spinning.
	out := run(t, svc, "login")
	if !strings.Contains(out, "Customer CPF") {
		t.Fatalf("output=%q", out)
	}
}

func TestLogoutReturnsToWelcome(t *testing.T) {
	svc := bank.NewService()
	out := run(t, svc,
		"nu", "111", "Alice", "1990-01-01", "1 Main St",
		"login", "111",
		"logout",
		"q",
	)
	if !strings.Contains(out, "Logged out.") {
		t.Fatalf("output missing logout notice:\n%s", out)
	}
	// After logout the welcome menu shows again before quitting.
	if strings.Count(out, "Welcome!") < 2 {
		t.Fatalf("welcome menu not shown after logout:\n%s", out)
	}
}
