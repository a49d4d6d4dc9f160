package bank

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fund is a test helper: credits the account or fails the test.
func fund(t *testing.T, a *Account, amount string) {
	t.Helper()
	if err := NewDeposit(dec(amount)).Apply(a); err != nil {
		t.Fatalf("fund %s: %v", amount, err)
	}
}

func TestWithdrawFailureOrder(t *testing.T) {
	// One reason per call, checked in a fixed order.
	tests := []struct {
		name    string
		balance string
		amount  string
		want    error
	}{
		{"insufficient funds", "100", "200", ErrInsufficientFunds},
		{"insufficient before limit", "100", "2000", ErrInsufficientFunds},
		{"limit exceeded", "5000", "2000", ErrLimitExceeded},
		{"invalid amount zero", "100", "0", ErrInvalidAmount},
		{"invalid amount negative", "100", "-5", ErrInvalidAmount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAccount(1, nil)
			fund(t, a, tc.balance)
			err := a.Withdraw(dec(tc.amount))
			if !errors.Is(err, tc.want) {
				t.Fatalf("Withdraw(%s) err=%v want=%v", tc.amount, err, tc.want)
			}
			if !a.Balance().Equal(dec(tc.balance)) {
				t.Fatalf("balance changed on failed withdrawal: %s", a.Balance())
			}
		})
	}
}

func TestWithdrawCountLimit(t *testing.T) {
	a := NewAccount(1, nil)
	fund(t, a, "1000")
	for i := 0; i < DefaultWithdrawalCount; i++ {
		if err := NewWithdrawal(dec("100")).Apply(a); err != nil {
			t.Fatalf("withdrawal %d: %v", i+1, err)
		}
	}
	// Next attempt fails with the count reason regardless of balance/amount.
	if err := a.Withdraw(dec("50")); !errors.Is(err, ErrWithdrawalCountExceeded) {
		t.Fatalf("err=%v want=%v", err, ErrWithdrawalCountExceeded)
	}
	if got := a.History.countWithdrawals(); got != DefaultWithdrawalCount {
		t.Fatalf("recorded withdrawals=%d want=%d", got, DefaultWithdrawalCount)
	}
}

func TestInstallmentsDoNotConsumeWithdrawalQuota(t *testing.T) {
	a := NewAccount(1, nil)
	fund(t, a, "1000")
	for i := 0; i < 5; i++ {
		if err := NewInstallmentPayment(dec("10")).Apply(a); err != nil {
			t.Fatalf("installment %d: %v", i+1, err)
		}
	}
	if err := NewWithdrawal(dec("10")).Apply(a); err != nil {
		t.Fatalf("withdrawal after installments: %v", err)
	}
}

func TestDepositInvalidAmount(t *testing.T) {
	a := NewAccount(1, nil)
	fund(t, a, "100")
	for _, amount := range []string{"0", "-10"} {
		err := NewDeposit(dec(amount)).Apply(a)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Deposit(%s) err=%v want=%v", amount, err, ErrInvalidAmount)
		}
	}
	if !a.Balance().Equal(dec("100")) {
		t.Fatalf("balance=%s want=100", a.Balance())
	}
	if a.History.Len() != 1 {
		t.Fatalf("failed deposits must not be recorded, history=%d", a.History.Len())
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	a := NewAccount(1, nil)
	ops := []Transaction{
		NewDeposit(dec("50")),
		NewWithdrawal(dec("60")),
		NewWithdrawal(dec("50")),
		NewWithdrawal(dec("1")),
		NewDeposit(dec("-3")),
		NewWithdrawal(dec("100")),
	}
	for _, op := range ops {
		_ = op.Apply(a)
		if a.Balance().IsNegative() {
			t.Fatalf("balance went negative: %s", a.Balance())
		}
	}
}

func TestDebitForLoan(t *testing.T) {
	a := NewAccount(1, nil)
	fund(t, a, "300")

	// Bypasses the per-withdrawal limit and the count policy.
	a.WithdrawalLimit = dec("10")
	if got := a.DebitForLoan(dec("200")); !got.Equal(dec("200")) {
		t.Fatalf("debited=%s want=200", got)
	}
	if !a.Balance().Equal(dec("100")) {
		t.Fatalf("balance=%s want=100", a.Balance())
	}

	// All or nothing: more than the balance debits zero.
	if got := a.DebitForLoan(dec("150")); !got.IsZero() {
		t.Fatalf("debited=%s want=0", got)
	}
	if got := a.DebitForLoan(dec("-1")); !got.IsZero() {
		t.Fatalf("debited=%s want=0 for negative amount", got)
	}
	if !a.Balance().Equal(dec("100")) {
		t.Fatalf("balance=%s want=100", a.Balance())
	}
}

func TestPayoffTransactionAllOrNothing(t *testing.T) {
	a := NewAccount(1, nil)
	fund(t, a, "100")
	if err := NewPayoff(dec("150")).Apply(a); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v want=%v", err, ErrInsufficientFunds)
	}
	if !a.Balance().Equal(dec("100")) || a.History.Len() != 1 {
		t.Fatalf("failed payoff must not touch balance or history")
	}
	if err := NewPayoff(dec("100")).Apply(a); err != nil {
		t.Fatalf("payoff: %v", err)
	}
	if !a.Balance().IsZero() || a.History.Len() != 2 {
		t.Fatalf("successful payoff must debit and be recorded")
	}
}
