package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BranchCode is assigned to every account; the system runs a single branch.
const BranchCode = "0001"

// Default current-account policy.
var DefaultWithdrawalLimit = decimal.NewFromInt(1000)

// DefaultWithdrawalCount is the number of successful withdrawals allowed.
const DefaultWithdrawalCount = 3

// Account is a current account. The balance only changes through a
// successful Transaction or an explicit loan debit, and is never negative.
type Account struct {
	Number          int             `json:"number"`
	Branch          string          `json:"branch"`
	Owner           *Customer       `json:"-"` // back-reference, not ownership
	History         *History        `json:"-"`
	WithdrawalLimit decimal.Decimal `json:"withdrawal_limit"`
	WithdrawalCount int             `json:"withdrawal_count"`

	balance decimal.Decimal
}

// NewAccount creates an account with the default policy. Numbers are
// assigned sequentially by the Service.
func NewAccount(number int, owner *Customer) *Account {
	return &Account{
		Number:          number,
		Branch:          BranchCode,
		Owner:           owner,
		History:         &History{},
		WithdrawalLimit: DefaultWithdrawalLimit,
		WithdrawalCount: DefaultWithdrawalCount,
	}
}

func (a *Account) Balance() decimal.Decimal { return a.balance }

// Withdraw debits the balance under the full withdrawal policy. Exactly one
// failure reason is surfaced per call, checked in a fixed order:
// insufficient funds, then per-withdrawal limit, then withdrawal count,
// then invalid amount. Recording the movement in History is the
// transaction's job, so that only successful movements are ever recorded.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	switch {
	case amount.GreaterThan(a.balance):
		return ErrInsufficientFunds
	case amount.GreaterThan(a.WithdrawalLimit):
		return ErrLimitExceeded
	case a.History.countWithdrawals() >= a.WithdrawalCount:
		return ErrWithdrawalCountExceeded
	case !amount.IsPositive():
		return ErrInvalidAmount
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// Deposit credits the balance. Non-positive amounts fail.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// DebitForLoan takes amount straight off the balance for loan settlement,
// bypassing the withdrawal limits. It returns the amount actually debited:
// the full amount when the balance covers it, zero otherwise.
func (a *Account) DebitForLoan(amount decimal.Decimal) decimal.Decimal {
	if amount.IsPositive() && a.balance.GreaterThanOrEqual(amount) {
		a.balance = a.balance.Sub(amount)
		return amount
	}
	return decimal.Zero
}

// Describe renders the account summary line used by account listings.
func (a *Account) Describe() string {
	name := "N/A"
	if a.Owner != nil && a.Owner.Name != "" {
		name = a.Owner.Name
	}
	return fmt.Sprintf("Branch: %s\tAccount: %d\tHolder: %s", a.Branch, a.Number, name)
}
