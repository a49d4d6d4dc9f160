package bank

import "github.com/shopspring/decimal"

// Kind identifies one of the closed set of transaction kinds.
type Kind string

const (
	KindDeposit     Kind = "deposit"
	KindWithdrawal  Kind = "withdrawal"
	KindInstallment Kind = "loan_installment"
	KindPayoff      Kind = "loan_payoff"
)

// Label returns the kind name used on statements and exports.
func (k Kind) Label() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindWithdrawal:
		return "Withdrawal"
	case KindInstallment:
		return "Loan installment"
	case KindPayoff:
		return "Loan payoff"
	}
	return string(k)
}

// Transaction is one monetary movement. Apply runs it against an account and
// appends it to the account history only when the whole movement succeeded;
// a transaction never partially applies.
type Transaction interface {
	Kind() Kind
	Amount() decimal.Decimal
	Apply(a *Account) error
}

// Deposit credits an account.
type Deposit struct{ amount decimal.Decimal }

func NewDeposit(amount decimal.Decimal) Deposit { return Deposit{amount: amount} }

func (d Deposit) Kind() Kind              { return KindDeposit }
func (d Deposit) Amount() decimal.Decimal { return d.amount }

func (d Deposit) Apply(a *Account) error {
	if err := a.Deposit(d.amount); err != nil {
		return err
	}
	a.History.add(d)
	return nil
}

// Withdrawal debits an account under the full withdrawal policy.
type Withdrawal struct{ amount decimal.Decimal }

func NewWithdrawal(amount decimal.Decimal) Withdrawal { return Withdrawal{amount: amount} }

func (t Withdrawal) Kind() Kind              { return KindWithdrawal }
func (t Withdrawal) Amount() decimal.Decimal { return t.amount }

func (t Withdrawal) Apply(a *Account) error {
	if err := a.Withdraw(t.amount); err != nil {
		return err
	}
	a.History.add(t)
	return nil
}

// InstallmentPayment pays one loan installment. It shares the ordinary
// withdrawal policy and limits with Withdrawal.
type InstallmentPayment struct{ amount decimal.Decimal }

func NewInstallmentPayment(amount decimal.Decimal) InstallmentPayment {
	return InstallmentPayment{amount: amount}
}

func (t InstallmentPayment) Kind() Kind              { return KindInstallment }
func (t InstallmentPayment) Amount() decimal.Decimal { return t.amount }

func (t InstallmentPayment) Apply(a *Account) error {
	if err := a.Withdraw(t.amount); err != nil {
		return err
	}
	a.History.add(t)
	return nil
}

// Payoff settles a loan in full. It bypasses the withdrawal limits and is
// recorded only when the full amount was debited in one call; it never
// records a partial payoff.
type Payoff struct{ amount decimal.Decimal }

func NewPayoff(amount decimal.Decimal) Payoff { return Payoff{amount: amount} }

func (t Payoff) Kind() Kind              { return KindPayoff }
func (t Payoff) Amount() decimal.Decimal { return t.amount }

func (t Payoff) Apply(a *Account) error {
	if a.Balance().LessThan(t.amount) {
		return ErrInsufficientFunds
	}
	if debited := a.DebitForLoan(t.amount); debited.LessThan(t.amount) {
		return ErrInsufficientFunds
	}
	a.History.add(t)
	return nil
}
