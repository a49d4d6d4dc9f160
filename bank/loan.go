package bank

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// Loan tracks the amortization state of a contracted loan. A customer holds
// at most one loan record; contracting again replaces it. Outstanding only
// decreases, floor-clamped at zero.
//
// Interest is simple-linear: total = principal * (1 + rate * installments).
type Loan struct {
	Principal    decimal.Decimal `json:"principal"`
	Installments int             `json:"installments"`
	Installment  decimal.Decimal `json:"installment"`
	Paid         int             `json:"paid"`
	Total        decimal.Decimal `json:"total"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

// Simulate computes the total cost and per-installment amount for a loan.
// Pure: no customer or account state is touched. installments must be
// positive, the caller validates.
func Simulate(principal decimal.Decimal, installments int, rate decimal.Decimal) (total, installment decimal.Decimal) {
	n := decimal.NewFromInt(int64(installments))
	total = principal.Mul(one.Add(rate.Mul(n)))
	installment = total.Div(n)
	return total, installment
}

// NewLoan contracts a loan: nothing paid yet, the full total outstanding.
func NewLoan(principal decimal.Decimal, installments int, rate decimal.Decimal) *Loan {
	total, installment := Simulate(principal, installments, rate)
	return &Loan{
		Principal:    principal,
		Installments: installments,
		Installment:  installment,
		Total:        total,
		Outstanding:  total,
	}
}

// Active reports whether the loan still has an outstanding balance.
func (l *Loan) Active() bool {
	return l != nil && l.Outstanding.IsPositive()
}

// reduce lowers the outstanding balance, clamped at zero.
func (l *Loan) reduce(amount decimal.Decimal) {
	l.Outstanding = l.Outstanding.Sub(amount)
	if l.Outstanding.IsNegative() {
		l.Outstanding = decimal.Zero
	}
}
