package bank

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// balanceTolerance absorbs residue from installment arithmetic when deciding
// whether an account is empty.
var balanceTolerance = decimal.New(1, -9)

// Service orchestrates customers, accounts and loans for one session. It
// keeps the customer registry, the global account registry and the
// currently logged-in customer. Operations return a human-readable summary
// plus a sentinel error; the message is meaningful on failure too.
//
// A Service is not safe for concurrent use. The HTTP front-end serializes
// requests with one lock per session.
type Service struct {
	customers  []*Customer
	accounts   []*Account
	active     *Customer
	nextNumber int
}

// NewService returns an empty registry with no one logged in.
func NewService() *Service {
	return &Service{nextNumber: 1}
}

func (s *Service) findCustomer(cpf string) *Customer {
	for _, c := range s.customers {
		if c.CPF == cpf {
			return c
		}
	}
	return nil
}

// LoggedIn reports whether a customer is currently authenticated.
func (s *Service) LoggedIn() bool { return s.active != nil }

// Active returns the logged-in customer, or nil.
func (s *Service) Active() *Customer { return s.active }

// CreateCustomer registers a new customer. CPF is the unique key.
func (s *Service) CreateCustomer(name, cpf, birthDate, address string) (string, error) {
	if s.findCustomer(cpf) != nil {
		return "CPF already registered. Log in with it or use another CPF.", ErrDuplicateCPF
	}
	c := &Customer{Name: name, CPF: cpf, BirthDate: birthDate, Address: address}
	s.customers = append(s.customers, c)
	return fmt.Sprintf("Customer created: %s (CPF %s). Log in and open an account.", name, cpf), nil
}

// Login selects the active customer by CPF.
func (s *Service) Login(cpf string) (string, error) {
	c := s.findCustomer(cpf)
	if c == nil {
		return "Customer not found. Create a customer first.", ErrCustomerNotFound
	}
	s.active = c
	return fmt.Sprintf("Logged in as %s (CPF %s).", c.Name, c.CPF), nil
}

// Logout clears the active customer. Always succeeds.
func (s *Service) Logout() (string, error) {
	s.active = nil
	return "Logged out.", nil
}

// NewAccount opens a current account for the active customer. Account
// numbers are assigned sequentially and never reused.
func (s *Service) NewAccount() (string, error) {
	if s.active == nil {
		return "Log in first.", ErrNotLoggedIn
	}
	a := NewAccount(s.nextNumber, s.active)
	s.nextNumber++
	s.accounts = append(s.accounts, a)
	s.active.Accounts = append(s.active.Accounts, a)
	return fmt.Sprintf("Account created. Branch %s, number %d.", a.Branch, a.Number), nil
}

// ListAccounts lists the active customer's accounts.
func (s *Service) ListAccounts() (string, error) {
	if s.active == nil {
		return "Log in first.", ErrNotLoggedIn
	}
	if len(s.active.Accounts) == 0 {
		return "You have no account yet. Open one first.", ErrNoAccount
	}
	lines := make([]string, 0, len(s.active.Accounts))
	for _, a := range s.active.Accounts {
		lines = append(lines, a.Describe())
	}
	return "Your accounts:\n" + strings.Join(lines, "\n"), nil
}

// RemoveAccount deletes one of the active customer's accounts. Refused with
// a specific reason unless all preconditions hold: the customer keeps at
// least one account, the account belongs to them, its balance is zero
// (within tolerance) and no loan is outstanding.
func (s *Service) RemoveAccount(number int) (string, error) {
	if s.active == nil {
		return "Log in first.", ErrNotLoggedIn
	}
	if len(s.active.Accounts) <= 1 {
		return "Cannot remove the last account. Keep at least one active account.", ErrLastAccount
	}
	var target *Account
	for _, a := range s.active.Accounts {
		if a.Number == number {
			target = a
			break
		}
	}
	if target == nil {
		return fmt.Sprintf("Account %d not found for the logged-in customer.", number), ErrAccountNotFound
	}
	if target.Balance().Abs().GreaterThan(balanceTolerance) {
		return "Cannot remove an account that still holds a balance. Empty it first.", ErrNonZeroBalance
	}
	if s.active.Loan.Active() {
		return "There is an active loan. Settle the outstanding balance before removing accounts.", ErrActiveLoan
	}
	s.active.Accounts = removeByNumber(s.active.Accounts, number)
	s.accounts = removeByNumber(s.accounts, number)
	return fmt.Sprintf("Account %d removed.", number), nil
}

func removeByNumber(accts []*Account, number int) []*Account {
	out := accts[:0]
	for _, a := range accts {
		if a.Number != number {
			out = append(out, a)
		}
	}
	return out
}

// primary resolves the active customer's primary account, with the
// corresponding failure message when it cannot.
func (s *Service) primary() (*Account, string, error) {
	if s.active == nil {
		return nil, "Log in first.", ErrNotLoggedIn
	}
	a := s.active.Primary()
	if a == nil {
		return nil, "You have no account yet. Open one first.", ErrNoAccount
	}
	return a, "", nil
}

// Balance reports the primary account balance.
func (s *Service) Balance() (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	return fmt.Sprintf("Current balance: %s.", a.Balance().StringFixed(2)), nil
}

// Statement renders the primary account history followed by the balance.
func (s *Service) Statement() (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	entries := a.History.Entries()
	if len(entries) == 0 {
		return fmt.Sprintf("Statement: no movements. Current balance: %s.", a.Balance().StringFixed(2)), nil
	}
	var b strings.Builder
	b.WriteString("Statement:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s - %s: %s\n", e.Time.Format("2006-01-02 15:04:05"), e.Kind.Label(), e.Amount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Current balance: %s.", a.Balance().StringFixed(2))
	return b.String(), nil
}

// Entries exposes the primary account history, for statement export.
func (s *Service) Entries() ([]Entry, error) {
	a, _, err := s.primary()
	if err != nil {
		return nil, err
	}
	return a.History.Entries(), nil
}

// Deposit credits the primary account through a Deposit transaction.
func (s *Service) Deposit(amount decimal.Decimal) (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	if err := s.active.Perform(a, NewDeposit(amount)); err != nil {
		return fmt.Sprintf("Deposit failed: %s.", err), err
	}
	return fmt.Sprintf("Deposit of %s completed. Current balance: %s.",
		amount.StringFixed(2), a.Balance().StringFixed(2)), nil
}

// Withdraw debits the primary account through a Withdrawal transaction.
func (s *Service) Withdraw(amount decimal.Decimal) (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	if err := s.active.Perform(a, NewWithdrawal(amount)); err != nil {
		return fmt.Sprintf("Withdrawal failed: %s.", err), err
	}
	return fmt.Sprintf("Withdrawal of %s completed. Current balance: %s.",
		amount.StringFixed(2), a.Balance().StringFixed(2)), nil
}

// SimulateLoan quotes a loan without touching any state.
func (s *Service) SimulateLoan(principal decimal.Decimal, installments int, rate decimal.Decimal) (string, error) {
	if !principal.IsPositive() {
		return "Simulation failed: the principal must be greater than zero.", ErrInvalidAmount
	}
	if installments <= 0 {
		return "Simulation failed: the installment count must be greater than zero.", ErrInvalidInstallments
	}
	total, installment := Simulate(principal, installments, rate)
	return fmt.Sprintf("Simulation: total %s; %d x %s (rate %s%% per period).",
		total.StringFixed(2), installments, installment.StringFixed(2),
		rate.Mul(decimal.NewFromInt(100)).StringFixed(2)), nil
}

// ContractLoan contracts a loan for the active customer, replacing any
// prior record, and deposits the principal (not the total) into the primary
// account. The principal credit is a loan disbursement, not a customer
// transaction, and is not recorded in History.
func (s *Service) ContractLoan(principal decimal.Decimal, installments int, rate decimal.Decimal) (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	if !principal.IsPositive() {
		return "Loan refused: the principal must be greater than zero.", ErrInvalidAmount
	}
	if installments <= 0 {
		return "Loan refused: the installment count must be greater than zero.", ErrInvalidInstallments
	}
	loan := NewLoan(principal, installments, rate)
	s.active.Loan = loan
	_ = a.Deposit(principal)
	return fmt.Sprintf("Loan contracted: %s deposited. Total %s in %d installments of %s. Current balance: %s.",
		principal.StringFixed(2), loan.Total.StringFixed(2), installments,
		loan.Installment.StringFixed(2), a.Balance().StringFixed(2)), nil
}

// PayInstallment pays one installment of the active loan through an
// InstallmentPayment transaction, which is subject to the ordinary
// withdrawal policy. Loan state moves only when the transaction succeeded.
func (s *Service) PayInstallment() (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	loan := s.active.Loan
	if !loan.Active() {
		return "No active loan for this customer.", ErrNoActiveLoan
	}
	if loan.Paid >= loan.Installments {
		return "All installments are already paid.", ErrAllInstallmentsPaid
	}
	if err := s.active.Perform(a, NewInstallmentPayment(loan.Installment)); err != nil {
		return fmt.Sprintf("Installment not paid: %s.", err), err
	}
	loan.Paid++
	loan.reduce(loan.Installment)
	return fmt.Sprintf("Installment paid (%d/%d). Outstanding balance: %s.",
		loan.Paid, loan.Installments, loan.Outstanding.StringFixed(2)), nil
}

// PayoffLoan settles the active loan in full through a Payoff transaction,
// bypassing the withdrawal limits. When the balance cannot cover the whole
// outstanding amount, it falls back to debiting whatever the account holds;
// that partial debit reduces the outstanding balance but is not recorded in
// History.
func (s *Service) PayoffLoan() (string, error) {
	a, msg, err := s.primary()
	if err != nil {
		return msg, err
	}
	loan := s.active.Loan
	if !loan.Active() {
		return "No active loan for this customer.", ErrNoActiveLoan
	}
	due := loan.Outstanding
	if err := s.active.Perform(a, NewPayoff(due)); err == nil {
		loan.Outstanding = decimal.Zero
		loan.Paid = loan.Installments
		return fmt.Sprintf("Loan paid off (%s). Current balance: %s.",
			due.StringFixed(2), a.Balance().StringFixed(2)), nil
	}
	cover := decimal.Min(a.Balance(), due)
	debited := a.DebitForLoan(cover)
	if !debited.IsPositive() {
		return "Insufficient funds to pay off the loan.", ErrInsufficientFunds
	}
	loan.reduce(debited)
	return fmt.Sprintf("Debited %s. Still %s outstanding to pay off the loan.",
		debited.StringFixed(2), loan.Outstanding.StringFixed(2)), ErrPartialPayoff
}
