// Package bank holds the core banking domain: customers, accounts,
// transactions, the per-account history and loan bookkeeping, plus the
// Service that front-ends talk to. Everything is in-memory; state lives for
// the lifetime of one Service instance.
package bank

import "errors"

// Domain errors. They never escape as panics; every operation returns one of
// these plus a human-readable message, and the HTTP layer maps them to
// status codes.
var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInvalidInstallments     = errors.New("installment count must be greater than zero")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrLimitExceeded           = errors.New("amount exceeds the per-withdrawal limit")
	ErrWithdrawalCountExceeded = errors.New("withdrawal count limit reached")

	ErrCustomerNotFound = errors.New("customer not found")
	ErrDuplicateCPF     = errors.New("cpf already registered")
	ErrNotLoggedIn      = errors.New("no customer logged in")
	ErrNoAccount        = errors.New("customer has no account")
	ErrAccountNotFound  = errors.New("account not found")

	ErrLastAccount    = errors.New("cannot remove the last account")
	ErrNonZeroBalance = errors.New("account balance must be zero")
	ErrActiveLoan     = errors.New("customer has an active loan")

	ErrNoActiveLoan        = errors.New("no active loan")
	ErrAllInstallmentsPaid = errors.New("all installments already paid")
	ErrPartialPayoff       = errors.New("payoff incomplete")
)
