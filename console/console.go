// Package console is the interactive menu front-end. It reads commands and
// values from one reader, calls the banking service and prints the result;
// all state lives in the service for the lifetime of the run.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bankapp/bank"
)

const menu = `
=========================MENU=========================
    [d]      Deposit
    [w]      Withdraw
    [s]      Statement
    [nc]     New account
    [rc]     Remove account
    [la]     List accounts
    [nu]     New customer
    [loan]   Simulate/contract loan
    [pi]     Pay loan installment
    [po]     Pay off loan
    [logout] Log out
    [q]      Quit
Option: `

type repl struct {
	svc *bank.Service
	in  *bufio.Scanner
	out io.Writer
}

// Run drives the REPL until the input ends or the user quits.
func Run(svc *bank.Service, in io.Reader, out io.Writer) {
	r := &repl{svc: svc, in: bufio.NewScanner(in), out: out}
	for {
		if !r.svc.LoggedIn() {
			if !r.welcome() {
				return
			}
			continue
		}
		if !r.menu() {
			return
		}
	}
}

// welcome is the loop shown while nobody is logged in. Returns false to
// quit.
func (r *repl) welcome() bool {
	fmt.Fprintln(r.out, "\nWelcome! Choose an option:")
	fmt.Fprintln(r.out, "[nu]    New customer")
	fmt.Fprintln(r.out, "[login] Log in")
	fmt.Fprintln(r.out, "[q]     Quit")
	choice, ok := r.prompt("Option: ")
	if !ok {
		return false
	}
	switch strings.ToLower(choice) {
	case "nu":
		r.newCustomer()
	case "login":
		cpf, ok := r.prompt("Customer CPF (digits only): ")
		if !ok {
			return false
		}
		r.show(r.svc.Login(cpf))
	case "q":
		fmt.Fprintln(r.out, "Goodbye.")
		return false
	default:
		fmt.Fprintln(r.out, "Invalid option.")
	}
	return true
}

// menu is the main loop for a logged-in customer. Returns false to quit.
func (r *repl) menu() bool {
	choice, ok := r.prompt(menu)
	if !ok {
		return false
	}
	switch strings.ToLower(choice) {
	case "d":
		if amount, ok := r.promptAmount("Deposit amount: "); ok {
			r.show(r.svc.Deposit(amount))
		}
	case "w":
		if amount, ok := r.promptAmount("Withdrawal amount: "); ok {
			r.show(r.svc.Withdraw(amount))
		}
	case "s":
		r.show(r.svc.Statement())
	case "nc":
		r.show(r.svc.NewAccount())
	case "rc":
		if number, ok := r.promptInt("Account number: "); ok {
			r.show(r.svc.RemoveAccount(number))
		}
	case "la":
		r.show(r.svc.ListAccounts())
	case "nu":
		r.newCustomer()
	case "loan":
		r.loan()
	case "pi":
		r.show(r.svc.PayInstallment())
	case "po":
		r.show(r.svc.PayoffLoan())
	case "logout":
		r.show(r.svc.Logout())
	case "q":
		fmt.Fprintln(r.out, "Goodbye.")
		return false
	default:
		fmt.Fprintln(r.out, "Invalid option.")
	}
	return true
}

func (r *repl) newCustomer() {
	cpf, ok := r.prompt("Customer CPF (digits only): ")
	if !ok {
		return
	}
	name, ok := r.prompt("Full name: ")
	if !ok {
		return
	}
	birth, ok := r.prompt("Birth date (yyyy-mm-dd): ")
	if !ok {
		return
	}
	address, ok := r.prompt("Address: ")
	if !ok {
		return
	}
	r.show(r.svc.CreateCustomer(name, cpf, birth, address))
}

// loan simulates first and contracts only on confirmation.
func (r *repl) loan() {
	principal, ok := r.promptAmount("Loan amount: ")
	if !ok {
		return
	}
	installments, ok := r.promptInt("Number of installments: ")
	if !ok {
		return
	}
	rate, ok := r.promptAmount("Interest rate per period (e.g. 0.02 for 2%): ")
	if !ok {
		return
	}
	msg, err := r.svc.SimulateLoan(principal, installments, rate)
	fmt.Fprintln(r.out, msg)
	if err != nil {
		return
	}
	confirm, ok := r.prompt("Contract this loan? (y/n): ")
	if ok && strings.EqualFold(confirm, "y") {
		r.show(r.svc.ContractLoan(principal, installments, rate))
	}
}

func (r *repl) show(msg string, _ error) {
	fmt.Fprintln(r.out, msg)
}

func (r *repl) prompt(label string) (string, bool) {
	fmt.Fprint(r.out, label)
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *repl) promptAmount(label string) (decimal.Decimal, bool) {
	raw, ok := r.prompt(label)
	if !ok {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		fmt.Fprintln(r.out, "Invalid amount.")
		return decimal.Zero, false
	}
	return amount, true
}

func (r *repl) promptInt(label string) (int, bool) {
	raw, ok := r.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(r.out, "Invalid number.")
		return 0, false
	}
	return n, true
}
