// Package chat turns free-form messages into banking operations: explicit
// slash commands first, then plain-language intent heuristics, then an
// optional LLM fallback restricted to the banking domain.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bankapp/bank"
)

// Model is the LLM fallback. Nil is fine: the engine then answers with the
// command hint instead.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Engine executes chat messages against a banking service. It holds no
// banking state of its own, so one engine can serve every session.
type Engine struct {
	Model Model
}

var reAmount = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

const systemPrompt = "You are an assistant for a virtual bank with a fixed command set. " +
	"Be brief and objective. When possible, point the user at the commands: " +
	"/help, /login <cpf>, /logout, /new_account, /balance, /statement, /deposit <amount>, " +
	"/withdraw <amount>, /simulate_loan <amount> <installments> <rate>, " +
	"/contract_loan <amount> <installments> <rate>, /pay_installment, /payoff_loan. " +
	"Do not discuss anything outside banking."

const fallbackHint = "I handle banking commands only. Try /help, /balance, /statement or /deposit 100."

// Reply answers one message. The caller holds the session lock around svc.
func (e *Engine) Reply(ctx context.Context, svc *bank.Service, text string) string {
	text = strings.TrimSpace(text)
	if msg, ok := e.command(svc, text); ok {
		return msg
	}
	if msg, ok := e.intent(svc, text); ok {
		return msg
	}
	if e.Model == nil {
		return fallbackHint
	}
	prompt := fmt.Sprintf("%s\nUser: %s\nAssistant:", systemPrompt, text)
	out, err := e.Model.Generate(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Chat failed: %v", err)
	}
	return out
}

// command handles explicit slash commands. The slash itself is optional.
func (e *Engine) command(svc *bank.Service, text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	msg := func(m string, _ error) string { return m }

	switch cmd {
	case "help":
		return HelpText(), true
	case "login":
		if len(args) < 1 {
			return "Usage: /login <cpf>", true
		}
		return msg(svc.Login(args[0])), true
	case "logout":
		return msg(svc.Logout()), true
	case "new_user":
		if len(args) < 4 {
			return "Usage: /new_user <name> <cpf> <birth_date> <address>", true
		}
		return msg(svc.CreateCustomer(args[0], args[1], args[2], strings.Join(args[3:], " "))), true
	case "new_account":
		return msg(svc.NewAccount()), true
	case "list_accounts", "accounts":
		return msg(svc.ListAccounts()), true
	case "remove_account":
		if len(args) < 1 {
			return "Usage: /remove_account <number>", true
		}
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return "Usage: /remove_account <number> (the account number)", true
		}
		return msg(svc.RemoveAccount(number)), true
	case "balance":
		return msg(svc.Balance()), true
	case "statement":
		return msg(svc.Statement()), true
	case "deposit":
		if len(args) < 1 {
			return "Usage: /deposit <amount>", true
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return "I did not understand the amount. Example: /deposit 100.50", true
		}
		return msg(svc.Deposit(amount)), true
	case "withdraw":
		if len(args) < 1 {
			return "Usage: /withdraw <amount>", true
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return "I did not understand the amount. Example: /withdraw 100.50", true
		}
		return msg(svc.Withdraw(amount)), true
	case "simulate_loan", "contract_loan":
		if len(args) < 3 {
			return fmt.Sprintf("Usage: /%s <amount> <installments> <rate>", cmd), true
		}
		principal, err1 := parseAmount(args[0])
		installments, err2 := strconv.Atoi(args[1])
		rate, err3 := parseAmount(args[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return fmt.Sprintf("Usage: /%s <amount> <installments> <rate>, e.g. /%s 5000 12 0.02", cmd, cmd), true
		}
		if cmd == "simulate_loan" {
			return msg(svc.SimulateLoan(principal, installments, rate)), true
		}
		return msg(svc.ContractLoan(principal, installments, rate)), true
	case "pay_installment":
		return msg(svc.PayInstallment()), true
	case "payoff_loan":
		return msg(svc.PayoffLoan()), true
	}
	return "", false
}

// intent catches plain-language requests without a command.
func (e *Engine) intent(svc *bank.Service, text string) (string, bool) {
	t := strings.ToLower(text)
	msg := func(m string, _ error) string { return m }

	switch {
	case strings.Contains(t, "balance"):
		return msg(svc.Balance()), true
	case strings.Contains(t, "statement") || strings.Contains(t, "history"):
		return msg(svc.Statement()), true
	case (strings.Contains(t, "list") || strings.Contains(t, "show")) && strings.Contains(t, "account"):
		return msg(svc.ListAccounts()), true
	case strings.Contains(t, "simulat") && strings.Contains(t, "loan"):
		nums := reAmount.FindAllString(t, -1)
		if len(nums) >= 3 {
			principal, err1 := parseAmount(nums[0])
			installments, err2 := strconv.Atoi(nums[1])
			rate, err3 := parseAmount(nums[2])
			if err1 == nil && err2 == nil && err3 == nil {
				return msg(svc.SimulateLoan(principal, installments, rate)), true
			}
		}
	case strings.Contains(t, "deposit"):
		if m := reAmount.FindString(t); m != "" {
			if amount, err := parseAmount(m); err == nil {
				return msg(svc.Deposit(amount)), true
			}
		}
	case strings.Contains(t, "withdraw"):
		if m := reAmount.FindString(t); m != "" {
			if amount, err := parseAmount(m); err == nil {
				return msg(svc.Withdraw(amount)), true
			}
		}
	}
	return "", false
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

// HelpText lists every chat command.
func HelpText() string {
	return strings.Join([]string{
		"Available commands:",
		"/help - this help",
		"/new_user <name> <cpf> <birth_date> <address> - register a customer",
		"/login <cpf> - select the active customer",
		"/logout - end the session",
		"/new_account - open a current account",
		"/list_accounts - show your accounts",
		"/remove_account <number> - remove an empty account with no active loan",
		"/balance - show the balance",
		"/statement - show the statement",
		"/deposit <amount> - make a deposit",
		"/withdraw <amount> - make a withdrawal",
		"/simulate_loan <amount> <installments> <rate> - quote a loan",
		"/contract_loan <amount> <installments> <rate> - contract and receive the principal",
		"/pay_installment - pay one installment",
		"/payoff_loan - try to settle the loan in full",
	}, "\n")
}
