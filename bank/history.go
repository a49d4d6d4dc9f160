package bank

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one recorded monetary movement. Immutable once appended.
type Entry struct {
	Kind   Kind            `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Time   time.Time       `json:"time"`
}

// History is the append-only transaction log of a single account. It is
// created with its account and never pruned; only successful transactions
// are appended.
type History struct {
	entries []Entry
}

func (h *History) add(t Transaction) {
	h.entries = append(h.entries, Entry{Kind: t.Kind(), Amount: t.Amount(), Time: time.Now()})
}

// Entries returns a copy of the log so callers cannot mutate it.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports how many movements were recorded.
func (h *History) Len() int { return len(h.entries) }

// countWithdrawals counts ordinary withdrawals only. Loan installments pass
// through the same withdrawal policy but are recorded under their own kind
// and do not consume the withdrawal quota.
func (h *History) countWithdrawals() int {
	n := 0
	for _, e := range h.entries {
		if e.Kind == KindWithdrawal {
			n++
		}
	}
	return n
}
