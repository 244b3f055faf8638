package ledger

import (
	"fmt"
	"strings"
)

// Transaction records the delivery of one message.
type Transaction struct {
	LT          uint64
	Now         int64
	From        Address
	To          Address
	Op          Op
	Value       Amount
	Gas         Amount
	Rent        Amount
	Bounced     bool
	Success     bool
	Deployed    bool
	Collected   bool
	BouncedBack bool
	Err         error
}

func (t Transaction) String() string {
	status := "ok"
	if !t.Success {
		status = fmt.Sprintf("failed: %v", t.Err)
	}
	var flags []string
	if t.Bounced {
		flags = append(flags, "bounced")
	}
	if t.Deployed {
		flags = append(flags, "deployed")
	}
	if t.Collected {
		flags = append(flags, "collected")
	}
	if t.BouncedBack {
		flags = append(flags, "bounce sent")
	}
	s := fmt.Sprintf("#%d %s -> %s [%s] %s %s", t.LT, t.From.Short(), t.To.Short(), t.Op, t.Value, status)
	if len(flags) > 0 {
		s += " (" + strings.Join(flags, ", ") + ")"
	}
	return s
}

// Trace lists transactions in the order they were executed.
type Trace []Transaction

// Find returns the first transaction matching pred.
func (t Trace) Find(pred func(Transaction) bool) (Transaction, bool) {
	for _, tx := range t {
		if pred(tx) {
			return tx, true
		}
	}
	return Transaction{}, false
}

func (t Trace) Filter(pred func(Transaction) bool) Trace {
	var out Trace
	for _, tx := range t {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Failed lists the transactions whose handler did not commit.
func (t Trace) Failed() Trace {
	return t.Filter(func(tx Transaction) bool { return !tx.Success })
}

// Delivery returns the first delivery of op from one address to another.
func (t Trace) Delivery(from, to Address, op Op) (Transaction, bool) {
	return t.Find(func(tx Transaction) bool {
		return tx.From == from && tx.To == to && tx.Op == op && !tx.Bounced
	})
}

func (t Trace) String() string {
	lines := make([]string, len(t))
	for i, tx := range t {
		lines[i] = tx.String()
	}
	return strings.Join(lines, "\n")
}
