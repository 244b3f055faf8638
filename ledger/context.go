package ledger

import (
	"github.com/pkg/errors"
)

// Context is what a contract sees while it handles one message.
type Context struct {
	self     Address
	code     CodeImage
	now      int64
	lt       uint64
	balance  Amount
	gas      Amount
	value    Amount
	deployed bool
	out      []Message
}

func (c *Context) Self() Address {
	return c.self
}

func (c *Context) Code() CodeImage {
	return c.code
}

// Now is the block time in unix seconds.
func (c *Context) Now() int64 {
	return c.now
}

func (c *Context) LT() uint64 {
	return c.lt
}

// Balance is what is left after the inbound value was credited, gas was charged and
// messages sent so far were debited.
func (c *Context) Balance() Amount {
	return c.balance
}

// MsgValue is the value attached to the message being handled.
func (c *Context) MsgValue() Amount {
	return c.value
}

// Gas is what this delivery cost the actor.
func (c *Context) Gas() Amount {
	return c.gas
}

// JustDeployed reports whether this message created the actor.
func (c *Context) JustDeployed() bool {
	return c.deployed
}

// Send queues m, debiting its value. Nothing is sent if the handler fails.
func (c *Context) Send(m Message) error {
	if m.Value > c.balance {
		return errors.Wrapf(ErrInsufficientFunds, "send %s to %s: balance %s", m.Value, m.To, c.balance)
	}
	c.balance -= m.Value
	m.From = c.self
	m.Bounced = false
	c.out = append(c.out, m)
	return nil
}
