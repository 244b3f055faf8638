package market

import (
	"github.com/pkg/errors"

	"askora/ledger"
)

// Decode reads the payload of msg into v.
func Decode(msg ledger.Message, v interface{}) error {
	if err := msg.Body.Decode(v); err != nil {
		return errors.Wrapf(ErrUnknownOperation, "%s payload: %v", msg.Body.Op, err)
	}
	return nil
}

// Send queues a message with an encoded payload. Bounceable messages come back if the receiver fails.
func Send(ctx *ledger.Context, to ledger.Address, value ledger.Amount, op ledger.Op, payload interface{}, bounce bool, init *ledger.StateInit) error {
	body, err := ledger.NewBody(op, payload)
	if err != nil {
		return err
	}
	return ctx.Send(ledger.Message{
		To:     to,
		Value:  value,
		Bounce: bounce,
		Body:   body,
		Init:   init,
	})
}

// Pay sends plain value with op as a tag. Zero amounts and zero addresses send nothing.
func Pay(ctx *ledger.Context, to ledger.Address, value ledger.Amount, op ledger.Op) error {
	if value == 0 || to.IsZero() {
		return nil
	}
	return ctx.Send(ledger.Message{To: to, Value: value, Body: ledger.Body{Op: op}})
}

// ReturnExcess sends everything above keep to to.
func ReturnExcess(ctx *ledger.Context, keep ledger.Amount, to ledger.Address) error {
	return Pay(ctx, to, ctx.Balance().Minus(keep), OpExcess)
}

// Inbound is the message value left after this delivery paid its gas.
func Inbound(ctx *ledger.Context) ledger.Amount {
	return ctx.MsgValue().Minus(ctx.Gas())
}

// Require fails with ErrUnauthorized unless sender is want.
func Require(sender, want ledger.Address, what string) error {
	if sender != want || want.IsZero() {
		return errors.Wrapf(ErrUnauthorized, "%s: got %s, want %s", what, sender, want)
	}
	return nil
}
