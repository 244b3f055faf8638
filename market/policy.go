package market

import (
	"github.com/pkg/errors"

	"askora/ledger"
)

// Policy holds the economic constants every actor of one deployment agrees on.
// It is part of each code image, so two policies never share addresses.
type Policy struct {
	FeeNumerator       uint64        `cbor:"fee_num"`
	FeeDenominator     uint64        `cbor:"fee_den"`
	QuestionReserve    ledger.Amount `cbor:"question_reserve"`
	AccountReserve     ledger.Amount `cbor:"account_reserve"`
	RootReserve        ledger.Amount `cbor:"root_reserve"`
	RefReserve         ledger.Amount `cbor:"ref_reserve"`
	ProcessingReserve  ledger.Amount `cbor:"processing_reserve"`
	NotificationAmount ledger.Amount `cbor:"notification_amount"`
	// ExpirationWindow is in seconds.
	ExpirationWindow int64 `cbor:"expiration_window"`
}

const week = 7 * 24 * 60 * 60

func DefaultPolicy() Policy {
	return Policy{
		FeeNumerator:       5,
		FeeDenominator:     100,
		QuestionReserve:    ledger.Coins(0.01),
		AccountReserve:     ledger.Coins(0.03),
		RootReserve:        ledger.Coins(0.05),
		RefReserve:         ledger.Coins(0.002),
		ProcessingReserve:  ledger.Coins(0.02),
		NotificationAmount: ledger.Coins(0.003),
		ExpirationWindow:   week,
	}
}

func (p Policy) Validate() error {
	if p.FeeDenominator == 0 {
		return errors.Errorf("fee denominator must not be zero")
	}
	if p.FeeNumerator > p.FeeDenominator {
		return errors.Errorf("fee rate %d/%d exceeds the price", p.FeeNumerator, p.FeeDenominator)
	}
	if p.ExpirationWindow <= 0 {
		return errors.Errorf("expiration window must be positive")
	}
	if p.ProcessingReserve < p.NotificationAmount+p.RefBudget() {
		return errors.Errorf("processing reserve %s does not cover notifications", p.ProcessingReserve)
	}
	return nil
}

// Fee is the service share of price, truncated.
func (p Policy) Fee(price ledger.Amount) ledger.Amount {
	return price.MulDiv(p.FeeNumerator, p.FeeDenominator)
}

// Reward is what the recipient gets for a reply.
func (p Policy) Reward(price ledger.Amount) ledger.Amount {
	return price - p.Fee(price)
}

// Escrow is what a Question keeps while open.
func (p Policy) Escrow(price ledger.Amount) ledger.Amount {
	return price + p.Fee(price) + p.QuestionReserve
}

// ForwardingReserve pays for the submitter side: its Account, its QuestionRef and the notifications.
func (p Policy) ForwardingReserve() ledger.Amount {
	return p.AccountReserve + p.ProcessingReserve
}

// SubmitCost is the least value a submit_question must carry.
func (p Policy) SubmitCost(price ledger.Amount) ledger.Amount {
	return p.Escrow(price) + p.ForwardingReserve()
}

// RefBudget is sent along with a QuestionRef deployment.
func (p Policy) RefBudget() ledger.Amount {
	return p.RefReserve + p.NotificationAmount
}

// Expired reports whether a question created at createdAt may be cancelled at now.
func (p Policy) Expired(createdAt, now int64) bool {
	return now >= createdAt+p.ExpirationWindow
}
