package account

import (
	"askora/ledger"
	"askora/market"
)

// Account is the per-owner actor: it sells answers at MinPrice and deploys the questions
// addressed to its owner and the refs to questions its owner asked.
type Account struct {
	Owner           ledger.Address   `cbor:"owner"`
	Root            ledger.Address   `cbor:"root"`
	QuestionCode    ledger.CodeImage `cbor:"question_code"`
	QuestionRefCode ledger.CodeImage `cbor:"question_ref_code"`
	MinPrice        ledger.Amount    `cbor:"min_price"`
	Description     string           `cbor:"description"`
	NextAssignedID  uint32           `cbor:"next_assigned_id"`
	NextSubmittedID uint32           `cbor:"next_submitted_id"`

	policy market.Policy
}

func Code(p market.Policy) (ledger.Code, error) {
	image, err := market.CodeImage("account", p)
	if err != nil {
		return ledger.Code{}, err
	}
	return ledger.Code{
		Name:  "account",
		Image: image,
		New:   func() ledger.Contract { return &Account{policy: p} },
	}, nil
}

func (a *Account) init() market.AccountInit {
	return market.AccountInit{
		Owner:           a.Owner,
		Root:            a.Root,
		QuestionCode:    a.QuestionCode,
		QuestionRefCode: a.QuestionRefCode,
	}
}
