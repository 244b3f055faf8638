package questionref

import (
	"askora/ledger"
	"askora/market"
)

// QuestionRef lives under the submitter's Account and points at a Question the submitter paid for.
type QuestionRef struct {
	OwnerAccount ledger.Address   `cbor:"owner_account"`
	RefID        uint32           `cbor:"ref_id"`
	Account      ledger.Address   `cbor:"account"`
	ID           uint32           `cbor:"id"`
	QuestionCode ledger.CodeImage `cbor:"question_code"`
	Deployed     bool             `cbor:"deployed"`
	Question     ledger.Address   `cbor:"question"`
	Closed       bool             `cbor:"closed"`
	Rejected     bool             `cbor:"rejected"`

	policy market.Policy
}

func Code(p market.Policy) (ledger.Code, error) {
	image, err := market.CodeImage("question_ref", p)
	if err != nil {
		return ledger.Code{}, err
	}
	return ledger.Code{
		Name:  "question_ref",
		Image: image,
		New:   func() ledger.Contract { return &QuestionRef{policy: p} },
	}, nil
}

// expectedQuestion recomputes the address of the question this ref points at.
func (r *QuestionRef) expectedQuestion() (ledger.Address, error) {
	return market.QuestionAddress(r.QuestionCode, r.Account, r.ID)
}
