package questionref

import (
	"github.com/pkg/errors"

	"askora/ledger"
	"askora/market"
)

type Data struct {
	Address      ledger.Address
	OwnerAccount ledger.Address
	RefID        uint32
	Account      ledger.Address
	ID           uint32
	Question     ledger.Address
	Closed       bool
	Rejected     bool
	Balance      ledger.Amount
}

func Load(r ledger.Reader, addr ledger.Address) (*QuestionRef, ledger.InstanceState, error) {
	ref := &QuestionRef{}
	state, err := r.Load(addr, ref)
	if err != nil {
		return nil, state, err
	}
	return ref, state, nil
}

// QuestionAddr fails with ErrQuestionAddrUnset until the question has confirmed itself.
func QuestionAddr(r ledger.Reader, addr ledger.Address) (ledger.Address, error) {
	ref, _, err := Load(r, addr)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	if ref.Question.IsZero() {
		return ledger.ZeroAddress, errors.Wrapf(market.ErrQuestionAddrUnset, "%s", addr)
	}
	return ref.Question, nil
}

func AllData(r ledger.Reader, addr ledger.Address) (Data, error) {
	ref, state, err := Load(r, addr)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Address:      addr,
		OwnerAccount: ref.OwnerAccount,
		RefID:        ref.RefID,
		Account:      ref.Account,
		ID:           ref.ID,
		Question:     ref.Question,
		Closed:       ref.Closed,
		Rejected:     ref.Rejected,
		Balance:      state.Balance,
	}, nil
}
