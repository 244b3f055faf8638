package account

import (
	"askora/ledger"
	"askora/market"
)

type Data struct {
	Address         ledger.Address
	Owner           ledger.Address
	Root            ledger.Address
	MinPrice        ledger.Amount
	Description     string
	NextAssignedID  uint32
	NextSubmittedID uint32
	Balance         ledger.Amount
}

func Load(r ledger.Reader, addr ledger.Address) (*Account, ledger.InstanceState, error) {
	a := &Account{}
	state, err := r.Load(addr, a)
	if err != nil {
		return nil, state, err
	}
	return a, state, nil
}

func Price(r ledger.Reader, addr ledger.Address) (ledger.Amount, error) {
	a, _, err := Load(r, addr)
	if err != nil {
		return 0, err
	}
	return a.MinPrice, nil
}

func NextID(r ledger.Reader, addr ledger.Address) (uint32, error) {
	a, _, err := Load(r, addr)
	if err != nil {
		return 0, err
	}
	return a.NextAssignedID, nil
}

func NextSubmittedID(r ledger.Reader, addr ledger.Address) (uint32, error) {
	a, _, err := Load(r, addr)
	if err != nil {
		return 0, err
	}
	return a.NextSubmittedID, nil
}

// QuestionAddr is the address of the question id addressed to the account at addr.
func QuestionAddr(r ledger.Reader, addr ledger.Address, id uint32) (ledger.Address, error) {
	a, _, err := Load(r, addr)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return market.QuestionAddress(a.QuestionCode, addr, id)
}

// QuestionRefAddr is the address of the ref refID held by the account at addr.
func QuestionRefAddr(r ledger.Reader, addr ledger.Address, refID uint32) (ledger.Address, error) {
	a, _, err := Load(r, addr)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return market.QuestionRefAddress(a.QuestionRefCode, addr, refID)
}

func AllData(r ledger.Reader, addr ledger.Address) (Data, error) {
	a, state, err := Load(r, addr)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Address:         addr,
		Owner:           a.Owner,
		Root:            a.Root,
		MinPrice:        a.MinPrice,
		Description:     a.Description,
		NextAssignedID:  a.NextAssignedID,
		NextSubmittedID: a.NextSubmittedID,
		Balance:         state.Balance,
	}, nil
}
