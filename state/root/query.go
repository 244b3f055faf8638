package root

import (
	"askora/ledger"
	"askora/market"
)

type Data struct {
	Address      ledger.Address
	ServiceOwner ledger.Address
	Sponsor      ledger.Address
	Balance      ledger.Amount
}

func Load(r ledger.Reader, addr ledger.Address) (*Root, ledger.InstanceState, error) {
	root := &Root{}
	state, err := r.Load(addr, root)
	if err != nil {
		return nil, state, err
	}
	return root, state, nil
}

// AccountAddr is where owner's account lives under the root at addr, deployed or not.
func AccountAddr(r ledger.Reader, addr, owner ledger.Address) (ledger.Address, error) {
	root, _, err := Load(r, addr)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return market.AccountAddress(root.AccountCode, root.accountInit(addr, owner))
}

func AllData(r ledger.Reader, addr ledger.Address) (Data, error) {
	root, state, err := Load(r, addr)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Address:      addr,
		ServiceOwner: root.ServiceOwner,
		Sponsor:      root.Sponsor,
		Balance:      state.Balance,
	}, nil
}
