package root

import (
	"askora/ledger"
	"askora/market"
)

// Root deploys accounts, relays sponsored actions and collects the service fee.
type Root struct {
	AccountCode     ledger.CodeImage `cbor:"account_code"`
	QuestionCode    ledger.CodeImage `cbor:"question_code"`
	QuestionRefCode ledger.CodeImage `cbor:"question_ref_code"`
	ServiceOwner    ledger.Address   `cbor:"service_owner"`
	Sponsor         ledger.Address   `cbor:"sponsor"`
	Deployed        bool             `cbor:"deployed"`

	policy market.Policy
}

func Code(p market.Policy) (ledger.Code, error) {
	image, err := market.CodeImage("root", p)
	if err != nil {
		return ledger.Code{}, err
	}
	return ledger.Code{
		Name:  "root",
		Image: image,
		New:   func() ledger.Contract { return &Root{policy: p} },
	}, nil
}

// accountInit is the derivation data of owner's account under the root at self.
func (r *Root) accountInit(self, owner ledger.Address) market.AccountInit {
	return market.AccountInit{
		Owner:           owner,
		Root:            self,
		QuestionCode:    r.QuestionCode,
		QuestionRefCode: r.QuestionRefCode,
	}
}
