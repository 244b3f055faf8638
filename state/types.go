package state

import (
	"askora/ledger"
	"askora/market"
	"askora/state/account"
	"askora/state/question"
	"askora/state/questionref"
	"askora/state/root"
)

// Codebook is the set of codes one marketplace deployment runs.
type Codebook struct {
	Policy      market.Policy
	Root        ledger.Code
	Account     ledger.Code
	Question    ledger.Code
	QuestionRef ledger.Code
}

func NewCodebook(p market.Policy) (c Codebook, err error) {
	if err = p.Validate(); err != nil {
		return c, err
	}
	c.Policy = p
	if c.Root, err = root.Code(p); err != nil {
		return c, err
	}
	if c.Account, err = account.Code(p); err != nil {
		return c, err
	}
	if c.Question, err = question.Code(p); err != nil {
		return c, err
	}
	if c.QuestionRef, err = questionref.Code(p); err != nil {
		return c, err
	}
	return c, nil
}

func (c Codebook) Codes() []ledger.Code {
	return []ledger.Code{c.Root, c.Account, c.Question, c.QuestionRef}
}

func (c Codebook) RootInit() (ledger.StateInit, error) {
	return market.RootStateInit(c.Root.Image, market.RootInit{
		AccountCode:     c.Account.Image,
		QuestionCode:    c.Question.Image,
		QuestionRefCode: c.QuestionRef.Image,
	})
}
