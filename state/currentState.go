package state

import (
	"context"

	"askora/engine/library"
	"askora/ledger"
	"askora/market"
)

// Market drives one marketplace deployment on a ledger from external wallets.
type Market struct {
	Ledger *ledger.Ledger
	Codes  Codebook
	Root   ledger.Address
}

// NewMarket registers the codes on l. The root may or may not be deployed yet.
func NewMarket(l *ledger.Ledger, codes Codebook) (*Market, error) {
	init, err := codes.RootInit()
	if err != nil {
		return nil, err
	}
	l.Register(codes.Codes()...)
	return &Market{Ledger: l, Codes: codes, Root: init.Address()}, nil
}

func (m *Market) call(ctx context.Context, from, to ledger.Address, value ledger.Amount, op ledger.Op, payload interface{}, init *ledger.StateInit) (ledger.Trace, error) {
	body, err := ledger.NewBody(op, payload)
	if err != nil {
		return nil, err
	}
	trace, err := m.Ledger.SendAndRun(ctx, from, ledger.Message{
		To:     to,
		Value:  value,
		Bounce: true,
		Body:   body,
		Init:   init,
	})
	for _, tx := range trace.Failed() {
		library.LogCLI(tx.String(), 2)
	}
	return trace, err
}

// Deploy instantiates the root. deployer becomes its service owner.
func (m *Market) Deploy(ctx context.Context, deployer, sponsor ledger.Address, value ledger.Amount) (ledger.Trace, error) {
	init, err := m.Codes.RootInit()
	if err != nil {
		return nil, err
	}
	return m.call(ctx, deployer, m.Root, value, market.OpRootDeploy, market.RootDeploy{Sponsor: sponsor}, &init)
}

func (m *Market) AccountAddress(owner ledger.Address) (ledger.Address, error) {
	return market.AccountAddress(m.Codes.Account.Image, market.AccountInit{
		Owner:           owner,
		Root:            m.Root,
		QuestionCode:    m.Codes.Question.Image,
		QuestionRefCode: m.Codes.QuestionRef.Image,
	})
}

func (m *Market) QuestionAddress(account ledger.Address, id uint32) (ledger.Address, error) {
	return market.QuestionAddress(m.Codes.Question.Image, account, id)
}

func (m *Market) QuestionRefAddress(account ledger.Address, refID uint32) (ledger.Address, error) {
	return market.QuestionRefAddress(m.Codes.QuestionRef.Image, account, refID)
}

func (m *Market) CreateAccount(ctx context.Context, owner ledger.Address, value, price ledger.Amount, description string) (ledger.Trace, error) {
	return m.call(ctx, owner, m.Root, value, market.OpCreateAccount, market.CreateAccount{MinPrice: price, Description: description}, nil)
}

func (m *Market) SponsoredCreateAccount(ctx context.Context, sponsor, owner ledger.Address, value, price ledger.Amount, description string) (ledger.Trace, error) {
	payload := market.SponsoredCreateAccount{Owner: owner, MinPrice: price, Description: description}
	return m.call(ctx, sponsor, m.Root, value, market.OpSponsoredCreateAccount, payload, nil)
}

func (m *Market) ChangeSponsor(ctx context.Context, from, sponsor ledger.Address, value ledger.Amount) (ledger.Trace, error) {
	return m.call(ctx, from, m.Root, value, market.OpChangeSponsor, market.ChangeSponsor{Sponsor: sponsor}, nil)
}

func (m *Market) Withdraw(ctx context.Context, from ledger.Address, value ledger.Amount) (ledger.Trace, error) {
	return m.call(ctx, from, m.Root, value, market.OpWithdraw, nil, nil)
}

// SubmitQuestion pays value to the account at account for an answer to content.
func (m *Market) SubmitQuestion(ctx context.Context, from, account ledger.Address, value ledger.Amount, content string) (ledger.Trace, error) {
	return m.call(ctx, from, account, value, market.OpSubmitQuestion, market.SubmitQuestion{Content: content}, nil)
}

func (m *Market) ownerCall(ctx context.Context, owner ledger.Address, value ledger.Amount, op ledger.Op, payload interface{}) (ledger.Trace, error) {
	account, err := m.AccountAddress(owner)
	if err != nil {
		return nil, err
	}
	return m.call(ctx, owner, account, value, op, payload, nil)
}

func (m *Market) ChangePrice(ctx context.Context, owner ledger.Address, value, price ledger.Amount) (ledger.Trace, error) {
	return m.ownerCall(ctx, owner, value, market.OpChangePrice, market.ChangePrice{MinPrice: price})
}

func (m *Market) ChangeDescription(ctx context.Context, owner ledger.Address, value ledger.Amount, description string) (ledger.Trace, error) {
	return m.ownerCall(ctx, owner, value, market.OpChangeDescription, market.ChangeDescription{Description: description})
}

func (m *Market) Reply(ctx context.Context, owner ledger.Address, value ledger.Amount, id uint32, content string) (ledger.Trace, error) {
	return m.ownerCall(ctx, owner, value, market.OpReply, market.Reply{ID: id, Content: content})
}

func (m *Market) Reject(ctx context.Context, owner ledger.Address, value ledger.Amount, id uint32) (ledger.Trace, error) {
	return m.ownerCall(ctx, owner, value, market.OpReject, market.Reject{ID: id})
}

// CancelExpired may be sent by anyone once the question has expired.
func (m *Market) CancelExpired(ctx context.Context, from, question ledger.Address, value ledger.Amount) (ledger.Trace, error) {
	return m.call(ctx, from, question, value, market.OpCancelExpired, nil, nil)
}

func (m *Market) SponsoredReply(ctx context.Context, sponsor, owner ledger.Address, value ledger.Amount, id uint32, content string) (ledger.Trace, error) {
	return m.call(ctx, sponsor, m.Root, value, market.OpSponsoredReply, market.SponsoredReply{Owner: owner, ID: id, Content: content}, nil)
}

func (m *Market) SponsoredReject(ctx context.Context, sponsor, owner ledger.Address, value ledger.Amount, id uint32) (ledger.Trace, error) {
	return m.call(ctx, sponsor, m.Root, value, market.OpSponsoredReject, market.SponsoredReject{Owner: owner, ID: id}, nil)
}

func (m *Market) SponsoredChangePrice(ctx context.Context, sponsor, owner ledger.Address, value, price ledger.Amount) (ledger.Trace, error) {
	return m.call(ctx, sponsor, m.Root, value, market.OpSponsoredChangePrice, market.SponsoredChangePrice{Owner: owner, MinPrice: price}, nil)
}

func (m *Market) SponsoredChangeDescription(ctx context.Context, sponsor, owner ledger.Address, value ledger.Amount, description string) (ledger.Trace, error) {
	payload := market.SponsoredChangeDescription{Owner: owner, Description: description}
	return m.call(ctx, sponsor, m.Root, value, market.OpSponsoredChangeDescription, payload, nil)
}
