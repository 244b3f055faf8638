package root

import (
	"github.com/pkg/errors"

	"askora/engine/library"
	"askora/ledger"
	"askora/market"
)

func (r *Root) Receive(ctx *ledger.Context, msg ledger.Message) error {
	if msg.Bounced {
		return r.handleBounce(ctx, msg)
	}
	if ctx.JustDeployed() && msg.Body.Op != market.OpRootDeploy {
		return errors.Wrapf(market.ErrInvalidState, "%s cannot deploy the root", msg.Body.Op)
	}
	switch msg.Body.Op {
	case market.OpRootDeploy:
		return r.handleDeploy(ctx, msg)
	case market.OpChangeSponsor:
		return r.handleChangeSponsor(ctx, msg)
	case market.OpCreateAccount:
		return r.handleCreateAccount(ctx, msg)
	case market.OpSponsoredCreateAccount:
		return r.handleSponsoredCreateAccount(ctx, msg)
	case market.OpSponsoredReply, market.OpSponsoredReject, market.OpSponsoredChangePrice, market.OpSponsoredChangeDescription:
		return r.handleSponsored(ctx, msg)
	case market.OpWithdraw:
		return r.handleWithdraw(ctx, msg)
	case market.OpQuestionCreated, market.OpQuestionReplied, market.OpQuestionRejected, ledger.OpNone, market.OpExcess:
		return nil
	}
	return errors.Wrapf(market.ErrUnknownOperation, "%s", msg.Body.Op)
}

func (r *Root) handleDeploy(ctx *ledger.Context, msg ledger.Message) error {
	if r.Deployed {
		return market.Pay(ctx, msg.From, market.Inbound(ctx), market.OpExcess)
	}
	var p market.RootDeploy
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	r.ServiceOwner = msg.From
	r.Sponsor = p.Sponsor
	r.Deployed = true
	library.LogCLI("root deployed at "+ctx.Self().String(), 4)
	return nil
}

func (r *Root) handleChangeSponsor(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, r.ServiceOwner, "change sponsor"); err != nil {
		return err
	}
	var p market.ChangeSponsor
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	r.Sponsor = p.Sponsor
	return nil
}

func (r *Root) handleCreateAccount(ctx *ledger.Context, msg ledger.Message) error {
	var p market.CreateAccount
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	return r.deployAccount(ctx, msg.From, p.MinPrice, p.Description, msg.From)
}

func (r *Root) handleSponsoredCreateAccount(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, r.Sponsor, "sponsored create account"); err != nil {
		return err
	}
	var p market.SponsoredCreateAccount
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	if p.Owner.IsZero() {
		return errors.Wrap(market.ErrInvalidState, "account owner missing")
	}
	return r.deployAccount(ctx, p.Owner, p.MinPrice, p.Description, msg.From)
}

func (r *Root) deployAccount(ctx *ledger.Context, owner ledger.Address, price ledger.Amount, description string, responseTo ledger.Address) error {
	init, err := market.AccountStateInit(r.AccountCode, r.accountInit(ctx.Self(), owner))
	if err != nil {
		return err
	}
	value := market.Inbound(ctx)
	if value < r.policy.AccountReserve {
		return errors.Wrapf(market.ErrInsufficientValue, "account deploy needs %s, got %s", r.policy.AccountReserve, value)
	}
	deploy := market.AccountDeploy{MinPrice: price, Description: description, ResponseTo: responseTo}
	return market.Send(ctx, init.Address(), value, market.OpAccountDeploy, deploy, true, &init)
}

// handleSponsored wraps a sponsor action in a relay to the owner's account. The account re-checks the owner.
func (r *Root) handleSponsored(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, r.Sponsor, msg.Body.Op.String()); err != nil {
		return err
	}
	var (
		owner  ledger.Address
		action ledger.Body
		err    error
	)
	switch msg.Body.Op {
	case market.OpSponsoredReply:
		var p market.SponsoredReply
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		owner = p.Owner
		action, err = ledger.NewBody(market.OpReply, market.Reply{ID: p.ID, Content: p.Content})
	case market.OpSponsoredReject:
		var p market.SponsoredReject
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		owner = p.Owner
		action, err = ledger.NewBody(market.OpReject, market.Reject{ID: p.ID})
	case market.OpSponsoredChangePrice:
		var p market.SponsoredChangePrice
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		owner = p.Owner
		action, err = ledger.NewBody(market.OpChangePrice, market.ChangePrice{MinPrice: p.MinPrice})
	case market.OpSponsoredChangeDescription:
		var p market.SponsoredChangeDescription
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		owner = p.Owner
		action, err = ledger.NewBody(market.OpChangeDescription, market.ChangeDescription{Description: p.Description})
	}
	if err != nil {
		return err
	}
	account, err := market.AccountAddress(r.AccountCode, r.accountInit(ctx.Self(), owner))
	if err != nil {
		return err
	}
	relay := market.Relay{Owner: owner, Action: action, ResponseTo: msg.From}
	return market.Send(ctx, account, market.Inbound(ctx), market.OpRelay, relay, true, nil)
}

func (r *Root) handleWithdraw(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, r.ServiceOwner, "withdraw"); err != nil {
		return err
	}
	return market.ReturnExcess(ctx, r.policy.RootReserve, r.ServiceOwner)
}

// handleBounce returns the value of a failed relay or account deploy to whoever paid for it.
func (r *Root) handleBounce(ctx *ledger.Context, msg ledger.Message) error {
	var to ledger.Address
	switch msg.Body.Op {
	case market.OpRelay:
		var p market.Relay
		if err := msg.Body.Decode(&p); err == nil {
			to = p.ResponseTo
		}
	case market.OpAccountDeploy:
		var p market.AccountDeploy
		if err := msg.Body.Decode(&p); err == nil {
			to = p.ResponseTo
		}
	}
	return market.Pay(ctx, to, market.Inbound(ctx), market.OpExcess)
}
