package account

import (
	"math"

	"github.com/pkg/errors"

	"askora/engine/library"
	"askora/ledger"
	"askora/market"
)

func (a *Account) Receive(ctx *ledger.Context, msg ledger.Message) error {
	if msg.Bounced {
		return a.handleBounce(ctx, msg)
	}
	if ctx.JustDeployed() && msg.Body.Op != market.OpAccountDeploy && msg.Body.Op != market.OpQuestionCreatedNotify {
		return errors.Wrapf(market.ErrInvalidState, "%s cannot deploy an account", msg.Body.Op)
	}
	switch msg.Body.Op {
	case market.OpAccountDeploy:
		return a.handleDeploy(ctx, msg)
	case market.OpSubmitQuestion:
		return a.handleSubmit(ctx, msg)
	case market.OpQuestionCreatedNotify:
		return a.handleQuestionCreated(ctx, msg)
	case market.OpChangePrice, market.OpChangeDescription, market.OpReply, market.OpReject:
		if err := market.Require(msg.From, a.Owner, msg.Body.Op.String()); err != nil {
			return err
		}
		return a.apply(ctx, msg.Body, msg.From)
	case market.OpRelay:
		return a.handleRelay(ctx, msg)
	case ledger.OpNone, market.OpExcess:
		return nil
	}
	return errors.Wrapf(market.ErrUnknownOperation, "%s", msg.Body.Op)
}

func (a *Account) handleDeploy(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, a.Root, "account deploy"); err != nil {
		return err
	}
	var p market.AccountDeploy
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	if ctx.JustDeployed() {
		if ctx.Balance() < a.policy.AccountReserve {
			return errors.Wrapf(market.ErrInsufficientValue, "account needs %s, has %s", a.policy.AccountReserve, ctx.Balance())
		}
		a.MinPrice = p.MinPrice
		a.Description = p.Description
		library.LogCLI("account deployed for "+a.Owner.String(), 4)
	}
	return market.ReturnExcess(ctx, a.policy.AccountReserve, p.ResponseTo)
}

func (a *Account) handleSubmit(ctx *ledger.Context, msg ledger.Message) error {
	var p market.SubmitQuestion
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	cost := a.policy.SubmitCost(a.MinPrice)
	if msg.Value < cost {
		return errors.Wrapf(market.ErrInsufficientValue, "submit needs %s, got %s", cost, msg.Value)
	}
	if a.NextAssignedID == math.MaxUint32 {
		return errors.Wrap(market.ErrInvalidState, "question ids exhausted")
	}
	id := a.NextAssignedID
	a.NextAssignedID++

	submitterInit := a.init()
	submitterInit.Owner = msg.From
	submitterAccount, err := market.AccountStateInit(ctx.Code(), submitterInit)
	if err != nil {
		return err
	}
	questionInit, err := market.QuestionStateInit(a.QuestionCode, ctx.Self(), id)
	if err != nil {
		return err
	}
	deploy := market.QuestionDeploy{
		Submitter:            msg.From,
		SubmitterAccountInit: submitterAccount,
		Owner:                a.Owner,
		Root:                 a.Root,
		MinPrice:             a.MinPrice,
		Content:              p.Content,
		QuestionRefCode:      a.QuestionRefCode,
	}
	// This delivery's gas comes out of the forwarded value, so the account balance is unchanged.
	if err := market.Send(ctx, questionInit.Address(), cost.Minus(ctx.Gas()), market.OpQuestionDeploy, deploy, true, &questionInit); err != nil {
		return err
	}
	return market.Pay(ctx, msg.From, msg.Value-cost, market.OpExcess)
}

func (a *Account) handleQuestionCreated(ctx *ledger.Context, msg ledger.Message) error {
	var p market.QuestionCreatedNotify
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	// Only a real account of this root deploys questions, so the claimed account must derive from its owner.
	recipient := a.init()
	recipient.Owner = p.Owner
	account, err := market.AccountAddress(ctx.Code(), recipient)
	if err != nil {
		return err
	}
	if err := market.Require(p.Account, account, "question account"); err != nil {
		return err
	}
	question, err := market.QuestionAddress(a.QuestionCode, p.Account, p.ID)
	if err != nil {
		return err
	}
	if err := market.Require(msg.From, question, "question created notification"); err != nil {
		return err
	}
	if a.NextSubmittedID == math.MaxUint32 {
		return errors.Wrap(market.ErrInvalidState, "question ref ids exhausted")
	}
	refID := a.NextSubmittedID
	a.NextSubmittedID++

	budget := a.policy.RefBudget()
	if ctx.Balance() < a.policy.AccountReserve+budget {
		return errors.Wrapf(market.ErrInsufficientValue, "question ref needs %s above the reserve, account has %s", budget, ctx.Balance())
	}
	refInit, err := market.QuestionRefStateInit(a.QuestionRefCode, ctx.Self(), refID)
	if err != nil {
		return err
	}
	deploy := market.RefDeploy{Account: p.Account, ID: p.ID, QuestionCode: a.QuestionCode}
	if err := market.Send(ctx, refInit.Address(), budget, market.OpRefDeploy, deploy, true, &refInit); err != nil {
		return err
	}
	return market.ReturnExcess(ctx, a.policy.AccountReserve, a.Owner)
}

func (a *Account) handleRelay(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, a.Root, "relay"); err != nil {
		return err
	}
	var p market.Relay
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	if err := market.Require(p.Owner, a.Owner, "relayed owner"); err != nil {
		return err
	}
	return a.apply(ctx, p.Action, p.ResponseTo)
}

// apply runs an owner action, direct or relayed. responseTo is whoever paid for it.
func (a *Account) apply(ctx *ledger.Context, action ledger.Body, responseTo ledger.Address) error {
	msg := ledger.Message{Body: action}
	switch action.Op {
	case market.OpChangePrice:
		var p market.ChangePrice
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		a.MinPrice = p.MinPrice
	case market.OpChangeDescription:
		var p market.ChangeDescription
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		a.Description = p.Description
	case market.OpReply:
		var p market.Reply
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		return a.forward(ctx, p.ID, market.OpQuestionReply, market.QuestionReply{Content: p.Content, ResponseTo: responseTo})
	case market.OpReject:
		var p market.Reject
		if err := market.Decode(msg, &p); err != nil {
			return err
		}
		return a.forward(ctx, p.ID, market.OpQuestionReject, market.QuestionReject{ResponseTo: responseTo})
	default:
		return errors.Wrapf(market.ErrUnknownOperation, "relayed %s", action.Op)
	}
	return market.ReturnExcess(ctx, a.policy.AccountReserve, responseTo)
}

// forward sends a closing action to question id with everything above the reserve.
func (a *Account) forward(ctx *ledger.Context, id uint32, op ledger.Op, payload interface{}) error {
	if id >= a.NextAssignedID {
		return errors.Wrapf(market.ErrInvalidState, "no question %d", id)
	}
	question, err := market.QuestionAddress(a.QuestionCode, ctx.Self(), id)
	if err != nil {
		return err
	}
	return market.Send(ctx, question, ctx.Balance().Minus(a.policy.AccountReserve), op, payload, true, nil)
}

// handleBounce returns the value of a failed forward to whoever paid for it.
func (a *Account) handleBounce(ctx *ledger.Context, msg ledger.Message) error {
	var to ledger.Address
	switch msg.Body.Op {
	case market.OpQuestionDeploy:
		var p market.QuestionDeploy
		if err := msg.Body.Decode(&p); err == nil {
			to = p.Submitter
		}
	case market.OpQuestionReply:
		var p market.QuestionReply
		if err := msg.Body.Decode(&p); err == nil {
			to = p.ResponseTo
		}
	case market.OpQuestionReject:
		var p market.QuestionReject
		if err := msg.Body.Decode(&p); err == nil {
			to = p.ResponseTo
		}
	}
	return market.Pay(ctx, to, market.Inbound(ctx), market.OpExcess)
}
