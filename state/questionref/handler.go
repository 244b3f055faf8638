package questionref

import (
	"github.com/pkg/errors"

	"askora/ledger"
	"askora/market"
)

func (r *QuestionRef) Receive(ctx *ledger.Context, msg ledger.Message) error {
	if msg.Bounced {
		return nil
	}
	if ctx.JustDeployed() && msg.Body.Op != market.OpRefDeploy {
		return errors.Wrapf(market.ErrInvalidState, "%s cannot deploy a question ref", msg.Body.Op)
	}
	switch msg.Body.Op {
	case market.OpRefDeploy:
		return r.handleDeploy(ctx, msg)
	case market.OpNotifyQuestionDeployed:
		return r.handleQuestionDeployed(ctx, msg)
	case market.OpQuestionClosedNotify:
		return r.handleQuestionClosed(ctx, msg)
	case ledger.OpNone, market.OpExcess:
		return nil
	}
	return errors.Wrapf(market.ErrUnknownOperation, "%s", msg.Body.Op)
}

func (r *QuestionRef) handleDeploy(ctx *ledger.Context, msg ledger.Message) error {
	if !ctx.JustDeployed() || r.Deployed {
		return errors.Wrap(market.ErrInvalidState, "question ref already deployed")
	}
	if err := market.Require(msg.From, r.OwnerAccount, "question ref deploy"); err != nil {
		return err
	}
	var p market.RefDeploy
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	r.Account = p.Account
	r.ID = p.ID
	r.QuestionCode = p.QuestionCode
	r.Deployed = true
	if ctx.Balance() < r.policy.RefReserve {
		return errors.Wrapf(market.ErrInsufficientValue, "question ref needs %s, has %s", r.policy.RefReserve, ctx.Balance())
	}
	question, err := r.expectedQuestion()
	if err != nil {
		return err
	}
	return market.Send(ctx, question, ctx.Balance()-r.policy.RefReserve, market.OpLinkRef, market.LinkRef{RefID: r.RefID}, false, nil)
}

func (r *QuestionRef) handleQuestionDeployed(ctx *ledger.Context, msg ledger.Message) error {
	if !r.Deployed {
		return errors.Wrap(market.ErrInvalidState, "question ref not deployed")
	}
	question, err := r.expectedQuestion()
	if err != nil {
		return err
	}
	if err := market.Require(msg.From, question, "question deployed notification"); err != nil {
		return err
	}
	var p market.NotifyQuestionDeployed
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	if p.Question != question {
		return errors.Wrapf(market.ErrUnauthorized, "notification names %s, sender is %s", p.Question, question)
	}
	if !r.Question.IsZero() {
		if r.Question == p.Question {
			return nil
		}
		return errors.Wrap(market.ErrInvalidState, "question address already set")
	}
	r.Question = p.Question
	return nil
}

func (r *QuestionRef) handleQuestionClosed(ctx *ledger.Context, msg ledger.Message) error {
	if !r.Deployed {
		return errors.Wrap(market.ErrInvalidState, "question ref not deployed")
	}
	question, err := r.expectedQuestion()
	if err != nil {
		return err
	}
	if err := market.Require(msg.From, question, "question closed notification"); err != nil {
		return err
	}
	var p market.QuestionClosedNotify
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	r.Closed = true
	r.Rejected = p.Rejected
	return nil
}
