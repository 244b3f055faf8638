package question

import (
	"github.com/pkg/errors"

	"askora/ledger"
	"askora/market"
)

type handlerFunc func(q *Question, ctx *ledger.Context, msg ledger.Message) error

type transition struct {
	from Status
	op   ledger.Op
}

var transitions = map[transition]handlerFunc{
	{StatusUndeployed, market.OpQuestionDeploy}: (*Question).handleDeploy,
	{StatusOpen, market.OpQuestionReply}:        (*Question).handleReply,
	{StatusOpen, market.OpQuestionReject}:       (*Question).handleReject,
	{StatusOpen, market.OpCancelExpired}:        (*Question).handleCancelExpired,
	{StatusOpen, market.OpLinkRef}:              (*Question).handleLinkRef,
	{StatusReplied, market.OpLinkRef}:           (*Question).handleLinkRef,
	{StatusRejected, market.OpLinkRef}:          (*Question).handleLinkRef,
	{StatusExpired, market.OpLinkRef}:           (*Question).handleLinkRef,
}

var knownOps = map[ledger.Op]bool{}

func init() {
	for t := range transitions {
		knownOps[t.op] = true
	}
}

func (q *Question) Receive(ctx *ledger.Context, msg ledger.Message) error {
	if msg.Bounced {
		if msg.Body.Op == market.OpQuestionCreatedNotify {
			return market.Pay(ctx, q.Submitter, market.Inbound(ctx), market.OpRefund)
		}
		return nil
	}
	if q.Status != StatusUndeployed && (msg.Body.Op == ledger.OpNone || msg.Body.Op == market.OpExcess) {
		return nil
	}
	h, ok := transitions[transition{q.Status, msg.Body.Op}]
	if !ok {
		if knownOps[msg.Body.Op] {
			return errors.Wrapf(market.ErrInvalidState, "%s while %s", msg.Body.Op, q.Status)
		}
		return errors.Wrapf(market.ErrUnknownOperation, "%s", msg.Body.Op)
	}
	return h(q, ctx, msg)
}

func (q *Question) handleDeploy(ctx *ledger.Context, msg ledger.Message) error {
	if !ctx.JustDeployed() {
		return errors.Wrap(market.ErrInvalidState, "deploy of an existing question")
	}
	if err := market.Require(msg.From, q.Account, "question deploy"); err != nil {
		return err
	}
	var p market.QuestionDeploy
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	q.Submitter = p.Submitter
	q.SubmitterAccount = p.SubmitterAccountInit.Address()
	q.Owner = p.Owner
	q.Root = p.Root
	q.MinPrice = p.MinPrice
	q.Fee = q.policy.Fee(p.MinPrice)
	q.Content = p.Content
	q.QuestionRefCode = p.QuestionRefCode
	q.CreatedAt = ctx.Now()
	q.Status = StatusOpen

	if ctx.Balance() < q.Escrow()+q.policy.NotificationAmount {
		return errors.Wrapf(market.ErrInsufficientValue, "question needs %s, has %s", q.Escrow()+q.policy.NotificationAmount, ctx.Balance())
	}
	event := market.QuestionEvent{Account: q.Account, ID: q.ID}
	if err := market.Send(ctx, q.Root, q.policy.NotificationAmount, market.OpQuestionCreated, event, false, nil); err != nil {
		return err
	}
	notify := market.QuestionCreatedNotify{Account: q.Account, Owner: q.Owner, ID: q.ID}
	init := p.SubmitterAccountInit
	return market.Send(ctx, q.SubmitterAccount, ctx.Balance()-q.Escrow(), market.OpQuestionCreatedNotify, notify, true, &init)
}

func (q *Question) handleLinkRef(ctx *ledger.Context, msg ledger.Message) error {
	var p market.LinkRef
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	ref, err := market.QuestionRefAddress(q.QuestionRefCode, q.SubmitterAccount, p.RefID)
	if err != nil {
		return err
	}
	if err := market.Require(msg.From, ref, "link ref"); err != nil {
		return err
	}
	if q.RefLinked {
		return errors.Wrap(market.ErrInvalidState, "question ref already linked")
	}
	q.RefID = p.RefID
	q.RefLinked = true

	available := ctx.Balance().Minus(q.keep())
	if !q.IsClosed() {
		return market.Send(ctx, ref, available, market.OpNotifyQuestionDeployed, market.NotifyQuestionDeployed{Question: ctx.Self()}, false, nil)
	}
	if err := market.Send(ctx, ref, 0, market.OpNotifyQuestionDeployed, market.NotifyQuestionDeployed{Question: ctx.Self()}, false, nil); err != nil {
		return err
	}
	return market.Send(ctx, ref, available, market.OpQuestionClosedNotify, market.QuestionClosedNotify{Rejected: q.IsRejected()}, false, nil)
}

// keep is the balance the question must hold in its current status.
func (q *Question) keep() ledger.Amount {
	if q.IsClosed() {
		return q.policy.QuestionReserve
	}
	return q.Escrow()
}

func (q *Question) handleReply(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, q.Account, "reply"); err != nil {
		return err
	}
	var p market.QuestionReply
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	need := q.Escrow()
	if q.RefLinked {
		need += q.policy.NotificationAmount
	}
	if ctx.Balance() < need {
		return errors.Wrapf(market.ErrInsufficientValue, "reply needs %s, question has %s", need, ctx.Balance())
	}
	q.Status = StatusReplied
	q.ReplyContent = p.Content
	q.ClosedAt = ctx.Now()

	if err := market.Pay(ctx, q.Owner, q.MinPrice-q.Fee, market.OpReward); err != nil {
		return err
	}
	if q.Fee > 0 {
		if err := market.Send(ctx, q.Root, q.Fee, market.OpQuestionReplied, market.QuestionEvent{Account: q.Account, ID: q.ID}, false, nil); err != nil {
			return err
		}
	}
	if err := q.notifyRef(ctx); err != nil {
		return err
	}
	// The escrow held the fee twice: once for Root, once as the submitter's surcharge.
	if err := market.Pay(ctx, q.Submitter, q.Fee, market.OpRefund); err != nil {
		return err
	}
	return market.ReturnExcess(ctx, q.policy.QuestionReserve, p.ResponseTo)
}

func (q *Question) handleReject(ctx *ledger.Context, msg ledger.Message) error {
	if err := market.Require(msg.From, q.Account, "reject"); err != nil {
		return err
	}
	var p market.QuestionReject
	if err := market.Decode(msg, &p); err != nil {
		return err
	}
	return q.refund(ctx, StatusRejected, p.ResponseTo)
}

func (q *Question) handleCancelExpired(ctx *ledger.Context, msg ledger.Message) error {
	if !q.policy.Expired(q.CreatedAt, ctx.Now()) {
		return errors.Wrapf(market.ErrNotYetExpired, "expires at %d, now %d", q.CreatedAt+q.policy.ExpirationWindow, ctx.Now())
	}
	return q.refund(ctx, StatusExpired, msg.From)
}

// refund closes the question without a reply and returns the escrow to the submitter.
func (q *Question) refund(ctx *ledger.Context, status Status, responseTo ledger.Address) error {
	need := q.Escrow() + q.policy.NotificationAmount
	if q.RefLinked {
		need += q.policy.NotificationAmount
	}
	if ctx.Balance() < need {
		return errors.Wrapf(market.ErrInsufficientValue, "refund needs %s, question has %s", need, ctx.Balance())
	}
	q.Status = status
	q.ClosedAt = ctx.Now()

	if err := market.Pay(ctx, q.Submitter, q.MinPrice+q.Fee, market.OpRefund); err != nil {
		return err
	}
	if err := market.Send(ctx, q.Root, q.policy.NotificationAmount, market.OpQuestionRejected, market.QuestionEvent{Account: q.Account, ID: q.ID}, false, nil); err != nil {
		return err
	}
	if err := q.notifyRef(ctx); err != nil {
		return err
	}
	return market.ReturnExcess(ctx, q.policy.QuestionReserve, responseTo)
}

func (q *Question) notifyRef(ctx *ledger.Context) error {
	if !q.RefLinked {
		return nil
	}
	ref, err := market.QuestionRefAddress(q.QuestionRefCode, q.SubmitterAccount, q.RefID)
	if err != nil {
		return err
	}
	return market.Send(ctx, ref, q.policy.NotificationAmount, market.OpQuestionClosedNotify, market.QuestionClosedNotify{Rejected: q.IsRejected()}, false, nil)
}
