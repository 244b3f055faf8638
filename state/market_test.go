package state_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"askora/ledger"
	"askora/market"
	"askora/state/account"
	"askora/state/question"
	"askora/state/questionref"
	"askora/state/root"
	"askora/state/statetest"
)

const day = 24 * time.Hour

func TestSubmitThenReply(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))
	require.Equal(t, ledger.Coins(0.03), f.Balance(aliceAccount))

	bobBefore := f.Balance(f.Bob)
	rootBefore := f.Balance(f.Root)
	q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(10.6), "what is the answer?")

	require.Equal(t, ledger.Coins(10.51), f.Balance(q))
	require.Equal(t, rootBefore+ledger.Coins(0.003), f.Balance(f.Root))
	require.Equal(t, bobBefore-ledger.Coins(10.548), f.Balance(f.Bob))

	data, err := question.AllData(f.Ledger, q)
	require.NoError(t, err)
	require.Equal(t, question.StatusOpen, data.Status)
	require.Equal(t, "what is the answer?", data.Content)
	require.Equal(t, f.Bob, data.Submitter)
	require.Equal(t, f.Alice, data.Owner)
	require.Equal(t, aliceAccount, data.Account)
	require.Equal(t, ledger.Coins(0.5), data.Fee)
	require.Equal(t, statetest.Genesis.Unix(), data.CreatedAt)

	bobAccount, err := f.AccountAddress(f.Bob)
	require.NoError(t, err)
	require.Equal(t, bobAccount, data.SubmitterAccount)
	bobData, err := account.AllData(f.Ledger, bobAccount)
	require.NoError(t, err)
	require.Equal(t, f.Bob, bobData.Owner)
	require.Equal(t, uint32(1), bobData.NextSubmittedID)
	require.Equal(t, ledger.Amount(0), bobData.MinPrice)
	require.Equal(t, ledger.Coins(0.03), bobData.Balance)

	ref, err := f.QuestionRefAddress(bobAccount, 0)
	require.NoError(t, err)
	linked, err := questionref.QuestionAddr(f.Ledger, ref)
	require.NoError(t, err)
	require.Equal(t, q, linked)

	aliceBefore := f.Balance(f.Alice)
	rootBefore = f.Balance(f.Root)
	bobBefore = f.Balance(f.Bob)
	trace := f.Must(f.Reply(f.Ctx, f.Alice, ledger.Coins(0.1), 0, "42"))
	statetest.RequireOK(t, trace)

	require.Equal(t, ledger.Coins(9.5), statetest.Received(trace, f.Alice, market.OpReward))
	require.Equal(t, rootBefore+ledger.Coins(0.5), f.Balance(f.Root))
	require.Equal(t, ledger.Coins(0.01), f.Balance(q))
	require.Equal(t, bobBefore+ledger.Coins(0.5), f.Balance(f.Bob))
	require.Equal(t, aliceBefore-ledger.Coins(0.1)+ledger.Coins(9.5)+ledger.Coins(0.097), f.Balance(f.Alice))
	require.Equal(t, ledger.Coins(0.03), f.Balance(aliceAccount))

	data, err = question.AllData(f.Ledger, q)
	require.NoError(t, err)
	require.True(t, data.IsClosed)
	require.False(t, data.IsRejected)
	require.Equal(t, question.StatusReplied, data.Status)
	require.Equal(t, "42", data.ReplyContent)

	refData, err := questionref.AllData(f.Ledger, ref)
	require.NoError(t, err)
	require.True(t, refData.Closed)
	require.False(t, refData.Rejected)
}

func TestSubmitThenReplyWithPlatformFees(t *testing.T) {
	f := statetest.New(t, ledger.DefaultFees())
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))
	q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(10.6), "what is the answer?")
	require.InDelta(t, 10.5, f.Balance(q).Float(), 0.02)

	rootBefore := f.Balance(f.Root)
	aliceBefore := f.Balance(f.Alice)
	trace := f.Must(f.Reply(f.Ctx, f.Alice, ledger.Coins(0.1), 0, "42"))
	statetest.RequireOK(t, trace)

	require.Equal(t, ledger.Coins(9.5), statetest.Received(trace, f.Alice, market.OpReward))
	require.InDelta(t, 9.5, (f.Balance(f.Alice) - aliceBefore).Float(), 0.01)
	require.InDelta(t, 0.5, (f.Balance(f.Root) - rootBefore).Float(), 0.01)
	require.Equal(t, ledger.Coins(0.01), f.Balance(q))

	bobAccount, err := f.AccountAddress(f.Bob)
	require.NoError(t, err)
	ref, err := f.QuestionRefAddress(bobAccount, 0)
	require.NoError(t, err)
	refData, err := questionref.AllData(f.Ledger, ref)
	require.NoError(t, err)
	require.Equal(t, q, refData.Question)
	require.True(t, refData.Closed)
}

func TestExpiration(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))
	q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(10.6), "still there?")

	f.Advance(6 * day)
	malloryBefore := f.Balance(f.Mallory)
	trace := f.Must(f.CancelExpired(f.Ctx, f.Mallory, q, ledger.Coins(0.1)))
	statetest.RequireFailure(t, trace, market.ErrNotYetExpired)
	require.Equal(t, malloryBefore, f.Balance(f.Mallory))
	require.Equal(t, ledger.Coins(10.51), f.Balance(q))
	closed, err := question.IsClosed(f.Ledger, q)
	require.NoError(t, err)
	require.False(t, closed)

	f.Advance(2 * day)
	bobBefore := f.Balance(f.Bob)
	trace = f.Must(f.CancelExpired(f.Ctx, f.Mallory, q, ledger.Coins(0.1)))
	statetest.RequireOK(t, trace)

	require.Equal(t, bobBefore+ledger.Coins(10.5), f.Balance(f.Bob))
	require.Equal(t, ledger.Coins(0.01), f.Balance(q))
	require.Equal(t, malloryBefore-ledger.Coins(0.006), f.Balance(f.Mallory))
	data, err := question.AllData(f.Ledger, q)
	require.NoError(t, err)
	require.True(t, data.IsRejected)
	require.Equal(t, question.StatusExpired, data.Status)

	bobAccount, err := f.AccountAddress(f.Bob)
	require.NoError(t, err)
	ref, err := f.QuestionRefAddress(bobAccount, 0)
	require.NoError(t, err)
	refData, err := questionref.AllData(f.Ledger, ref)
	require.NoError(t, err)
	require.True(t, refData.Closed)
	require.True(t, refData.Rejected)
}

func TestOwnerReject(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))
	q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(10.6), "spam")

	bobBefore := f.Balance(f.Bob)
	aliceBefore := f.Balance(f.Alice)
	trace := f.Must(f.Reject(f.Ctx, f.Alice, ledger.Coins(0.1), 0))
	statetest.RequireOK(t, trace)

	require.Equal(t, bobBefore+ledger.Coins(10.5), f.Balance(f.Bob))
	require.Equal(t, aliceBefore-ledger.Coins(0.006), f.Balance(f.Alice))
	require.Equal(t, ledger.Coins(0.01), f.Balance(q))
	rejected, err := question.IsRejected(f.Ledger, q)
	require.NoError(t, err)
	require.True(t, rejected)
}

// A reply pays price minus fee to the owner and the fee to Root, returns the fee surcharge
// to the submitter and everything else above the reserve to whoever paid for the reply.
// Reject and cancel refund price plus fee to the submitter and the rest to the caller.
func TestRebateRouting(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	policy := f.Codes.Policy
	price := ledger.Coins(3.33)
	aliceAccount := f.OpenAccount(t, f.Alice, price)
	fee := policy.Fee(price)

	extra := ledger.Coins(0.25)
	q0 := f.Ask(t, f.Bob, aliceAccount, policy.SubmitCost(price)+extra, "first")
	q1 := f.Ask(t, f.Bob, aliceAccount, policy.SubmitCost(price), "second")
	require.Equal(t, policy.Escrow(price), f.Balance(q0))
	require.Equal(t, policy.Escrow(price), f.Balance(q1))

	replyValue := ledger.Coins(0.2)
	trace := f.Must(f.Reply(f.Ctx, f.Alice, replyValue, 0, "answer"))
	statetest.RequireOK(t, trace)
	require.Equal(t, price-fee, statetest.Received(trace, f.Alice, market.OpReward))
	require.Equal(t, fee, statetest.Received(trace, f.Root, market.OpQuestionReplied))
	require.Equal(t, fee, statetest.Received(trace, f.Bob, market.OpRefund))
	require.Equal(t, replyValue-policy.NotificationAmount, statetest.Received(trace, f.Alice, market.OpExcess))

	rejectValue := ledger.Coins(0.2)
	trace = f.Must(f.Reject(f.Ctx, f.Alice, rejectValue, 1))
	statetest.RequireOK(t, trace)
	require.Equal(t, price+fee, statetest.Received(trace, f.Bob, market.OpRefund))
	require.Equal(t, policy.NotificationAmount, statetest.Received(trace, f.Root, market.OpQuestionRejected))
	require.Equal(t, rejectValue-2*policy.NotificationAmount, statetest.Received(trace, f.Alice, market.OpExcess))
}

func TestSingleTerminalTransition(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))
	q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(10.6), "once")
	statetest.RequireOK(t, f.Must(f.Reply(f.Ctx, f.Alice, ledger.Coins(0.1), 0, "first")))

	aliceBefore := f.Balance(f.Alice)
	trace := f.Must(f.Reject(f.Ctx, f.Alice, ledger.Coins(0.1), 0))
	statetest.RequireFailure(t, trace, market.ErrInvalidState)
	trace = f.Must(f.Reply(f.Ctx, f.Alice, ledger.Coins(0.1), 0, "second"))
	statetest.RequireFailure(t, trace, market.ErrInvalidState)
	require.Equal(t, aliceBefore, f.Balance(f.Alice))

	f.Advance(8 * day)
	trace = f.Must(f.CancelExpired(f.Ctx, f.Mallory, q, ledger.Coins(0.1)))
	statetest.RequireFailure(t, trace, market.ErrInvalidState)

	data, err := question.AllData(f.Ledger, q)
	require.NoError(t, err)
	require.Equal(t, question.StatusReplied, data.Status)
	require.Equal(t, "first", data.ReplyContent)
	require.False(t, data.IsRejected)
	require.Equal(t, ledger.Coins(0.01), data.Balance)
}

func TestInsufficientValue(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))
	bobBefore := f.Balance(f.Bob)

	trace := f.Must(f.SubmitQuestion(f.Ctx, f.Bob, aliceAccount, ledger.Coins(10.5), "cheap"))
	statetest.RequireFailure(t, trace, market.ErrInsufficientValue)
	require.Equal(t, bobBefore, f.Balance(f.Bob))
	next, err := account.NextID(f.Ledger, aliceAccount)
	require.NoError(t, err)
	require.Equal(t, uint32(0), next)
}

func TestFreeQuestions(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	policy := f.Codes.Policy
	aliceAccount := f.OpenAccount(t, f.Alice, 0)
	require.Equal(t, ledger.Coins(0.06), policy.SubmitCost(0))

	q := f.Ask(t, f.Bob, aliceAccount, policy.SubmitCost(0), "free?")
	require.Equal(t, policy.QuestionReserve, f.Balance(q))

	rootBefore := f.Balance(f.Root)
	trace := f.Must(f.Reply(f.Ctx, f.Alice, ledger.Coins(0.1), 0, "free."))
	statetest.RequireOK(t, trace)
	require.Zero(t, statetest.Received(trace, f.Alice, market.OpReward))
	require.Equal(t, rootBefore, f.Balance(f.Root))
	require.Equal(t, policy.QuestionReserve, f.Balance(q))
}

func TestCounterMonotonicity(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(1))

	seen := map[ledger.Address]bool{}
	for i := 0; i < 3; i++ {
		q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(2), "again")
		require.False(t, seen[q])
		seen[q] = true
		data, err := question.AllData(f.Ledger, q)
		require.NoError(t, err)
		require.Equal(t, uint32(i), data.ID)
	}
	next, err := account.NextID(f.Ledger, aliceAccount)
	require.NoError(t, err)
	require.Equal(t, uint32(3), next)

	bobAccount, err := f.AccountAddress(f.Bob)
	require.NoError(t, err)
	submitted, err := account.NextSubmittedID(f.Ledger, bobAccount)
	require.NoError(t, err)
	require.Equal(t, uint32(3), submitted)
	for i := uint32(0); i < 3; i++ {
		ref, err := account.QuestionRefAddr(f.Ledger, bobAccount, i)
		require.NoError(t, err)
		want, err := account.QuestionAddr(f.Ledger, aliceAccount, i)
		require.NoError(t, err)
		got, err := questionref.QuestionAddr(f.Ledger, ref)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestIdempotentDeployment(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(10))

	aliceBefore := f.Balance(f.Alice)
	statetest.RequireOK(t, f.Must(f.CreateAccount(f.Ctx, f.Alice, ledger.Coins(1), ledger.Coins(99), "changed")))
	data, err := account.AllData(f.Ledger, aliceAccount)
	require.NoError(t, err)
	require.Equal(t, ledger.Coins(10), data.MinPrice)
	require.Equal(t, "answers", data.Description)
	require.Equal(t, aliceBefore, f.Balance(f.Alice))

	init, err := f.Codes.RootInit()
	require.NoError(t, err)
	body, err := ledger.NewBody(market.OpRootDeploy, market.RootDeploy{Sponsor: f.Mallory})
	require.NoError(t, err)
	malloryBefore := f.Balance(f.Mallory)
	rootBefore := f.Balance(f.Root)
	trace := f.Must(f.Ledger.SendAndRun(f.Ctx, f.Mallory, ledger.Message{To: f.Root, Value: ledger.Coins(0.1), Bounce: true, Body: body, Init: &init}))
	statetest.RequireOK(t, trace)
	require.Equal(t, ledger.Coins(0.1), statetest.Received(trace, f.Mallory, market.OpExcess))
	require.Equal(t, malloryBefore, f.Balance(f.Mallory))
	require.Equal(t, rootBefore, f.Balance(f.Root))
	rootData, err := root.AllData(f.Ledger, f.Root)
	require.NoError(t, err)
	require.Equal(t, f.Deployer, rootData.ServiceOwner)
	require.Equal(t, f.Sponsor, rootData.Sponsor)
}

func TestRentCollectsClosedQuestions(t *testing.T) {
	f := statetest.New(t, ledger.DefaultFees())
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(1))
	q := f.Ask(t, f.Bob, aliceAccount, ledger.Coins(2), "how long do you live?")
	statetest.RequireOK(t, f.Must(f.Reply(f.Ctx, f.Alice, ledger.Coins(0.1), 0, "a while")))

	f.Advance(30 * day)
	require.NotContains(t, f.Ledger.Sweep(), q)
	f.Advance(10 * 365 * day)
	require.Contains(t, f.Ledger.Sweep(), q)
	_, err := question.AllData(f.Ledger, q)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestQueries(t *testing.T) {
	f := statetest.New(t, ledger.Fees{})
	aliceAccount := f.OpenAccount(t, f.Alice, ledger.Coins(1))
	f.Ask(t, f.Bob, aliceAccount, ledger.Coins(2), "listed?")

	require.Len(t, f.Accounts(), 2)
	require.Len(t, f.Questions(), 1)
	require.Len(t, f.QuestionRefs(), 1)

	names, counts := f.Census()
	require.Equal(t, []string{"account", "question", "question_ref", "root", "wallet"}, names)
	require.Equal(t, 6, counts["wallet"])
	require.Equal(t, 1, counts["root"])

	addr, err := root.AccountAddr(f.Ledger, f.Root, f.Alice)
	require.NoError(t, err)
	require.Equal(t, aliceAccount, addr)
}
