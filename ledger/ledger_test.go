package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"askora/engine/metrics"
	"askora/ledger"
)

const (
	opIncrement ledger.Op = 0x100
	opFail      ledger.Op = 0x101
	opPing      ledger.Op = 0x102
	opOverspend ledger.Op = 0x103
)

var errBoom = errors.New("boom")

type counter struct {
	Owner ledger.Address `cbor:"owner"`
	Count uint64         `cbor:"count"`
	Seen  []uint64       `cbor:"seen"`
}

func (c *counter) Receive(ctx *ledger.Context, msg ledger.Message) error {
	switch msg.Body.Op {
	case opIncrement:
		var n uint64
		if err := msg.Body.Decode(&n); err != nil {
			return err
		}
		c.Count += n
		c.Seen = append(c.Seen, n)
	case opFail:
		c.Count = 999
		return errBoom
	case opPing:
		var partner ledger.Address
		if err := msg.Body.Decode(&partner); err != nil {
			return err
		}
		body, err := ledger.NewBody(opPing, ctx.Self())
		if err != nil {
			return err
		}
		return ctx.Send(ledger.Message{To: partner, Body: body})
	case opOverspend:
		return ctx.Send(ledger.Message{To: msg.From, Value: ctx.Balance() + 1})
	}
	return nil
}

var counterCode = ledger.Code{
	Name:  "counter",
	Image: ledger.CodeImage("test/counter"),
	New:   func() ledger.Contract { return &counter{} },
}

func counterInit(t *testing.T, owner ledger.Address) ledger.StateInit {
	data, err := ledger.EncodeState(&counter{Owner: owner})
	require.NoError(t, err)
	return ledger.StateInit{Code: counterCode.Image, Data: data}
}

func body(t *testing.T, op ledger.Op, payload interface{}) ledger.Body {
	b, err := ledger.NewBody(op, payload)
	require.NoError(t, err)
	return b
}

func loadCounter(t *testing.T, l *ledger.Ledger, addr ledger.Address) *counter {
	c := &counter{}
	_, err := l.Load(addr, c)
	require.NoError(t, err)
	return c
}

func TestDeriveIsDeterministic(t *testing.T) {
	a := ledger.Derive(ledger.CodeImage("code"), []byte("data"))
	b := ledger.Derive(ledger.CodeImage("code"), []byte("data"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, ledger.Derive(ledger.CodeImage("code"), []byte("datb")))
	require.NotEqual(t, a, ledger.Derive(ledger.CodeImage("cod"), []byte("edata")))

	parsed, err := ledger.ParseAddress(a.String())
	require.NoError(t, err)
	require.Equal(t, a, parsed)
	_, err = ledger.ParseAddress("0:abcd")
	require.Error(t, err)
}

func TestAmounts(t *testing.T) {
	v, err := ledger.ParseAmount("10.5")
	require.NoError(t, err)
	require.Equal(t, ledger.Coins(10.5), v)
	require.Equal(t, "10.5", v.String())
	require.Equal(t, "0.003", ledger.Coins(0.003).String())
	require.Equal(t, ledger.Amount(0), ledger.Coins(1).Minus(ledger.Coins(2)))
	require.Equal(t, ledger.Coins(0.5), ledger.Coins(10).MulDiv(5, 100))
	_, err = ledger.ParseAmount("1.0000000001")
	require.Error(t, err)
}

func TestTransferChargesGas(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	bob, err := l.Treasury("bob", ledger.Coins(1))
	require.NoError(t, err)

	trace, err := l.SendAndRun(ctx, alice, ledger.Message{To: bob, Value: ledger.Coins(2)})
	require.NoError(t, err)
	require.Len(t, trace, 1)
	require.True(t, trace[0].Success)

	gas := l.Fees().Gas
	require.Equal(t, ledger.Coins(3)-gas, l.Balance(alice))
	require.Equal(t, ledger.Coins(3)-gas, l.Balance(bob))

	err = l.Send(alice, ledger.Message{To: bob, Value: ledger.Coins(10)})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestDeployAndFifoDelivery(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithFees(ledger.Fees{}), ledger.WithCodes(counterCode))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)
	addr := init.Address()

	require.NoError(t, l.Send(alice, ledger.Message{To: addr, Value: ledger.Coins(1), Init: &init, Body: body(t, opIncrement, uint64(1))}))
	require.NoError(t, l.Send(alice, ledger.Message{To: addr, Body: body(t, opIncrement, uint64(2))}))
	require.NoError(t, l.Send(alice, ledger.Message{To: addr, Body: body(t, opIncrement, uint64(3))}))
	trace, err := l.Run(ctx)
	require.NoError(t, err)
	require.Len(t, trace, 3)
	require.True(t, trace[0].Deployed)

	c := loadCounter(t, l, addr)
	require.Equal(t, uint64(6), c.Count)
	require.Equal(t, []uint64{1, 2, 3}, c.Seen)
	require.Equal(t, alice, c.Owner)
	require.Equal(t, ledger.Coins(1), l.Balance(addr))
}

func TestFailedHandlerRollsBackAndBounces(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithCodes(counterCode))
	gas := l.Fees().Gas
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)
	addr := init.Address()

	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: addr, Value: ledger.Coins(1), Init: &init, Body: body(t, opIncrement, uint64(4))})
	require.NoError(t, err)

	trace, err := l.SendAndRun(ctx, alice, ledger.Message{To: addr, Value: ledger.Coins(1), Bounce: true, Body: ledger.Body{Op: opFail}})
	require.NoError(t, err)
	require.Len(t, trace, 2)
	require.ErrorIs(t, trace[0].Err, errBoom)
	require.True(t, trace[0].BouncedBack)
	require.True(t, trace[1].Bounced)

	require.Equal(t, uint64(4), loadCounter(t, l, addr).Count)
	require.Equal(t, ledger.Coins(1)-gas, l.Balance(addr))
	require.Equal(t, ledger.Coins(4)-4*gas, l.Balance(alice))

	trace, err = l.SendAndRun(ctx, alice, ledger.Message{To: addr, Bounce: true, Body: ledger.Body{Op: opOverspend}})
	require.NoError(t, err)
	require.ErrorIs(t, trace[0].Err, ledger.ErrInsufficientFunds)
}

func TestFailedDeployLeavesNothing(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithFees(ledger.Fees{}), ledger.WithCodes(counterCode))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)

	trace, err := l.SendAndRun(ctx, alice, ledger.Message{To: init.Address(), Value: ledger.Coins(1), Bounce: true, Init: &init, Body: ledger.Body{Op: opFail}})
	require.NoError(t, err)
	require.False(t, trace[0].Success)
	_, ok := l.Instance(init.Address())
	require.False(t, ok)
	require.Equal(t, ledger.Coins(5), l.Balance(alice))
}

func TestInitMustDeriveDestination(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithFees(ledger.Fees{}), ledger.WithCodes(counterCode))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)
	elsewhere := ledger.Derive(ledger.CodeImage("x"), nil)

	trace, err := l.SendAndRun(ctx, alice, ledger.Message{To: elsewhere, Value: ledger.Coins(1), Bounce: true, Init: &init})
	require.NoError(t, err)
	require.ErrorIs(t, trace[0].Err, ledger.ErrInitMismatch)
	require.Equal(t, ledger.Coins(5), l.Balance(alice))

	unknown := ledger.StateInit{Code: ledger.CodeImage("nope")}
	trace, err = l.SendAndRun(ctx, alice, ledger.Message{To: unknown.Address(), Value: ledger.Coins(1), Bounce: true, Init: &unknown})
	require.NoError(t, err)
	require.ErrorIs(t, trace[0].Err, ledger.ErrUnknownCode)
}

func TestUninitializedAddresses(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithFees(ledger.Fees{}))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	nowhere := ledger.Derive(ledger.CodeImage("x"), []byte("y"))

	trace, err := l.SendAndRun(ctx, alice, ledger.Message{To: nowhere, Value: ledger.Coins(1), Bounce: true})
	require.NoError(t, err)
	require.ErrorIs(t, trace[0].Err, ledger.ErrNotFound)
	require.Equal(t, ledger.Coins(5), l.Balance(alice))
	require.Zero(t, l.Balance(nowhere))

	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: nowhere, Value: ledger.Coins(1)})
	require.NoError(t, err)
	require.Equal(t, ledger.Coins(1), l.Balance(nowhere))
	state, ok := l.Instance(nowhere)
	require.True(t, ok)
	require.False(t, state.Initialized())
}

func TestOutOfGas(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithCodes(counterCode))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)

	trace, err := l.SendAndRun(ctx, alice, ledger.Message{To: init.Address(), Init: &init, Body: body(t, opIncrement, uint64(1))})
	require.NoError(t, err)
	require.ErrorIs(t, trace[0].Err, ledger.ErrOutOfGas)
	_, ok := l.Instance(init.Address())
	require.False(t, ok)
}

func TestRunawayCascade(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithFees(ledger.Fees{}), ledger.WithCodes(counterCode), ledger.WithMaxRounds(10))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	bob, err := l.Treasury("bob", ledger.Coins(5))
	require.NoError(t, err)
	a := counterInit(t, alice)
	b := counterInit(t, bob)

	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: a.Address(), Init: &a})
	require.NoError(t, err)
	_, err = l.SendAndRun(ctx, bob, ledger.Message{To: b.Address(), Init: &b})
	require.NoError(t, err)

	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: a.Address(), Body: body(t, opPing, b.Address())})
	require.ErrorIs(t, err, ledger.ErrRunaway)
}

func TestRentCollectsExhaustedActors(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	mock.Add(1_700_000_000 * time.Second)
	fees := ledger.Fees{StoragePerByteYear: ledger.Coins(0.001)}
	l := ledger.New(ledger.WithClock(mock), ledger.WithFees(fees), ledger.WithCodes(counterCode))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)
	addr := init.Address()

	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: addr, Value: ledger.Coins(0.01), Init: &init})
	require.NoError(t, err)

	mock.Add(24 * time.Hour)
	require.Empty(t, l.Sweep())
	require.Less(t, l.Balance(addr), ledger.Coins(0.01))

	mock.Add(10 * 365 * 24 * time.Hour)
	require.Contains(t, l.Sweep(), addr)
	_, ok := l.Instance(addr)
	require.False(t, ok)
}

func TestSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(ledger.WithFees(ledger.Fees{}))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	bob, err := l.Treasury("bob", 0)
	require.NoError(t, err)

	snap := l.Snapshot()
	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: bob, Value: ledger.Coins(2)})
	require.NoError(t, err)
	require.Equal(t, ledger.Coins(5), snap.Instances[alice].Balance)

	l.Restore(snap)
	require.Equal(t, ledger.Coins(5), l.Balance(alice))
	require.Zero(t, l.Balance(bob))
}

func TestSnapshotHash(t *testing.T) {
	ctx := context.Background()
	run := func() ledger.Snapshot {
		l := ledger.New(ledger.WithFees(ledger.Fees{}), ledger.WithClock(clock.NewMock()))
		alice, err := l.Treasury("alice", ledger.Coins(5))
		require.NoError(t, err)
		bob, err := l.Treasury("bob", 0)
		require.NoError(t, err)
		_, err = l.SendAndRun(ctx, alice, ledger.Message{To: bob, Value: ledger.Coins(2)})
		require.NoError(t, err)
		return l.Snapshot()
	}
	first, err := run().Hash()
	require.NoError(t, err)
	second, err := run().Hash()
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, first, 64)

	empty, err := ledger.Snapshot{}.Hash()
	require.NoError(t, err)
	require.NotEqual(t, first, empty)
}

func TestMetricsObserveDeliveries(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	require.NoError(t, err)
	l := ledger.New(ledger.WithMetrics(collector), ledger.WithCodes(counterCode))
	alice, err := l.Treasury("alice", ledger.Coins(5))
	require.NoError(t, err)
	init := counterInit(t, alice)

	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: init.Address(), Value: ledger.Coins(1), Init: &init})
	require.NoError(t, err)
	_, err = l.SendAndRun(ctx, alice, ledger.Message{To: init.Address(), Value: ledger.Coins(1), Bounce: true, Body: ledger.Body{Op: opFail}})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "askora_ledger_transactions_total")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = testutil.GatherAndCount(reg, "askora_ledger_deployments_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestCodecErrorsKeepTheirCause(t *testing.T) {
	data, err := ledger.EncodeState(&counter{Count: 3})
	require.NoError(t, err)
	var c counter
	require.NoError(t, ledger.DecodeState(data, &c))
	require.Equal(t, uint64(3), c.Count)

	data[0] = ledger.StateVersion + 1
	err = ledger.DecodeState(data, &c)
	require.True(t, errors.Is(err, ledger.ErrStateVersion))
	require.Contains(t, err.Error(), "0x2")

	_, err = ledger.ParseAddress("0:zz")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid address")
	var a ledger.Address
	require.Error(t, a.UnmarshalText([]byte("0:abcd")))
}
