// Package ledger simulates the actor platform the marketplace runs on: derived addresses,
// value-bearing messages, per-actor mailboxes, gas, bounces and storage rent.
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"

	"askora/engine/library"
	"askora/engine/metrics"
)

const (
	secondsPerYear   = 365 * 24 * 60 * 60
	DefaultMaxRounds = 512
)

// Fees are charged by the platform, not by contracts.
type Fees struct {
	// Gas is taken from the receiver's balance for every delivered message.
	Gas Amount
	// StoragePerByteYear is the rent for one byte of actor data held for a year.
	StoragePerByteYear Amount
}

func DefaultFees() Fees {
	return Fees{
		Gas:                Coins(0.001),
		StoragePerByteYear: 100_000,
	}
}

// InstanceState is the persisted part of one actor.
type InstanceState struct {
	Balance  Amount    `cbor:"balance"`
	Code     CodeImage `cbor:"code"`
	Data     []byte    `cbor:"data"`
	LastPaid int64     `cbor:"last_paid"`
}

// Initialized reports whether code has been deployed at the address.
func (s InstanceState) Initialized() bool {
	return len(s.Code) > 0
}

type instance struct {
	mu *deadlock.Mutex
	InstanceState
}

func newInstance() *instance {
	return &instance{mu: &deadlock.Mutex{}}
}

type Option func(*Ledger)

func WithClock(c clock.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

func WithFees(f Fees) Option {
	return func(l *Ledger) { l.fees = f }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(l *Ledger) { l.metrics = c }
}

// WithMaxRounds bounds how many delivery rounds one Run may take.
func WithMaxRounds(n int) Option {
	return func(l *Ledger) { l.maxRounds = n }
}

func WithCodes(codes ...Code) Option {
	return func(l *Ledger) {
		for _, c := range codes {
			l.codes[c.key()] = c
		}
	}
}

type Ledger struct {
	mu        *deadlock.Mutex
	clock     clock.Clock
	fees      Fees
	maxRounds int
	metrics   *metrics.Collector
	codes     map[string]Code
	instances map[Address]*instance
	mailboxes map[Address]*library.Stack[Message]
	lt        uint64
	now       int64
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		mu:        &deadlock.Mutex{},
		clock:     clock.New(),
		fees:      DefaultFees(),
		maxRounds: DefaultMaxRounds,
		codes:     make(map[string]Code),
		instances: make(map[Address]*instance),
		mailboxes: make(map[Address]*library.Stack[Message]),
	}
	WithCodes(WalletCode)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register makes code images deployable.
func (l *Ledger) Register(codes ...Code) {
	l.mu.Lock()
	defer l.mu.Unlock()
	WithCodes(codes...)(l)
}

func (l *Ledger) Clock() clock.Clock {
	return l.clock
}

func (l *Ledger) Fees() Fees {
	return l.fees
}

// Now is the current block time. It never goes backwards.
func (l *Ledger) Now() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tick()
}

func (l *Ledger) tick() int64 {
	now := l.clock.Now().Unix()
	if now < l.now {
		now = l.now
	}
	l.now = now
	return now
}

// Fund instantiates init if needed and mints amount into it.
func (l *Ledger) Fund(init StateInit, amount Amount) (Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.codes[string(init.Code)]; !ok {
		return ZeroAddress, errors.Wrapf(ErrUnknownCode, "fund %q", string(init.Code))
	}
	addr := init.Address()
	inst, ok := l.instances[addr]
	if !ok {
		inst = newInstance()
		l.instances[addr] = inst
	}
	if !inst.Initialized() {
		inst.Code = init.Code
		inst.Data = init.Data
		inst.LastPaid = l.tick()
	}
	inst.Balance += amount
	library.LogCLI(fmt.Sprintf("minted %s to %s", amount, addr), 3)
	return addr, nil
}

// Treasury returns the wallet named name, minting amount into it.
func (l *Ledger) Treasury(name string, amount Amount) (Address, error) {
	init, err := WalletInit([]byte(name))
	if err != nil {
		return ZeroAddress, err
	}
	return l.Fund(init, amount)
}

// Send queues an external message from the wallet at from. The wallet pays the value and one gas.
func (l *Ledger) Send(from Address, m Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	inst, ok := l.instances[from]
	if !ok || string(inst.Code) != string(WalletCode.Image) {
		return errors.Wrapf(ErrNotFound, "no wallet at %s", from)
	}
	if inst.Balance < m.Value+l.fees.Gas {
		return errors.Wrapf(ErrInsufficientFunds, "wallet %s has %s, needs %s", from, inst.Balance, m.Value+l.fees.Gas)
	}
	inst.Balance -= m.Value + l.fees.Gas
	m.From = from
	m.Bounced = false
	l.enqueue(m)
	return nil
}

// SendAndRun sends m and runs the ledger until every resulting message is delivered.
func (l *Ledger) SendAndRun(ctx context.Context, from Address, m Message) (Trace, error) {
	if err := l.Send(from, m); err != nil {
		return nil, err
	}
	return l.Run(ctx)
}

func (l *Ledger) enqueue(m Message) {
	box, ok := l.mailboxes[m.To]
	if !ok {
		box = library.NewStack[Message](4)
		l.mailboxes[m.To] = box
	}
	box.Push(m)
}

func (l *Ledger) pendingAddresses() []Address {
	var out []Address
	for addr, box := range l.mailboxes {
		if box.Len() > 0 {
			out = append(out, addr)
		} else {
			delete(l.mailboxes, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Pending counts undelivered messages.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, box := range l.mailboxes {
		n += box.Len()
	}
	return n
}

type delivery struct {
	tx      Transaction
	created *instance
	out     []Message
}

// Run delivers messages in rounds until all mailboxes are empty. In each round every
// actor with mail handles its oldest message; different actors run in parallel and
// their results are merged in address order.
func (l *Ledger) Run(ctx context.Context) (Trace, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var trace Trace
	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		pending := l.pendingAddresses()
		l.metrics.Pending(len(pending))
		if len(pending) == 0 {
			return trace, nil
		}
		if round >= l.maxRounds {
			return trace, errors.Wrapf(ErrRunaway, "%d rounds", l.maxRounds)
		}
		now := l.tick()
		results := make([]delivery, len(pending))
		g, _ := errgroup.WithContext(ctx)
		for i, addr := range pending {
			i, addr := i, addr
			msg, _ := l.mailboxes[addr].Pop()
			inst := l.instances[addr]
			lt := l.lt + uint64(i) + 1
			g.Go(func() error {
				results[i] = l.deliver(inst, addr, msg, now, lt)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return trace, err
		}
		l.lt += uint64(len(pending))
		for i, addr := range pending {
			d := results[i]
			if d.created != nil {
				l.instances[addr] = d.created
			}
			if inst, ok := l.instances[addr]; ok && !inst.Initialized() && inst.Balance == 0 {
				delete(l.instances, addr)
			}
			for _, m := range d.out {
				l.enqueue(m)
			}
			trace = append(trace, d.tx)
			l.observe(d.tx)
		}
	}
}

func (l *Ledger) observe(tx Transaction) {
	library.LogCLI(tx.String(), 3)
	switch {
	case tx.Success:
		l.metrics.Transaction(metrics.ResultOK)
	case tx.BouncedBack:
		l.metrics.Transaction(metrics.ResultBounced)
	default:
		l.metrics.Transaction(metrics.ResultFailed)
	}
	if tx.Deployed {
		l.metrics.Deployment(l.codeNameAt(tx.To))
	}
	if tx.Collected {
		l.metrics.Collection()
	}
	l.metrics.Charged(uint64(tx.Gas), uint64(tx.Rent))
}

func (l *Ledger) codeNameAt(addr Address) string {
	inst, ok := l.instances[addr]
	if !ok {
		return "unknown"
	}
	if c, ok := l.codes[string(inst.Code)]; ok {
		return c.Name
	}
	return "unknown"
}

// deliver runs one message against one actor. It only touches inst, which no other
// goroutine holds during the round.
func (l *Ledger) deliver(inst *instance, to Address, msg Message, now int64, lt uint64) (d delivery) {
	defer library.ValidateSaneExecutionTime()()
	d.tx = Transaction{
		LT:      lt,
		Now:     now,
		From:    msg.From,
		To:      to,
		Op:      msg.Body.Op,
		Value:   msg.Value,
		Bounced: msg.Bounced,
	}
	if inst == nil {
		inst = newInstance()
		d.created = inst
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	d.tx.Rent, d.tx.Collected = l.collectRent(inst, now)
	inst.Balance += msg.Value
	if inst.Balance < l.fees.Gas {
		d.tx.Gas = inst.Balance
		inst.Balance = 0
		d.tx.Err = ErrOutOfGas
		return d
	}
	inst.Balance -= l.fees.Gas
	d.tx.Gas = l.fees.Gas

	if err := l.execute(inst, to, msg, now, lt, &d); err != nil {
		d.tx.Err = err
		if msg.Bounce && !msg.Bounced {
			back := msg.Value.Minus(d.tx.Gas)
			if back > inst.Balance {
				back = inst.Balance
			}
			if back > 0 {
				inst.Balance -= back
				d.out = append(d.out, Message{
					From:    to,
					To:      msg.From,
					Value:   back,
					Bounced: true,
					Body:    msg.Body,
				})
				d.tx.BouncedBack = true
			}
		}
	}
	return d
}

func (l *Ledger) execute(inst *instance, to Address, msg Message, now int64, lt uint64, d *delivery) error {
	code, data, deploying := inst.Code, inst.Data, false
	if !inst.Initialized() {
		if msg.Init == nil {
			if msg.Bounce && !msg.Bounced {
				return errors.Wrapf(ErrNotFound, "%s", to)
			}
			d.tx.Success = true
			return nil
		}
		if msg.Init.Address() != to {
			return errors.Wrapf(ErrInitMismatch, "%s", to)
		}
		code, data, deploying = msg.Init.Code, msg.Init.Data, true
	}
	c, ok := l.codes[string(code)]
	if !ok {
		return errors.Wrapf(ErrUnknownCode, "at %s", to)
	}
	contract := c.New()
	if err := DecodeState(data, contract); err != nil {
		return err
	}
	ctx := &Context{
		self:     to,
		code:     code,
		now:      now,
		lt:       lt,
		balance:  inst.Balance,
		gas:      d.tx.Gas,
		value:    msg.Value,
		deployed: deploying,
	}
	if err := contract.Receive(ctx, msg); err != nil {
		return err
	}
	state, err := EncodeState(contract)
	if err != nil {
		return err
	}
	inst.Code = code
	inst.Data = state
	inst.Balance = ctx.balance
	if deploying {
		inst.LastPaid = now
		d.tx.Deployed = true
	}
	d.out = ctx.out
	d.tx.Success = true
	return nil
}

// collectRent charges storage rent since the last payment. An actor that cannot pay is removed.
func (l *Ledger) collectRent(inst *instance, now int64) (Amount, bool) {
	if !inst.Initialized() || now <= inst.LastPaid {
		return 0, false
	}
	rate := l.fees.StoragePerByteYear.MulDiv(uint64(now-inst.LastPaid), 1)
	due := rate.MulDiv(uint64(len(inst.Data)), secondsPerYear)
	inst.LastPaid = now
	if due <= inst.Balance {
		inst.Balance -= due
		return due, false
	}
	paid := inst.Balance
	inst.InstanceState = InstanceState{}
	return paid, true
}

// Sweep charges rent to every actor at the current time and returns the addresses it removed.
func (l *Ledger) Sweep() []Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.tick()
	var removed []Address
	for addr, inst := range l.instances {
		rent, collected := l.collectRent(inst, now)
		l.metrics.Charged(0, uint64(rent))
		if collected {
			l.metrics.Collection()
			delete(l.instances, addr)
			removed = append(removed, addr)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].Less(removed[j]) })
	return removed
}

// Balance is zero for unknown addresses.
func (l *Ledger) Balance(addr Address) Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	if inst, ok := l.instances[addr]; ok {
		return inst.Balance
	}
	return 0
}

// Instance returns a copy of the actor at addr.
func (l *Ledger) Instance(addr Address) (InstanceState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inst, ok := l.instances[addr]
	if !ok {
		return InstanceState{}, false
	}
	s := inst.InstanceState
	s.Code = append(CodeImage(nil), s.Code...)
	s.Data = append([]byte(nil), s.Data...)
	return s, true
}

// Load decodes the data of the initialized actor at addr into into.
func (l *Ledger) Load(addr Address, into Contract) (InstanceState, error) {
	s, ok := l.Instance(addr)
	if !ok || !s.Initialized() {
		return s, errors.Wrapf(ErrNotFound, "%s", addr)
	}
	return s, DecodeState(s.Data, into)
}

// Addresses lists every known actor in address order.
func (l *Ledger) Addresses() []Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Address, 0, len(l.instances))
	for addr := range l.instances {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// CodeName names a registered code image, or returns "" if the image is unknown.
func (l *Ledger) CodeName(image CodeImage) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.codes[string(image)]; ok {
		return c.Name
	}
	return ""
}

// Reader is the read side of a ledger.
type Reader interface {
	Load(addr Address, into Contract) (InstanceState, error)
}
