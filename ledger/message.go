package ledger

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
)

// Op selects the handler a message is meant for.
type Op uint32

// OpNone carries plain value.
const OpNone Op = 0

var (
	opNames      = map[Op]string{OpNone: "transfer"}
	opNamesMutex = &deadlock.RWMutex{}
)

// RegisterOpName gives op a readable name in traces and logs.
func RegisterOpName(op Op, name string) {
	opNamesMutex.Lock()
	defer opNamesMutex.Unlock()
	opNames[op] = name
}

func (o Op) String() string {
	opNamesMutex.RLock()
	defer opNamesMutex.RUnlock()
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("%#08x", uint32(o))
}

type Body struct {
	Op      Op     `cbor:"op"`
	QueryID uint64 `cbor:"query_id,omitempty"`
	Payload []byte `cbor:"payload,omitempty"`
}

// NewBody encodes payload (which may be nil) under op.
func NewBody(op Op, payload interface{}) (Body, error) {
	b := Body{Op: op}
	if payload == nil {
		return b, nil
	}
	data, err := EncodeState(payload)
	if err != nil {
		return b, err
	}
	b.Payload = data
	return b, nil
}

// Decode reads the payload into v.
func (b Body) Decode(v interface{}) error {
	return DecodeState(b.Payload, v)
}

// StateInit is the code and initial data an actor is deployed with. Its hash is the actor's address.
type StateInit struct {
	Code CodeImage `cbor:"code"`
	Data []byte    `cbor:"data"`
}

func (s StateInit) Address() Address {
	return Derive(s.Code, s.Data)
}

type Message struct {
	From    Address
	To      Address
	Value   Amount
	Bounce  bool
	Bounced bool
	Body    Body
	Init    *StateInit
}

func (m Message) String() string {
	return fmt.Sprintf("%s -> %s [%s] %s", m.From.Short(), m.To.Short(), m.Body.Op, m.Value)
}
