package question

import (
	"askora/ledger"
	"askora/market"
)

type Status uint8

const (
	StatusUndeployed Status = iota
	StatusOpen
	StatusReplied
	StatusRejected
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusUndeployed:
		return "undeployed"
	case StatusOpen:
		return "open"
	case StatusReplied:
		return "replied"
	case StatusRejected:
		return "rejected"
	case StatusExpired:
		return "expired"
	}
	return "unknown"
}

// Closed is true for every terminal status.
func (s Status) Closed() bool {
	return s >= StatusReplied
}

// Question is the escrow for one submitted question.
type Question struct {
	Account          ledger.Address   `cbor:"account"`
	ID               uint32           `cbor:"id"`
	Submitter        ledger.Address   `cbor:"submitter"`
	SubmitterAccount ledger.Address   `cbor:"submitter_account"`
	Owner            ledger.Address   `cbor:"owner"`
	Root             ledger.Address   `cbor:"root"`
	MinPrice         ledger.Amount    `cbor:"min_price"`
	Fee              ledger.Amount    `cbor:"fee"`
	Content          string           `cbor:"content"`
	ReplyContent     string           `cbor:"reply_content"`
	Status           Status           `cbor:"status"`
	CreatedAt        int64            `cbor:"created_at"`
	ClosedAt         int64            `cbor:"closed_at"`
	RefID            uint32           `cbor:"ref_id"`
	RefLinked        bool             `cbor:"ref_linked"`
	QuestionRefCode  ledger.CodeImage `cbor:"question_ref_code"`

	policy market.Policy
}

// Code is the Question code under policy.
func Code(p market.Policy) (ledger.Code, error) {
	image, err := market.CodeImage("question", p)
	if err != nil {
		return ledger.Code{}, err
	}
	return ledger.Code{
		Name:  "question",
		Image: image,
		New:   func() ledger.Contract { return &Question{policy: p} },
	}, nil
}

func (q *Question) IsClosed() bool {
	return q.Status.Closed()
}

// IsRejected is true for rejected and expired questions.
func (q *Question) IsRejected() bool {
	return q.Status == StatusRejected || q.Status == StatusExpired
}

// Escrow is what the question holds while open.
func (q *Question) Escrow() ledger.Amount {
	return q.MinPrice + q.Fee + q.policy.QuestionReserve
}
