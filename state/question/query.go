package question

import (
	"askora/ledger"
)

// Data is everything a reader can learn about a question.
type Data struct {
	Address          ledger.Address
	Account          ledger.Address
	ID               uint32
	Submitter        ledger.Address
	SubmitterAccount ledger.Address
	Owner            ledger.Address
	MinPrice         ledger.Amount
	Fee              ledger.Amount
	Content          string
	ReplyContent     string
	Status           Status
	IsClosed         bool
	IsRejected       bool
	CreatedAt        int64
	ClosedAt         int64
	Balance          ledger.Amount
}

// Load reads the question at addr.
func Load(r ledger.Reader, addr ledger.Address) (*Question, ledger.InstanceState, error) {
	q := &Question{}
	state, err := r.Load(addr, q)
	if err != nil {
		return nil, state, err
	}
	return q, state, nil
}

func IsClosed(r ledger.Reader, addr ledger.Address) (bool, error) {
	q, _, err := Load(r, addr)
	if err != nil {
		return false, err
	}
	return q.IsClosed(), nil
}

func IsRejected(r ledger.Reader, addr ledger.Address) (bool, error) {
	q, _, err := Load(r, addr)
	if err != nil {
		return false, err
	}
	return q.IsRejected(), nil
}

func Content(r ledger.Reader, addr ledger.Address) (string, error) {
	q, _, err := Load(r, addr)
	if err != nil {
		return "", err
	}
	return q.Content, nil
}

func ReplyContent(r ledger.Reader, addr ledger.Address) (string, error) {
	q, _, err := Load(r, addr)
	if err != nil {
		return "", err
	}
	return q.ReplyContent, nil
}

func SubmitterAddr(r ledger.Reader, addr ledger.Address) (ledger.Address, error) {
	q, _, err := Load(r, addr)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return q.Submitter, nil
}

func OwnerAddr(r ledger.Reader, addr ledger.Address) (ledger.Address, error) {
	q, _, err := Load(r, addr)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	return q.Owner, nil
}

func AllData(r ledger.Reader, addr ledger.Address) (Data, error) {
	q, state, err := Load(r, addr)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Address:          addr,
		Account:          q.Account,
		ID:               q.ID,
		Submitter:        q.Submitter,
		SubmitterAccount: q.SubmitterAccount,
		Owner:            q.Owner,
		MinPrice:         q.MinPrice,
		Fee:              q.Fee,
		Content:          q.Content,
		ReplyContent:     q.ReplyContent,
		Status:           q.Status,
		IsClosed:         q.IsClosed(),
		IsRejected:       q.IsRejected(),
		CreatedAt:        q.CreatedAt,
		ClosedAt:         q.ClosedAt,
		Balance:          state.Balance,
	}, nil
}
