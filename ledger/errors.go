package ledger

import "github.com/pkg/errors"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownCode       = errors.New("unknown code image")
	ErrInitMismatch      = errors.New("state init does not derive the destination address")
	ErrNotFound          = errors.New("no contract at address")
	ErrRunaway           = errors.New("message cascade did not settle")
	ErrOutOfGas          = errors.New("balance does not cover gas")
	ErrStateVersion      = errors.New("unsupported state encoding version")
)
