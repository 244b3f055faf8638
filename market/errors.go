package market

import "github.com/pkg/errors"

var (
	ErrInsufficientValue = errors.New("insufficient value")
	ErrUnauthorized      = errors.New("unauthorized sender")
	ErrInvalidState      = errors.New("invalid state for operation")
	ErrNotYetExpired     = errors.New("question has not expired")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrQuestionAddrUnset = errors.New("question address not set")
)
