package ledger

// CodeImage is the opaque code an actor runs. Its bytes feed address derivation.
type CodeImage []byte

// Contract is the behavior behind a code image. The ledger decodes the actor's
// data into a fresh Contract, calls Receive, and encodes it back only on success.
type Contract interface {
	Receive(ctx *Context, msg Message) error
}

type Code struct {
	Name  string
	Image CodeImage
	New   func() Contract
}

func (c Code) key() string {
	return string(c.Image)
}
