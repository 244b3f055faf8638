package ledger

// WalletCode is the built-in code for externally controlled accounts.
// Wallets accept everything and only send through Ledger.Send.
var WalletCode = Code{
	Name:  "wallet",
	Image: CodeImage("askora/wallet/v1"),
	New:   func() Contract { return &Wallet{} },
}

type Wallet struct {
	PublicKey []byte `cbor:"public_key"`
}

func (w *Wallet) Receive(*Context, Message) error {
	return nil
}

// WalletInit is the StateInit of the wallet owned by publicKey.
func WalletInit(publicKey []byte) (StateInit, error) {
	data, err := EncodeState(&Wallet{PublicKey: publicKey})
	if err != nil {
		return StateInit{}, err
	}
	return StateInit{Code: WalletCode.Image, Data: data}, nil
}
