package library

type Wallet struct {
	PrivateKey string
	SeedWords  string
	PublicKey  string
}

type Sha256 = string
