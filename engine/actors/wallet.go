package actors

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"

	"askora/engine/library"
	"askora/ledger"
)

const walletFile = "wallet.dat"

var currentWallet library.Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the current Wallet or creates a new one if there isn't one already
func MyWallet() library.Wallet {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) == 0 {
		//try to restore wallet from disk
		if w, ok := getWalletFromDisk(); ok {
			currentWallet = w
		} else {
			library.LogCLI("Generating a new wallet, write down the seed words if you want to keep it", 4)
			w, err := NewWallet()
			if err != nil {
				library.LogCLI(err.Error(), 0)
			}
			currentWallet = w
			fmt.Printf("\n\n~NEW WALLET~\nPublic Key: %s\nSeed Words: %s\n\n", currentWallet.PublicKey, currentWallet.SeedWords)
		}
	}
	if err := persistCurrentWallet(); err != nil {
		library.LogCLI(err.Error(), 0)
	}
	return currentWallet
}

// NewWallet generates fresh nip06 seed words and the key pair they derive.
func NewWallet() (library.Wallet, error) {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		return library.Wallet{}, err
	}
	return WalletFromSeedWords(seedWords)
}

func WalletFromSeedWords(seedWords string) (library.Wallet, error) {
	seed := nip06.SeedFromWords(seedWords)
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return library.Wallet{}, err
	}
	pub, err := getPubKey(sk)
	if err != nil {
		return library.Wallet{}, err
	}
	return library.Wallet{
		PrivateKey: sk,
		SeedWords:  seedWords,
		PublicKey:  pub,
	}, nil
}

// getPubKey returns the compressed public key of privateKey, hex encoded.
func getPubKey(privateKey string) (string, error) {
	keyb, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", errors.Wrap(err, "decoding private key")
	}
	_, pubkey := btcec.PrivKeyFromBytes(keyb)
	return hex.EncodeToString(pubkey.SerializeCompressed()), nil
}

// WalletInit is the ledger wallet controlled by w.
func WalletInit(w library.Wallet) (ledger.StateInit, error) {
	pub, err := hex.DecodeString(w.PublicKey)
	if err != nil {
		return ledger.StateInit{}, errors.Wrap(err, "decoding public key")
	}
	if _, err := btcec.ParsePubKey(pub); err != nil {
		return ledger.StateInit{}, errors.Wrap(err, "parsing public key")
	}
	return ledger.WalletInit(pub)
}

func WalletAddress(w library.Wallet) (ledger.Address, error) {
	init, err := WalletInit(w)
	return init.Address(), err
}

func persistCurrentWallet() error {
	bytes, err := json.Marshal(currentWallet)
	if err != nil {
		return err
	}
	return os.WriteFile(MakeOrGetConfig().GetString("rootDir")+walletFile, bytes, 0600)
}

func getWalletFromDisk() (w library.Wallet, ok bool) {
	file, err := os.ReadFile(MakeOrGetConfig().GetString("rootDir") + walletFile)
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error getting wallet file: %s", err.Error()), 2)
		return library.Wallet{}, false
	}
	err = json.Unmarshal(file, &w)
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error parsing wallet file: %s", err.Error()), 3)
		return library.Wallet{}, false
	}
	return w, true
}
