package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"askora/engine/library"
)

// Address identifies an actor. It is the hash of the code image and initial data that created it.
type Address [32]byte

var ZeroAddress Address

var derivationTag = []byte("askora/derive/v1")

// Derive computes the address of the actor built from code and data.
// Equal inputs always produce the same address.
func Derive(code CodeImage, data []byte) Address {
	var codeLen, dataLen [4]byte
	binary.BigEndian.PutUint32(codeLen[:], uint32(len(code)))
	binary.BigEndian.PutUint32(dataLen[:], uint32(len(data)))
	return Address(library.Sha256Parts(derivationTag, codeLen[:], code, dataLen[:], data))
}

func (a Address) String() string {
	return "0:" + hex.EncodeToString(a[:])
}

// Short is the first eight hex characters, for logs.
func (a Address) Short() string {
	return hex.EncodeToString(a[:4])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0:"))
	if err != nil {
		return a, errors.Wrapf(err, "invalid address %q", s)
	}
	if len(b) != len(a) {
		return a, errors.Errorf("invalid address %q: want %d bytes, got %d", s, len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(a[:])
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	if len(b) != len(a) {
		return errors.Errorf("address must be %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return nil
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
