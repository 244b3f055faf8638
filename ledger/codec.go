package ledger

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// StateVersion prefixes every encoded state and payload.
const StateVersion byte = 0x01

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// EncodeState serializes v with the deterministic encoding used for actor data and payloads.
func EncodeState(v interface{}) ([]byte, error) {
	b, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %T", v)
	}
	return append([]byte{StateVersion}, b...), nil
}

// DecodeState is the inverse of EncodeState. Empty data leaves v untouched.
func DecodeState(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] != StateVersion {
		return errors.Wrapf(ErrStateVersion, "%#x", data[0])
	}
	if err := decMode.Unmarshal(data[1:], v); err != nil {
		return errors.Wrapf(err, "decode %T", v)
	}
	return nil
}
