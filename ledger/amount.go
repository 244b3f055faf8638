package ledger

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Amount is a value in nano-units.
type Amount uint64

const (
	Nano Amount = 1
	Coin Amount = 1_000_000_000
)

// Coins converts a decimal coin value to nano-units, rounding to the nearest unit.
func Coins(v float64) Amount {
	if v <= 0 {
		return 0
	}
	return Amount(math.Round(v * float64(Coin)))
}

// ParseAmount reads a decimal coin string such as "10.5".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 9 {
		return 0, errors.Errorf("amount %q has more than 9 decimals", s)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", s)
	}
	var f uint64
	if frac != "" {
		f, err = strconv.ParseUint(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid amount %q", s)
		}
	}
	if w > (math.MaxUint64-f)/uint64(Coin) {
		return 0, errors.Errorf("amount %q overflows", s)
	}
	return Amount(w*uint64(Coin) + f), nil
}

func (a Amount) String() string {
	whole := uint64(a / Coin)
	frac := uint64(a % Coin)
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%09d", whole, frac), "0")
}

func (a Amount) Float() float64 {
	return float64(a) / float64(Coin)
}

// Minus subtracts b, stopping at zero.
func (a Amount) Minus(b Amount) Amount {
	if b >= a {
		return 0
	}
	return a - b
}

// MulDiv computes a*num/den truncated, without intermediate overflow.
func (a Amount) MulDiv(num, den uint64) Amount {
	if den == 0 {
		return 0
	}
	r := new(big.Int).SetUint64(uint64(a))
	r.Mul(r, new(big.Int).SetUint64(num))
	r.Quo(r, new(big.Int).SetUint64(den))
	if !r.IsUint64() {
		return Amount(math.MaxUint64)
	}
	return Amount(r.Uint64())
}
