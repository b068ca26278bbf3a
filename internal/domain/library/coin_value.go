package library

import (
	"fmt"
	"strings"
)

// CoinValue is the face value of a euro coin in cents.
type CoinValue int

const (
	OneCent     CoinValue = 1
	TwoCents    CoinValue = 2
	FiveCents   CoinValue = 5
	TenCents    CoinValue = 10
	TwentyCents CoinValue = 20
	FiftyCents  CoinValue = 50
	OneEuro     CoinValue = 100
	TwoEuros    CoinValue = 200
)

var coinValueNames = map[CoinValue]string{
	OneCent:     "ONE_CENT",
	TwoCents:    "TWO_CENTS",
	FiveCents:   "FIVE_CENTS",
	TenCents:    "TEN_CENTS",
	TwentyCents: "TWENTY_CENTS",
	FiftyCents:  "FIFTY_CENTS",
	OneEuro:     "ONE_EURO",
	TwoEuros:    "TWO_EUROS",
}

// CoinValues lists every valid value in ascending order.
func CoinValues() []CoinValue {
	return []CoinValue{OneCent, TwoCents, FiveCents, TenCents, TwentyCents, FiftyCents, OneEuro, TwoEuros}
}

// ParseCoinValue resolves a cent amount.
func ParseCoinValue(cents int) (CoinValue, error) {
	v := CoinValue(cents)
	if !v.Valid() {
		return 0, fmt.Errorf("%w: unknown coin value %d", ErrInvalid, cents)
	}
	return v, nil
}

// ParseCoinValueName resolves a constant name such as "ONE_EURO".
func ParseCoinValueName(name string) (CoinValue, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for v, vn := range coinValueNames {
		if vn == n {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown coin value %q", ErrInvalid, name)
}

func (v CoinValue) Valid() bool {
	_, ok := coinValueNames[v]
	return ok
}

func (v CoinValue) Cents() int { return int(v) }

// Name is the constant name used in deterministic coin ids.
func (v CoinValue) Name() string {
	if n, ok := coinValueNames[v]; ok {
		return n
	}
	return "UNKNOWN"
}

// Label is the human readable value, e.g. "50 Cent" or "2 Euro".
func (v CoinValue) Label() string {
	if !v.Valid() {
		return fmt.Sprintf("%d", int(v))
	}
	if v >= OneEuro {
		return fmt.Sprintf("%d Euro", int(v)/100)
	}
	return fmt.Sprintf("%d Cent", int(v))
}

func (v CoinValue) String() string { return v.Label() }
