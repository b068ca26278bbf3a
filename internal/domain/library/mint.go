package library

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Mint is a German mint mark. Only coins issued by Germany carry one.
type Mint string

const (
	MintNone      Mint = ""
	MintBerlin    Mint = "A"
	MintMunich    Mint = "D"
	MintStuttgart Mint = "F"
	MintKarlsruhe Mint = "G"
	MintHamburg   Mint = "J"
	MintUnknown   Mint = "UNKNOWN"
)

var mintCities = map[Mint]string{
	MintBerlin:    "Berlin",
	MintMunich:    "München",
	MintStuttgart: "Stuttgart",
	MintKarlsruhe: "Karlsruhe",
	MintHamburg:   "Hamburg",
}

// ParseMint maps a mint mark to a Mint. Blank input is MintNone, any
// unrecognized mark is MintUnknown.
func ParseMint(mark string) Mint {
	m := Mint(strings.ToUpper(strings.TrimSpace(mark)))
	if m == MintNone {
		return MintNone
	}
	if _, ok := mintCities[m]; ok {
		return m
	}
	return MintUnknown
}

func (m Mint) Mark() string { return string(m) }

func (m Mint) City() string { return mintCities[m] }

func (m Mint) IsZero() bool { return m == MintNone }

// Value stores an absent mint as NULL.
func (m Mint) Value() (driver.Value, error) {
	if m == MintNone {
		return nil, nil
	}
	return string(m), nil
}

func (m *Mint) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = MintNone
	case string:
		*m = ParseMint(v)
	case []byte:
		*m = ParseMint(string(v))
	default:
		return fmt.Errorf("mint: unsupported scan type %T", src)
	}
	return nil
}
