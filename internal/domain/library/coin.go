package library

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks domain validation failures.
var ErrInvalid = errors.New("invalid")

// MinCoinYear is the first year euro coins were minted.
const MinCoinYear = 1999

type Coin struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	Year         int       `gorm:"not null;column:year" json:"year"`
	Value        CoinValue `gorm:"not null;column:value" json:"value"`
	Country      Country   `gorm:"not null;column:mint_country" json:"country"`
	Mint         Mint      `gorm:"column:mint" json:"mint,omitempty"`
	Description  string    `gorm:"column:description" json:"description"`
	CollectionID string    `gorm:"not null;index;column:collection_id" json:"collectionId"`
}

func (Coin) TableName() string { return "coins" }

// CoinSpec carries the user supplied attributes of a coin.
type CoinSpec struct {
	Year         int
	Value        int
	Country      string
	Mint         string
	Description  string
	CollectionID string
}

// NewCoin validates spec and builds a coin with a deterministic id and, when
// none is given, a generated German description.
func NewCoin(spec CoinSpec) (*Coin, error) {
	value, err := ParseCoinValue(spec.Value)
	if err != nil {
		return nil, err
	}
	country, err := ParseCountry(spec.Country)
	if err != nil {
		return nil, err
	}
	c := &Coin{
		Year:         spec.Year,
		Value:        value,
		Country:      country,
		Mint:         ParseMint(spec.Mint),
		Description:  strings.TrimSpace(spec.Description),
		CollectionID: strings.TrimSpace(spec.CollectionID),
	}
	if country != Germany {
		c.Mint = MintNone
	}
	c.ID = CoinID(c.CollectionID, c.Country, c.Value, c.Year, c.Mint)
	if c.Description == "" {
		c.Description = DefaultDescription(c.Value, c.Year, c.Country, c.Mint)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// CoinID derives the id of a coin from its attributes, scoped to its
// collection: "<collectionId>:<COUNTRY>_<VALUE>_<YEAR>_<MINT>".
func CoinID(collectionID string, country Country, value CoinValue, year int, mint Mint) string {
	mark := mint.Mark()
	if mark == "" {
		mark = "NONE"
	}
	return fmt.Sprintf("%s:%s_%s_%d_%s", collectionID, country.Name(), value.Name(), year, mark)
}

// DefaultDescription renders the German description of a coin.
func DefaultDescription(value CoinValue, year int, country Country, mint Mint) string {
	mintText := ""
	if !mint.IsZero() {
		mintText = " aus der Prägestätte " + mint.Mark()
	}
	return fmt.Sprintf("%s Münze aus %s aus dem Jahr %d%s", value.Label(), country.DisplayName(), year, mintText)
}

func (c *Coin) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: coin is nil", ErrInvalid)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: coin id is blank", ErrInvalid)
	}
	if c.Year < MinCoinYear {
		return fmt.Errorf("%w: year %d is before %d", ErrInvalid, c.Year, MinCoinYear)
	}
	if !c.Value.Valid() {
		return fmt.Errorf("%w: unknown coin value %d", ErrInvalid, int(c.Value))
	}
	if !c.Country.Valid() {
		return fmt.Errorf("%w: unknown country %q", ErrInvalid, string(c.Country))
	}
	if c.Country == Germany && c.Mint.IsZero() {
		return fmt.Errorf("%w: german coins require a mint", ErrInvalid)
	}
	if strings.TrimSpace(c.CollectionID) == "" {
		return fmt.Errorf("%w: coin %s has no collection", ErrInvalid, c.ID)
	}
	return nil
}
