package library

import (
	"fmt"
	"strings"
)

// Country is the ISO 3166-1 alpha-2 code of a euro issuing country.
type Country string

const (
	Austria     Country = "AT"
	Belgium     Country = "BE"
	Cyprus      Country = "CY"
	Germany     Country = "DE"
	Estonia     Country = "EE"
	Spain       Country = "ES"
	Finland     Country = "FI"
	France      Country = "FR"
	Greece      Country = "GR"
	Ireland     Country = "IE"
	Italy       Country = "IT"
	Lithuania   Country = "LT"
	Luxembourg  Country = "LU"
	Latvia      Country = "LV"
	Malta       Country = "MT"
	Netherlands Country = "NL"
	Portugal    Country = "PT"
	Slovenia    Country = "SI"
	Slovakia    Country = "SK"
	SanMarino   Country = "SM"
	VaticanCity Country = "VA"
	Monaco      Country = "MC"
	Andorra     Country = "AD"
	Bulgaria    Country = "BG"
)

type countryInfo struct {
	name    string
	display string
}

var countries = map[Country]countryInfo{
	Austria:     {"AUSTRIA", "Österreich"},
	Belgium:     {"BELGIUM", "Belgien"},
	Cyprus:      {"CYPRUS", "Zypern"},
	Germany:     {"GERMANY", "Deutschland"},
	Estonia:     {"ESTONIA", "Estland"},
	Spain:       {"SPAIN", "Spanien"},
	Finland:     {"FINLAND", "Finnland"},
	France:      {"FRANCE", "Frankreich"},
	Greece:      {"GREECE", "Griechenland"},
	Ireland:     {"IRELAND", "Irland"},
	Italy:       {"ITALY", "Italien"},
	Lithuania:   {"LITHUANIA", "Litauen"},
	Luxembourg:  {"LUXEMBOURG", "Luxemburg"},
	Latvia:      {"LATVIA", "Lettland"},
	Malta:       {"MALTA", "Malta"},
	Netherlands: {"NETHERLANDS", "Niederlande"},
	Portugal:    {"PORTUGAL", "Portugal"},
	Slovenia:    {"SLOVENIA", "Slowenien"},
	Slovakia:    {"SLOVAKIA", "Slowakei"},
	SanMarino:   {"SAN_MARINO", "San Marino"},
	VaticanCity: {"VATICAN_CITY", "Vatikanstadt"},
	Monaco:      {"MONACO", "Monaco"},
	Andorra:     {"ANDORRA", "Andorra"},
	Bulgaria:    {"BULGARIA", "Bulgarien"},
}

// ParseCountry resolves an ISO code, case-insensitively.
func ParseCountry(code string) (Country, error) {
	c := Country(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown country %q", ErrInvalid, code)
	}
	return c, nil
}

// Countries lists all issuing countries.
func Countries() []Country {
	out := make([]Country, 0, len(countries))
	for c := range countries {
		out = append(out, c)
	}
	return out
}

func (c Country) Valid() bool {
	_, ok := countries[c]
	return ok
}

func (c Country) ISOCode() string { return string(c) }

// Name is the constant name, e.g. "GERMANY".
func (c Country) Name() string {
	if info, ok := countries[c]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// DisplayName is the German country name.
func (c Country) DisplayName() string {
	if info, ok := countries[c]; ok {
		return info.display
	}
	return string(c)
}
