// Package fx converts amounts between a home currency and fixed-rate reference currencies.
package fx

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"property-financing/internal/model"
)

// ErrUnknownCurrency is returned when a conversion names a currency without a rate.
var ErrUnknownCurrency = errors.New("unknown currency")

// Rates maps a currency code to home-currency units per 1 unit of that currency.
type Rates map[string]float64

// Converter converts between the home currency and any currency in Rates.
// Conversions between two non-home currencies compose through the home currency.
type Converter struct {
	home  string
	rates map[string]float64
}

// NewConverter builds a converter; every rate is floored at model.MinFXRate.
func NewConverter(home string, rates Rates) *Converter {
	home = normalize(home)
	c := &Converter{home: home, rates: make(map[string]float64, len(rates)+1)}
	for cur, r := range rates {
		c.rates[normalize(cur)] = math.Max(model.MinFXRate, model.Num(r))
	}
	c.rates[home] = 1
	return c
}

// Home returns the home currency code.
func (c *Converter) Home() string { return c.home }

// Currencies returns all known currency codes, home first, then alphabetical.
func (c *Converter) Currencies() []string {
	out := make([]string, 0, len(c.rates))
	for cur := range c.rates {
		if cur != c.home {
			out = append(out, cur)
		}
	}
	sort.Strings(out)
	return append([]string{c.home}, out...)
}

// Rate returns home units per 1 unit of cur.
func (c *Converter) Rate(cur string) (float64, error) {
	r, ok := c.rates[normalize(cur)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, cur)
	}
	return r, nil
}

// ToHome converts amount denominated in cur into the home currency.
func (c *Converter) ToHome(amount float64, cur string) (float64, error) {
	r, err := c.Rate(cur)
	if err != nil {
		return 0, err
	}
	return model.Num(amount) * r, nil
}

// FromHome converts a home-currency amount into cur.
func (c *Converter) FromHome(amount float64, cur string) (float64, error) {
	r, err := c.Rate(cur)
	if err != nil {
		return 0, err
	}
	return model.Num(amount) / r, nil
}

// Convert converts amount from one currency to another through the home currency.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	home, err := c.ToHome(amount, from)
	if err != nil {
		return 0, err
	}
	return c.FromHome(home, to)
}

// Pair is a fixed home/reference rate used by the engine. Its methods cannot fail.
type Pair struct {
	Rate float64 // home units per 1 reference unit
}

// NewPair floors rate at model.MinFXRate.
func NewPair(rate float64) Pair {
	return Pair{Rate: math.Max(model.MinFXRate, model.Num(rate))}
}

// ToRef converts a home-currency amount into the reference currency.
func (p Pair) ToRef(home float64) float64 { return model.Num(home) / p.rate() }

// ToHome converts a reference-currency amount into the home currency.
func (p Pair) ToHome(ref float64) float64 { return model.Num(ref) * p.rate() }

func (p Pair) rate() float64 {
	// Pair{} literals bypass NewPair.
	return math.Max(model.MinFXRate, p.Rate)
}

func normalize(cur string) string {
	return strings.ToUpper(strings.TrimSpace(cur))
}
