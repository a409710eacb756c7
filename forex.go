package performance

import (
	"maps"
	"slices"
	"strings"

	"github.com/etnz/performance/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CurrencyPair identifies an exchange rate: one unit of From is worth rate units of To.
type CurrencyPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (p CurrencyPair) String() string { return p.From + p.To }

// Inverse returns the pair in the other direction.
func (p CurrencyPair) Inverse() CurrencyPair { return CurrencyPair{From: p.To, To: p.From} }

func (p CurrencyPair) compare(q CurrencyPair) int {
	if c := strings.Compare(p.From, q.From); c != 0 {
		return c
	}
	return strings.Compare(p.To, q.To)
}

// ExchangeRates holds sparse daily exchange rates per currency pair.
type ExchangeRates struct {
	series map[CurrencyPair]*date.History[decimal.Decimal]
}

// NewExchangeRates returns an empty rate map.
func NewExchangeRates() *ExchangeRates {
	return &ExchangeRates{series: make(map[CurrencyPair]*date.History[decimal.Decimal])}
}

// Set records the rate of a pair on a given day.
func (x *ExchangeRates) Set(pair CurrencyPair, on date.Date, rate decimal.Decimal) *ExchangeRates {
	h, ok := x.series[pair]
	if !ok {
		h = new(date.History[decimal.Decimal])
		x.series[pair] = h
	}
	h.Append(on, rate)
	return x
}

// Pairs returns the known pairs, sorted.
func (x *ExchangeRates) Pairs() []CurrencyPair {
	if x == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(x.series), CurrencyPair.compare)
}

// Len returns the number of (pair, day) rates.
func (x *ExchangeRates) Len() int {
	if x == nil {
		return 0
	}
	n := 0
	for _, h := range x.series {
		n += h.Len()
	}
	return n
}

func (x *ExchangeRates) lookup(pair CurrencyPair, on date.Date, exact bool) (decimal.Decimal, bool) {
	if x == nil {
		return decimal.Zero, false
	}
	h, ok := x.series[pair]
	if !ok {
		return decimal.Zero, false
	}
	if exact {
		return h.Get(on)
	}
	return h.ValueAsOf(on)
}

// Rate returns the rate for the pair on that day.
//
// Lookup order: the exact day, the latest earlier day, then the inverse pair
// the same way. Identical currencies always convert at 1.
func (x *ExchangeRates) Rate(pair CurrencyPair, on date.Date) (decimal.Decimal, bool) {
	if pair.From == pair.To {
		return decimal.NewFromInt(1), true
	}
	if r, ok := x.lookup(pair, on, true); ok {
		return r, true
	}
	if r, ok := x.lookup(pair, on, false); ok {
		return r, true
	}
	inv := pair.Inverse()
	r, ok := x.lookup(inv, on, true)
	if !ok {
		r, ok = x.lookup(inv, on, false)
	}
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(1).DivRound(r, ratioPrecision), true
}

// converter converts amounts into the base currency.
//
// Missing rates convert at 1, the earliest day without a rate is kept in
// missing so that the result can be flagged.
type converter struct {
	rates   *ExchangeRates
	base    string
	log     zerolog.Logger
	missing date.Date
}

// convert returns amount in the base currency. Zero needs no rate.
func (c *converter) convert(amount decimal.Decimal, from string, on date.Date) decimal.Decimal {
	if amount.IsZero() {
		return amount
	}
	return amount.Mul(c.rate(from, on))
}

// rate returns the value of one unit of currency 'from' in the base currency on that day.
func (c *converter) rate(from string, on date.Date) decimal.Decimal {
	if from == "" || from == c.base {
		return decimal.NewFromInt(1)
	}
	pair := CurrencyPair{From: from, To: c.base}
	if r, ok := c.rates.Rate(pair, on); ok {
		return r
	}
	if c.missing.IsZero() || on.Before(c.missing) {
		c.missing = on
	}
	c.log.Warn().Str("pair", pair.String()).Stringer("date", on).Msg("missing exchange rate, using 1")
	return decimal.NewFromInt(1)
}
