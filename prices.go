package performance

import (
	"iter"
	"maps"
	"slices"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// MarketPrices holds sparse daily closing prices per asset, in the asset currency.
//
// The zero value is not usable, use NewMarketPrices.
type MarketPrices struct {
	series map[AssetID]*date.History[decimal.Decimal]
}

// NewMarketPrices returns an empty price map.
func NewMarketPrices() *MarketPrices {
	return &MarketPrices{series: make(map[AssetID]*date.History[decimal.Decimal])}
}

// Set records the price of an asset on a given day, overwriting any existing one.
func (m *MarketPrices) Set(id AssetID, on date.Date, price decimal.Decimal) *MarketPrices {
	h, ok := m.series[id]
	if !ok {
		h = new(date.History[decimal.Decimal])
		m.series[id] = h
	}
	h.Append(on, price)
	return m
}

// Get returns the price of an asset on exactly that day.
func (m *MarketPrices) Get(id AssetID, on date.Date) (decimal.Decimal, bool) {
	if m == nil {
		return decimal.Zero, false
	}
	h, ok := m.series[id]
	if !ok {
		return decimal.Zero, false
	}
	return h.Get(on)
}

// AsOf returns the price of an asset on that day, or the latest one before.
func (m *MarketPrices) AsOf(id AssetID, on date.Date) (decimal.Decimal, bool) {
	if m == nil {
		return decimal.Zero, false
	}
	h, ok := m.series[id]
	if !ok {
		return decimal.Zero, false
	}
	return h.ValueAsOf(on)
}

// Assets returns the assets that have at least one price, sorted.
func (m *MarketPrices) Assets() []AssetID {
	if m == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(m.series), AssetID.Compare)
}

// Prices iterates over the prices of an asset in chronological order.
func (m *MarketPrices) Prices(id AssetID) iter.Seq2[date.Date, decimal.Decimal] {
	if m == nil || m.series[id] == nil {
		return func(func(date.Date, decimal.Decimal) bool) {}
	}
	return m.series[id].Values()
}

// Len returns the number of (asset, day) prices.
func (m *MarketPrices) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, h := range m.series {
		n += h.Len()
	}
	return n
}
