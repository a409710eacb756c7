package performance

import (
	"slices"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// positionOf exposes the metrics of an asset as a Position.
//
// Performance fields of a symbol with errors are null.
func positionOf(m SymbolMetrics) Position {
	valid := !m.HasErrors
	null := func(d decimal.Decimal) decimal.NullDecimal {
		if !valid {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	}
	p := Position{
		Asset:                                        m.Asset,
		Currency:                                     m.Currency,
		Quantity:                                     m.TotalUnits.Decimal(),
		AveragePrice:                                 m.AveragePrice.Decimal(),
		Investment:                                   null(m.TotalInvestment.Decimal()),
		InvestmentWithCurrencyEffect:                 null(m.TotalInvestmentWithCurrencyEffect.Decimal()),
		TimeWeightedInvestment:                       null(m.TimeWeightedInvestment.Decimal()),
		TimeWeightedInvestmentWithCurrencyEffect:     null(m.TimeWeightedInvestmentWithCurrencyEffect.Decimal()),
		Fee:                                          m.Fees.Decimal(),
		FeeInBaseCurrency:                            m.FeesInBaseCurrency.Decimal(),
		Dividend:                                     m.Dividend.Decimal(),
		DividendInBaseCurrency:                       m.DividendInBaseCurrency.Decimal(),
		InterestInBaseCurrency:                       m.InterestInBaseCurrency.Decimal(),
		LiabilityInBaseCurrency:                      m.LiabilitiesInBaseCurrency.Decimal(),
		ValueInBaseCurrency:                          null(m.CurrentValueInBaseCurrency.Decimal()),
		GrossPerformance:                             null(m.GrossPerformance.Decimal()),
		GrossPerformanceWithCurrencyEffect:           null(m.GrossPerformanceWithCurrencyEffect.Decimal()),
		GrossPerformancePercentage:                   null(m.GrossPerformancePercentage.Decimal()),
		GrossPerformancePercentageWithCurrencyEffect: null(m.GrossPerformancePercentageWithCurrencyEffect.Decimal()),
		NetPerformance:                               null(m.NetPerformance.Decimal()),
		NetPerformanceWithCurrencyEffect:             null(m.NetPerformanceWithCurrencyEffect.Decimal()),
		NetPerformancePercentage:                     null(m.NetPerformancePercentage.Decimal()),
		NetPerformancePercentageWithCurrencyEffect:   null(m.NetPerformancePercentageWithCurrencyEffect.Decimal()),
		FirstBuyDate:                                 m.FirstBuyDate,
		TransactionCount:                             m.TransactionCount,
		Tags:                                         slices.Clone(m.Tags),
		HasErrors:                                    m.HasErrors,
		InconsistentLedger:                           m.InconsistentLedger,
		MissingRate:                                  !m.MissingRate.IsZero(),
	}
	if valid {
		p.NetPerformanceWithCurrencyEffectMap = map[string]decimal.Decimal{
			MaxRange: m.NetPerformanceWithCurrencyEffect.Decimal(),
		}
		p.MarketPrice = m.EndPrice.AsFloat()
		p.MarketPriceInBaseCurrency = m.EndPriceInBaseCurrency.AsFloat()
	}
	return p
}

// aggregatePositions sums positions field by field.
//
// A field missing on a position still holding units sets HasErrors, the other
// positions keep contributing to that field.
func aggregatePositions(t CalculationType, positions []Position) PortfolioSnapshot {
	s := PortfolioSnapshot{CalculationType: t, Positions: positions}
	var tw, twBase decimal.Decimal
	for _, p := range positions {
		held := !p.Quantity.IsZero()
		s.HasErrors = s.HasErrors || p.HasErrors

		s.TotalFeesWithCurrencyEffect = s.TotalFeesWithCurrencyEffect.Add(p.FeeInBaseCurrency)
		s.TotalDividendWithCurrencyEffect = s.TotalDividendWithCurrencyEffect.Add(p.DividendInBaseCurrency)
		s.TotalInterestWithCurrencyEffect = s.TotalInterestWithCurrencyEffect.Add(p.InterestInBaseCurrency)
		s.TotalLiabilitiesWithCurrencyEffect = s.TotalLiabilitiesWithCurrencyEffect.Add(p.LiabilityInBaseCurrency)

		if p.ValueInBaseCurrency.Valid {
			s.CurrentValueInBaseCurrency = s.CurrentValueInBaseCurrency.Add(p.ValueInBaseCurrency.Decimal)
		} else if held {
			s.HasErrors = true
		}

		if p.Investment.Valid {
			s.TotalInvestment = s.TotalInvestment.Add(p.Investment.Decimal)
			s.TotalInvestmentWithCurrencyEffect = s.TotalInvestmentWithCurrencyEffect.Add(p.InvestmentWithCurrencyEffect.Decimal)
			tw = tw.Add(p.TimeWeightedInvestment.Decimal)
			twBase = twBase.Add(p.TimeWeightedInvestmentWithCurrencyEffect.Decimal)
		} else if held {
			s.HasErrors = true
		}

		if p.GrossPerformance.Valid {
			s.GrossPerformance = s.GrossPerformance.Add(p.GrossPerformance.Decimal)
			s.GrossPerformanceWithCurrencyEffect = s.GrossPerformanceWithCurrencyEffect.Add(p.GrossPerformanceWithCurrencyEffect.Decimal)
			s.NetPerformance = s.NetPerformance.Add(p.NetPerformance.Decimal)
			s.NetPerformanceWithCurrencyEffect = s.NetPerformanceWithCurrencyEffect.Add(p.NetPerformanceWithCurrencyEffect.Decimal)
		} else if held {
			s.HasErrors = true
		}
	}
	s.TotalTimeWeightedInvestment = tw
	s.TotalTimeWeightedInvestmentWithCurrencyEffect = twBase
	s.NetPerformancePercentage = ratioOf(s.NetPerformance, tw).Decimal()
	s.NetPerformancePercentageWithCurrencyEffect = ratioOf(s.NetPerformanceWithCurrencyEffect, twBase).Decimal()
	return s
}

// aggregate reduces all symbols' metrics into a snapshot.
func aggregate(strategy Strategy, metrics []SymbolMetrics) PortfolioSnapshot {
	metrics = slices.Clone(metrics)
	slices.SortStableFunc(metrics, func(a, b SymbolMetrics) int { return a.Asset.Compare(b.Asset) })

	positions := make([]Position, 0, len(metrics))
	for _, m := range metrics {
		positions = append(positions, positionOf(m))
	}
	s := strategy.AggregateOverallPerformance(positions)

	for _, m := range metrics {
		if m.HasErrors {
			s.HasErrors = true
			s.Errors = append(s.Errors, SymbolError{Asset: m.Asset, Kind: ErrMissingPrice, Date: m.MissingPrice})
		}
		if m.InconsistentLedger {
			s.Warnings = append(s.Warnings, SymbolError{Asset: m.Asset, Kind: ErrInconsistentLedger})
		}
		if !m.MissingRate.IsZero() {
			s.Warnings = append(s.Warnings, SymbolError{Asset: m.Asset, Kind: ErrMissingExchangeRate, Date: m.MissingRate})
		}
	}
	s.HistoricalData = historicalData(metrics)
	return s
}

// historicalData sums the series of all symbols on the union of their dates.
//
// A symbol without a point on a date contributes its latest earlier point.
func historicalData(metrics []SymbolMetrics) []HistoricalDataItem {
	series := make([]*date.History[SeriesPoint], len(metrics))
	for i := range metrics {
		series[i] = &metrics[i].Series
	}
	var items []HistoricalDataItem
	for on := range date.Iterate(series...) {
		item := HistoricalDataItem{Date: on}
		var tw, twBase decimal.Decimal
		for _, h := range series {
			p, ok := h.ValueAsOf(on)
			if !ok {
				continue
			}
			item.NetPerformance = item.NetPerformance.Add(p.NetPerformance.Decimal())
			item.NetPerformanceWithCurrencyEffect = item.NetPerformanceWithCurrencyEffect.Add(p.NetPerformanceWithCurrencyEffect.Decimal())
			item.TotalInvestment = item.TotalInvestment.Add(p.Investment.Decimal())
			item.TotalInvestmentValueWithCurrencyEffect = item.TotalInvestmentValueWithCurrencyEffect.Add(p.InvestmentWithCurrencyEffect.Decimal())
			item.Value = item.Value.Add(p.Value.Decimal())
			item.ValueWithCurrencyEffect = item.ValueWithCurrencyEffect.Add(p.ValueWithCurrencyEffect.Decimal())
			tw = tw.Add(p.TimeWeightedInvestment.Decimal())
			twBase = twBase.Add(p.TimeWeightedInvestmentWithCurrencyEffect.Decimal())
		}
		item.NetPerformanceInPercentage = ratioOf(item.NetPerformance, tw).Decimal()
		item.NetPerformanceInPercentageWithCurrencyEffect = ratioOf(item.NetPerformanceWithCurrencyEffect, twBase).Decimal()
		items = append(items, item)
	}
	return items
}
