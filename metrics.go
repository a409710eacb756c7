package performance

import (
	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// SymbolMetrics is the replay result for one asset over a window.
//
// Amounts without suffix are in the asset currency, the ones suffixed by
// InBaseCurrency or WithCurrencyEffect are in the base currency.
type SymbolMetrics struct {
	Asset    AssetID
	Currency string

	HasErrors          bool
	MissingPrice       date.Date // boundary without a price when HasErrors
	InconsistentLedger bool
	MissingRate        date.Date // earliest day converted without an exchange rate

	StartPrice             Money
	EndPrice               Money
	EndPriceInBaseCurrency Money // at the live rate

	CurrentValue               Money
	CurrentValueInBaseCurrency Money

	InitialValue               Money
	InitialValueInBaseCurrency Money

	TotalInvestment                   Money
	TotalInvestmentWithCurrencyEffect Money

	TimeWeightedInvestment                   Money
	TimeWeightedInvestmentWithCurrencyEffect Money

	Fees               Money
	FeesInBaseCurrency Money

	Dividend               Money
	DividendInBaseCurrency Money

	Interest               Money
	InterestInBaseCurrency Money

	Liabilities               Money
	LiabilitiesInBaseCurrency Money

	GrossPerformance                   Money
	GrossPerformanceWithCurrencyEffect Money
	NetPerformance                     Money
	NetPerformanceWithCurrencyEffect   Money

	GrossPerformancePercentage                   Ratio
	GrossPerformancePercentageWithCurrencyEffect Ratio
	NetPerformancePercentage                     Ratio
	NetPerformancePercentageWithCurrencyEffect   Ratio

	TotalUnits       Quantity
	AveragePrice     Money
	FirstBuyDate     date.Date
	TransactionCount int
	Tags             []string

	Series date.History[SeriesPoint]
}

// SeriesPoint is the state of one asset at the end of a day.
type SeriesPoint struct {
	Value                   Money
	ValueWithCurrencyEffect Money

	Investment                   Money
	InvestmentWithCurrencyEffect Money

	TimeWeightedInvestment                   Money
	TimeWeightedInvestmentWithCurrencyEffect Money

	NetPerformance                   Money
	NetPerformanceWithCurrencyEffect Money
}

// accumulator groups the running totals of a replay.
//
// Its zero value is the additive identity.
type accumulator struct {
	units decimal.Decimal

	investment, investmentBase decimal.Decimal

	// Σc·t over trade contributions c, where t is the day offset of the
	// contribution from the window start (0 for earlier ones).
	contribDays, contribDaysBase decimal.Decimal

	fees, feesBase             decimal.Decimal
	dividend, dividendBase     decimal.Decimal
	interest, interestBase     decimal.Decimal
	liabilities, liabilityBase decimal.Decimal

	buyValue, buyUnits decimal.Decimal

	initial, initialBase decimal.Decimal

	firstBuy     date.Date
	transactions int
	negative     bool
}

// emptyMetrics returns the additive identity for an asset.
func emptyMetrics(id AssetID, currency, base string) SymbolMetrics {
	var acc accumulator
	return acc.metrics(id, currency, base)
}

// metrics builds the monetary fields of a SymbolMetrics from the accumulator.
// Performance fields are left to the caller.
func (a *accumulator) metrics(id AssetID, currency, base string) SymbolMetrics {
	asset := func(d decimal.Decimal) Money { return M(d, currency) }
	baseM := func(d decimal.Decimal) Money { return M(d, base) }
	m := SymbolMetrics{
		Asset:                                    id,
		Currency:                                 currency,
		InconsistentLedger:                       a.negative,
		StartPrice:                               asset(decimal.Zero),
		EndPrice:                                 asset(decimal.Zero),
		EndPriceInBaseCurrency:                   baseM(decimal.Zero),
		CurrentValue:                             asset(decimal.Zero),
		CurrentValueInBaseCurrency:               baseM(decimal.Zero),
		InitialValue:                             asset(a.initial),
		InitialValueInBaseCurrency:               baseM(a.initialBase),
		TotalInvestment:                          asset(a.investment),
		TotalInvestmentWithCurrencyEffect:        baseM(a.investmentBase),
		TimeWeightedInvestment:                   asset(a.investment),
		TimeWeightedInvestmentWithCurrencyEffect: baseM(a.investmentBase),
		Fees:                                     asset(a.fees),
		FeesInBaseCurrency:                       baseM(a.feesBase),
		Dividend:                                 asset(a.dividend),
		DividendInBaseCurrency:                   baseM(a.dividendBase),
		Interest:                                 asset(a.interest),
		InterestInBaseCurrency:                   baseM(a.interestBase),
		Liabilities:                              asset(a.liabilities),
		LiabilitiesInBaseCurrency:                baseM(a.liabilityBase),
		GrossPerformance:                         asset(decimal.Zero),
		GrossPerformanceWithCurrencyEffect:       baseM(decimal.Zero),
		NetPerformance:                           asset(decimal.Zero),
		NetPerformanceWithCurrencyEffect:         baseM(decimal.Zero),
		TotalUnits:                               Quantity{a.units},
		AveragePrice:                             asset(ratioOf(a.buyValue, a.buyUnits).Decimal()),
		FirstBuyDate:                             a.firstBuy,
		TransactionCount:                         a.transactions,
	}
	return m
}

// zeroed returns the result of a symbol whose required boundary price is missing.
func zeroed(id AssetID, currency, base string, missing date.Date) SymbolMetrics {
	m := emptyMetrics(id, currency, base)
	m.HasErrors = true
	m.MissingPrice = missing
	return m
}
