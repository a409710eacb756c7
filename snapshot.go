package performance

import (
	"fmt"
	"time"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// MaxRange is the key of the whole window in Position.NetPerformanceWithCurrencyEffectMap.
const MaxRange = "max"

// Position is the exposed state of one asset at the end of the window.
//
// Amounts are in the asset currency unless suffixed by InBaseCurrency or
// WithCurrencyEffect. Null fields are not available because a required
// price is missing.
type Position struct {
	Asset    AssetID `json:"asset"`
	Currency string  `json:"currency"`

	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`

	Investment                               decimal.NullDecimal `json:"investment"`
	InvestmentWithCurrencyEffect             decimal.NullDecimal `json:"investmentWithCurrencyEffect"`
	TimeWeightedInvestment                   decimal.NullDecimal `json:"timeWeightedInvestment"`
	TimeWeightedInvestmentWithCurrencyEffect decimal.NullDecimal `json:"timeWeightedInvestmentWithCurrencyEffect"`

	Fee                     decimal.Decimal `json:"fee"`
	FeeInBaseCurrency       decimal.Decimal `json:"feeInBaseCurrency"`
	Dividend                decimal.Decimal `json:"dividend"`
	DividendInBaseCurrency  decimal.Decimal `json:"dividendInBaseCurrency"`
	InterestInBaseCurrency  decimal.Decimal `json:"interestInBaseCurrency"`
	LiabilityInBaseCurrency decimal.Decimal `json:"liabilityInBaseCurrency"`

	ValueInBaseCurrency decimal.NullDecimal `json:"valueInBaseCurrency"`

	GrossPerformance                             decimal.NullDecimal `json:"grossPerformance"`
	GrossPerformanceWithCurrencyEffect           decimal.NullDecimal `json:"grossPerformanceWithCurrencyEffect"`
	GrossPerformancePercentage                   decimal.NullDecimal `json:"grossPerformancePercentage"`
	GrossPerformancePercentageWithCurrencyEffect decimal.NullDecimal `json:"grossPerformancePercentageWithCurrencyEffect"`
	NetPerformance                               decimal.NullDecimal `json:"netPerformance"`
	NetPerformanceWithCurrencyEffect             decimal.NullDecimal `json:"netPerformanceWithCurrencyEffect"`
	NetPerformancePercentage                     decimal.NullDecimal `json:"netPerformancePercentage"`
	NetPerformancePercentageWithCurrencyEffect   decimal.NullDecimal `json:"netPerformancePercentageWithCurrencyEffect"`

	NetPerformanceWithCurrencyEffectMap map[string]decimal.Decimal `json:"netPerformanceWithCurrencyEffectMap,omitempty"`

	// display only, never used in calculations.
	MarketPrice               float64 `json:"marketPrice"`
	MarketPriceInBaseCurrency float64 `json:"marketPriceInBaseCurrency"`

	FirstBuyDate       date.Date `json:"firstBuyDate"`
	TransactionCount   int       `json:"transactionCount"`
	Tags               []string  `json:"tags,omitempty"`
	HasErrors          bool      `json:"hasErrors"`
	InconsistentLedger bool      `json:"inconsistentLedger,omitempty"`
	MissingRate        bool      `json:"missingExchangeRate,omitempty"`
}

// ErrorKind classifies a per asset defect.
type ErrorKind string

const (
	// ErrMissingPrice means a required window boundary price is missing.
	ErrMissingPrice ErrorKind = "MISSING_PRICE"
	// ErrInconsistentLedger means more units were sold than held at some point.
	ErrInconsistentLedger ErrorKind = "INCONSISTENT_LEDGER"
	// ErrMissingExchangeRate means amounts were converted at 1 for lack of an
	// exchange rate, the earliest such day is the date.
	ErrMissingExchangeRate ErrorKind = "MISSING_EXCHANGE_RATE"
)

// SymbolError reports a defect on one asset.
type SymbolError struct {
	Asset AssetID   `json:"asset"`
	Kind  ErrorKind `json:"kind"`
	Date  date.Date `json:"date,omitzero"`
}

func (e SymbolError) Error() string {
	switch e.Kind {
	case ErrMissingPrice:
		return fmt.Sprintf("%s: missing price on %s", e.Asset, e.Date)
	case ErrMissingExchangeRate:
		return fmt.Sprintf("%s: missing exchange rate on %s, converted at 1", e.Asset, e.Date)
	default:
		return fmt.Sprintf("%s: %s", e.Asset, e.Kind)
	}
}

// HistoricalDataItem is the portfolio state at the end of a day.
type HistoricalDataItem struct {
	Date                                         date.Date       `json:"date"`
	NetPerformance                               decimal.Decimal `json:"netPerformance"`
	NetPerformanceInPercentage                   decimal.Decimal `json:"netPerformanceInPercentage"`
	NetPerformanceInPercentageWithCurrencyEffect decimal.Decimal `json:"netPerformanceInPercentageWithCurrencyEffect"`
	NetPerformanceWithCurrencyEffect             decimal.Decimal `json:"netPerformanceWithCurrencyEffect"`
	TotalInvestment                              decimal.Decimal `json:"totalInvestment"`
	TotalInvestmentValueWithCurrencyEffect       decimal.Decimal `json:"totalInvestmentValueWithCurrencyEffect"`
	Value                                        decimal.Decimal `json:"value"`
	ValueWithCurrencyEffect                      decimal.Decimal `json:"valueWithCurrencyEffect"`
}

// PortfolioSnapshot is the aggregated performance of a portfolio over a window.
//
// Amounts are in BaseCurrency, except TotalInvestment, GrossPerformance and
// NetPerformance which sum the positions' own currency figures.
type PortfolioSnapshot struct {
	CreatedAt       time.Time
	CalculationType CalculationType
	BaseCurrency    string
	Window          date.Range

	CurrentValueInBaseCurrency decimal.Decimal

	TotalInvestment                               decimal.Decimal
	TotalInvestmentWithCurrencyEffect             decimal.Decimal
	TotalTimeWeightedInvestment                   decimal.Decimal
	TotalTimeWeightedInvestmentWithCurrencyEffect decimal.Decimal

	TotalFeesWithCurrencyEffect        decimal.Decimal
	TotalDividendWithCurrencyEffect    decimal.Decimal
	TotalInterestWithCurrencyEffect    decimal.Decimal
	TotalLiabilitiesWithCurrencyEffect decimal.Decimal

	GrossPerformance                   decimal.Decimal
	GrossPerformanceWithCurrencyEffect decimal.Decimal
	NetPerformance                     decimal.Decimal
	NetPerformanceWithCurrencyEffect   decimal.Decimal

	NetPerformancePercentage                   decimal.Decimal
	NetPerformancePercentageWithCurrencyEffect decimal.Decimal

	HasErrors bool
	Errors    []SymbolError
	Warnings  []SymbolError

	Positions      []Position
	HistoricalData []HistoricalDataItem

	ActivitiesCount int
}

// Position returns the position of an asset.
func (s *PortfolioSnapshot) Position(id AssetID) (Position, bool) {
	for _, p := range s.Positions {
		if p.Asset == id {
			return p, true
		}
	}
	return Position{}, false
}

// Historical returns the historical item of a given day.
func (s *PortfolioSnapshot) Historical(on date.Date) (HistoricalDataItem, bool) {
	for _, h := range s.HistoricalData {
		if h.Date == on {
			return h, true
		}
	}
	return HistoricalDataItem{}, false
}
