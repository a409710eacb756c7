package renderer

import (
	"time"

	"github.com/etnz/performance"
	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// Snapshot is the data of a snapshot report.
// Decimals are kept exact, templates format them.
type Snapshot struct {
	CreatedAt       time.Time `json:"createdAt"`
	CalculationType string    `json:"calculationType"`
	BaseCurrency    string    `json:"baseCurrency"`
	Window          string    `json:"window"`

	Value              decimal.Decimal `json:"value"`
	Investment         decimal.Decimal `json:"investment"`
	TimeWeighted       decimal.Decimal `json:"timeWeighted"`
	Fees               decimal.Decimal `json:"fees"`
	Dividend           decimal.Decimal `json:"dividend"`
	Interest           decimal.Decimal `json:"interest"`
	Liabilities        decimal.Decimal `json:"liabilities"`
	GrossPerformance   decimal.Decimal `json:"grossPerformance"`
	NetPerformance     decimal.Decimal `json:"netPerformance"`
	NetPerformanceRate decimal.Decimal `json:"netPerformanceRate"`

	HasErrors bool     `json:"hasErrors"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`

	Positions []SnapshotPosition `json:"positions"`
	History   []SnapshotDay      `json:"history"`
}

// SnapshotPosition is a row of the positions table.
type SnapshotPosition struct {
	Symbol         string              `json:"symbol"`
	DataSource     string              `json:"dataSource"`
	Currency       string              `json:"currency"`
	Quantity       decimal.Decimal     `json:"quantity"`
	Value          decimal.NullDecimal `json:"value"`
	Investment     decimal.NullDecimal `json:"investment"`
	NetPerformance decimal.NullDecimal `json:"netPerformance"`
	Rate           decimal.NullDecimal `json:"rate"`
	HasErrors      bool                `json:"hasErrors"`
}

// SnapshotDay is a row of the history table.
type SnapshotDay struct {
	Date           date.Date       `json:"date"`
	Value          decimal.Decimal `json:"value"`
	Investment     decimal.Decimal `json:"investment"`
	NetPerformance decimal.Decimal `json:"netPerformance"`
	Rate           decimal.Decimal `json:"rate"`
}

// NewSnapshot creates the report data of a snapshot, amounts with currency
// effect, in the base currency.
func NewSnapshot(s *performance.PortfolioSnapshot) *Snapshot {
	r := &Snapshot{
		CreatedAt:          s.CreatedAt,
		CalculationType:    string(s.CalculationType),
		BaseCurrency:       s.BaseCurrency,
		Window:             s.Window.String(),
		Value:              s.CurrentValueInBaseCurrency,
		Investment:         s.TotalInvestmentWithCurrencyEffect,
		TimeWeighted:       s.TotalTimeWeightedInvestmentWithCurrencyEffect,
		Fees:               s.TotalFeesWithCurrencyEffect,
		Dividend:           s.TotalDividendWithCurrencyEffect,
		Interest:           s.TotalInterestWithCurrencyEffect,
		Liabilities:        s.TotalLiabilitiesWithCurrencyEffect,
		GrossPerformance:   s.GrossPerformanceWithCurrencyEffect,
		NetPerformance:     s.NetPerformanceWithCurrencyEffect,
		NetPerformanceRate: s.NetPerformancePercentageWithCurrencyEffect,
		HasErrors:          s.HasErrors,
		Positions:          make([]SnapshotPosition, 0, len(s.Positions)),
		History:            make([]SnapshotDay, 0, len(s.HistoricalData)),
	}
	if _, ok := s.Window.Period(); ok {
		r.Window = s.Window.Identifier() + " (" + s.Window.Name() + ")"
	}
	for _, e := range s.Errors {
		r.Errors = append(r.Errors, e.Error())
	}
	for _, w := range s.Warnings {
		r.Warnings = append(r.Warnings, w.Error())
	}
	for _, p := range s.Positions {
		r.Positions = append(r.Positions, SnapshotPosition{
			Symbol:         p.Asset.Symbol,
			DataSource:     string(p.Asset.DataSource),
			Currency:       p.Currency,
			Quantity:       p.Quantity,
			Value:          p.ValueInBaseCurrency,
			Investment:     p.InvestmentWithCurrencyEffect,
			NetPerformance: p.NetPerformanceWithCurrencyEffect,
			Rate:           p.NetPerformancePercentageWithCurrencyEffect,
			HasErrors:      p.HasErrors,
		})
	}
	for _, h := range s.HistoricalData {
		r.History = append(r.History, SnapshotDay{
			Date:           h.Date,
			Value:          h.ValueWithCurrencyEffect,
			Investment:     h.TotalInvestmentValueWithCurrencyEffect,
			NetPerformance: h.NetPerformanceWithCurrencyEffect,
			Rate:           h.NetPerformanceInPercentageWithCurrencyEffect,
		})
	}
	return r
}
