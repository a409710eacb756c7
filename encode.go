package performance

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// jsonSnapshot is the JSON shape of a PortfolioSnapshot, used for decoding.
type jsonSnapshot struct {
	CreatedAt       time.Time       `json:"createdAt"`
	CalculationType CalculationType `json:"calculationType"`
	BaseCurrency    string          `json:"baseCurrency"`
	WindowFrom      date.Date       `json:"windowFrom"`
	WindowTo        date.Date       `json:"windowTo"`

	CurrentValueInBaseCurrency                    decimal.Decimal `json:"currentValueInBaseCurrency"`
	TotalInvestment                               decimal.Decimal `json:"totalInvestment"`
	TotalInvestmentWithCurrencyEffect             decimal.Decimal `json:"totalInvestmentWithCurrencyEffect"`
	TotalTimeWeightedInvestment                   decimal.Decimal `json:"totalTimeWeightedInvestment"`
	TotalTimeWeightedInvestmentWithCurrencyEffect decimal.Decimal `json:"totalTimeWeightedInvestmentWithCurrencyEffect"`
	TotalFeesWithCurrencyEffect                   decimal.Decimal `json:"totalFeesWithCurrencyEffect"`
	TotalDividendWithCurrencyEffect               decimal.Decimal `json:"totalDividendWithCurrencyEffect"`
	TotalInterestWithCurrencyEffect               decimal.Decimal `json:"totalInterestWithCurrencyEffect"`
	TotalLiabilitiesWithCurrencyEffect            decimal.Decimal `json:"totalLiabilitiesWithCurrencyEffect"`
	GrossPerformance                              decimal.Decimal `json:"grossPerformance"`
	GrossPerformanceWithCurrencyEffect            decimal.Decimal `json:"grossPerformanceWithCurrencyEffect"`
	NetPerformance                                decimal.Decimal `json:"netPerformance"`
	NetPerformanceWithCurrencyEffect              decimal.Decimal `json:"netPerformanceWithCurrencyEffect"`
	NetPerformancePercentage                      decimal.Decimal `json:"netPerformancePercentage"`
	NetPerformancePercentageWithCurrencyEffect    decimal.Decimal `json:"netPerformancePercentageWithCurrencyEffect"`

	HasErrors       bool                 `json:"hasErrors"`
	Errors          []SymbolError        `json:"errors"`
	Warnings        []SymbolError        `json:"warnings"`
	Positions       []Position           `json:"positions"`
	HistoricalData  []HistoricalDataItem `json:"historicalData"`
	ActivitiesCount int                  `json:"activitiesCount"`
}

// MarshalJSON writes the snapshot with a stable field order. Decimals are
// quoted strings so that they are read back without loss.
func (s PortfolioSnapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("createdAt", s.CreatedAt).
		Append("calculationType", s.CalculationType).
		Append("baseCurrency", s.BaseCurrency).
		PrefixFrom("window", struct {
			From date.Date `json:"from"`
			To   date.Date `json:"to"`
		}{s.Window.From, s.Window.To}).
		Append("currentValueInBaseCurrency", s.CurrentValueInBaseCurrency).
		Append("totalInvestment", s.TotalInvestment).
		Append("totalInvestmentWithCurrencyEffect", s.TotalInvestmentWithCurrencyEffect).
		Append("totalTimeWeightedInvestment", s.TotalTimeWeightedInvestment).
		Append("totalTimeWeightedInvestmentWithCurrencyEffect", s.TotalTimeWeightedInvestmentWithCurrencyEffect).
		Append("totalFeesWithCurrencyEffect", s.TotalFeesWithCurrencyEffect).
		Append("totalDividendWithCurrencyEffect", s.TotalDividendWithCurrencyEffect).
		Append("totalInterestWithCurrencyEffect", s.TotalInterestWithCurrencyEffect).
		Append("totalLiabilitiesWithCurrencyEffect", s.TotalLiabilitiesWithCurrencyEffect).
		Append("grossPerformance", s.GrossPerformance).
		Append("grossPerformanceWithCurrencyEffect", s.GrossPerformanceWithCurrencyEffect).
		Append("netPerformance", s.NetPerformance).
		Append("netPerformanceWithCurrencyEffect", s.NetPerformanceWithCurrencyEffect).
		Append("netPerformancePercentage", s.NetPerformancePercentage).
		Append("netPerformancePercentageWithCurrencyEffect", s.NetPerformancePercentageWithCurrencyEffect).
		Append("hasErrors", s.HasErrors).
		Append("errors", nonNil(s.Errors)).
		Optional("warnings", s.Warnings).
		Append("positions", nonNil(s.Positions)).
		Append("historicalData", nonNil(s.HistoricalData)).
		Append("activitiesCount", s.ActivitiesCount)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a snapshot written by MarshalJSON.
func (s *PortfolioSnapshot) UnmarshalJSON(data []byte) error {
	var j jsonSnapshot
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*s = PortfolioSnapshot{
		CreatedAt:                                     j.CreatedAt,
		CalculationType:                               j.CalculationType,
		BaseCurrency:                                  j.BaseCurrency,
		Window:                                        date.Range{From: j.WindowFrom, To: j.WindowTo},
		CurrentValueInBaseCurrency:                    j.CurrentValueInBaseCurrency,
		TotalInvestment:                               j.TotalInvestment,
		TotalInvestmentWithCurrencyEffect:             j.TotalInvestmentWithCurrencyEffect,
		TotalTimeWeightedInvestment:                   j.TotalTimeWeightedInvestment,
		TotalTimeWeightedInvestmentWithCurrencyEffect: j.TotalTimeWeightedInvestmentWithCurrencyEffect,
		TotalFeesWithCurrencyEffect:                   j.TotalFeesWithCurrencyEffect,
		TotalDividendWithCurrencyEffect:               j.TotalDividendWithCurrencyEffect,
		TotalInterestWithCurrencyEffect:               j.TotalInterestWithCurrencyEffect,
		TotalLiabilitiesWithCurrencyEffect:            j.TotalLiabilitiesWithCurrencyEffect,
		GrossPerformance:                              j.GrossPerformance,
		GrossPerformanceWithCurrencyEffect:            j.GrossPerformanceWithCurrencyEffect,
		NetPerformance:                                j.NetPerformance,
		NetPerformanceWithCurrencyEffect:              j.NetPerformanceWithCurrencyEffect,
		NetPerformancePercentage:                      j.NetPerformancePercentage,
		NetPerformancePercentageWithCurrencyEffect:    j.NetPerformancePercentageWithCurrencyEffect,
		HasErrors:                                     j.HasErrors,
		Errors:                                        j.Errors,
		Warnings:                                      j.Warnings,
		Positions:                                     j.Positions,
		HistoricalData:                                j.HistoricalData,
		ActivitiesCount:                               j.ActivitiesCount,
	}
	return nil
}

// nonNil makes nil slices encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// EncodeSnapshot writes the snapshot as indented JSON.
func EncodeSnapshot(w io.Writer, s *PortfolioSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*PortfolioSnapshot, error) {
	s := new(PortfolioSnapshot)
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	return s, nil
}
