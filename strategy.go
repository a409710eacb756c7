package performance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/performance/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CalculationType selects how invested capital is weighted before computing returns.
type CalculationType string

const (
	// ROI uses the capital deployed, whatever the time it was invested.
	ROI CalculationType = "ROI"
	// TWR weights each contribution by the fraction of the window it stayed invested.
	TWR CalculationType = "TWR"
)

// ErrUnknownCalculationType is returned when selecting a strategy that does not exist.
var ErrUnknownCalculationType = errors.New("unknown calculation type")

// ParseCalculationType parses a calculation type, case insensitive.
func ParseCalculationType(s string) (CalculationType, error) {
	t := CalculationType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := strategies[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCalculationType, s)
	}
	return t, nil
}

// SymbolInput is everything needed to replay one asset.
type SymbolInput struct {
	Asset        AssetID
	Activities   Activities // the whole ledger, filtered by the replay
	Window       date.Range
	Now          date.Date // day of the live valuation rate
	BaseCurrency string
	Prices       *MarketPrices
	Rates        *ExchangeRates
	Logger       zerolog.Logger
}

// Strategy computes symbol metrics and aggregates positions according to a CalculationType.
type Strategy interface {
	Type() CalculationType
	SymbolMetrics(in SymbolInput) SymbolMetrics
	AggregateOverallPerformance(positions []Position) PortfolioSnapshot
}

// weighting is the part of a replay that differs between strategies.
type weighting interface {
	// invested returns the capital used as the return denominator, given the
	// signed sum of contributions, Σc·t and the number of days of the period.
	invested(sum, sumDays decimal.Decimal, days int) decimal.Decimal
	// daily is true when the series has a point on each day with activity.
	daily() bool
}

var strategies = map[CalculationType]Strategy{
	ROI: roiStrategy{},
	TWR: twrStrategy{},
}

// NewStrategy returns the strategy for a calculation type.
func NewStrategy(t CalculationType) (Strategy, error) {
	s, ok := strategies[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalculationType, t)
	}
	return s, nil
}

type roiStrategy struct{}

func (roiStrategy) Type() CalculationType { return ROI }

func (s roiStrategy) SymbolMetrics(in SymbolInput) SymbolMetrics { return replay(in, s) }

func (s roiStrategy) AggregateOverallPerformance(positions []Position) PortfolioSnapshot {
	return aggregatePositions(s.Type(), positions)
}

func (roiStrategy) invested(sum, _ decimal.Decimal, _ int) decimal.Decimal { return sum }

func (roiStrategy) daily() bool { return false }

type twrStrategy struct{}

func (twrStrategy) Type() CalculationType { return TWR }

func (s twrStrategy) SymbolMetrics(in SymbolInput) SymbolMetrics { return replay(in, s) }

func (s twrStrategy) AggregateOverallPerformance(positions []Position) PortfolioSnapshot {
	return aggregatePositions(s.Type(), positions)
}

// invested returns Σc·(D-t)/D, contributions made at the start weigh 1 and
// the ones made on the last day weigh 0. An empty period weighs everything 1.
func (twrStrategy) invested(sum, sumDays decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return sum
	}
	d := decimal.NewFromInt(int64(days))
	return sum.Mul(d).Sub(sumDays).DivRound(d, ratioPrecision)
}

func (twrStrategy) daily() bool { return true }
