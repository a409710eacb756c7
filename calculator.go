package performance

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/etnz/performance/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Input is everything a snapshot is computed from.
//
// Prices and Rates must already hold every value the computation needs,
// including the exchange rates of the day of Now.
type Input struct {
	Activities      Activities
	Window          date.Range
	BaseCurrency    string
	CalculationType CalculationType
	Prices          *MarketPrices
	Rates           *ExchangeRates
	// Now is the snapshot creation time, its day selects the live exchange rate.
	Now time.Time
}

// Options tune a Calculator without changing its results.
type Options struct {
	Logger      *zerolog.Logger // nil disables logging
	Concurrency int             // symbols replayed in parallel, 0 means GOMAXPROCS
}

// Calculator computes a PortfolioSnapshot from an Input.
type Calculator struct {
	in       Input
	strategy Strategy
	log      zerolog.Logger
	limit    int
}

// NewCalculator validates the input and selects the strategy.
//
// The activities are cloned, later changes made by the caller have no effect.
func NewCalculator(in Input, opts Options) (*Calculator, error) {
	strategy, err := NewStrategy(in.CalculationType)
	if err != nil {
		return nil, err
	}
	if err := ValidateCurrency(in.BaseCurrency); err != nil {
		return nil, fmt.Errorf("base currency: %w", err)
	}
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}
	if err := in.Activities.Validate(); err != nil {
		return nil, err
	}
	if in.Now.IsZero() {
		return nil, errors.New("creation time is required")
	}
	in.Activities = in.Activities.Clone()
	if in.Prices == nil {
		in.Prices = NewMarketPrices()
	}
	if in.Rates == nil {
		in.Rates = NewExchangeRates()
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Calculator{
		in:       in,
		strategy: strategy,
		log:      log.With().Str("component", "calculator").Logger(),
		limit:    limit,
	}, nil
}

// Strategy returns the selected strategy.
func (c *Calculator) Strategy() Strategy { return c.strategy }

// ComputeSnapshot replays every asset of the ledger and aggregates the results.
//
// Missing prices never fail the computation, they are reported in the
// snapshot. It only fails if ctx is done before all assets are replayed.
func (c *Calculator) ComputeSnapshot(ctx context.Context) (*PortfolioSnapshot, error) {
	assets := c.in.Activities.Assets()
	metrics := make([]SymbolMetrics, len(assets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)
	for i, id := range assets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			metrics[i] = c.strategy.SymbolMetrics(SymbolInput{
				Asset:        id,
				Activities:   c.in.Activities,
				Window:       c.in.Window,
				Now:          date.Of(c.in.Now),
				BaseCurrency: c.in.BaseCurrency,
				Prices:       c.in.Prices,
				Rates:        c.in.Rates,
				Logger:       c.log,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing snapshot: %w", err)
	}

	s := aggregate(c.strategy, metrics)
	s.CreatedAt = c.in.Now
	s.BaseCurrency = c.in.BaseCurrency
	s.Window = c.in.Window
	s.ActivitiesCount = c.in.Activities.TradeCount()
	c.log.Debug().
		Int("positions", len(s.Positions)).
		Bool("hasErrors", s.HasErrors).
		Msg("snapshot computed")
	return &s, nil
}

// ComputeSnapshot is a shortcut for NewCalculator followed by ComputeSnapshot.
func ComputeSnapshot(ctx context.Context, in Input, opts Options) (*PortfolioSnapshot, error) {
	c, err := NewCalculator(in, opts)
	if err != nil {
		return nil, err
	}
	return c.ComputeSnapshot(ctx)
}
