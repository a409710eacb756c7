package performance

import (
	"slices"

	"github.com/etnz/performance/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type item int

const (
	itemActivity item = iota
	itemStart         // synthetic order carrying the window start price
	itemEnd           // synthetic order carrying the window end price
)

// order is an activity in a replay, possibly a synthetic boundary one.
type order struct {
	Activity
	item item
}

// replay computes the metrics of one asset over the window.
//
// Activities after the window end are ignored. The end price is required
// unless the asset holds no activity up to the window end. The start price is
// required only if the asset has activities before the window start.
func replay(in SymbolInput, w weighting) SymbolMetrics {
	log := in.Logger.With().Object("asset", in.Asset).Logger()
	start, end := in.Window.From, in.Window.To
	base := in.BaseCurrency

	acts := in.Activities.Of(in.Asset)
	slices.SortStableFunc(acts, func(a, b Activity) int { return a.Date.Compare(b.Date) })
	if i := slices.IndexFunc(acts, func(a Activity) bool { return a.Date.After(end) }); i >= 0 {
		acts = acts[:i]
	}
	if len(acts) == 0 {
		return emptyMetrics(in.Asset, "", base)
	}
	currency := assetCurrency(acts, base)

	endPrice, ok := in.Prices.Get(in.Asset, end)
	if !ok {
		endPrice, ok = manualPrice(in.Asset, acts)
	}
	if !ok {
		log.Debug().Stringer("date", end).Msg("missing end price")
		return zeroed(in.Asset, currency, base, end)
	}

	startPrice, ok := in.Prices.Get(in.Asset, start)
	if !ok && acts[0].Date.Before(start) {
		log.Debug().Stringer("date", start).Msg("missing start price")
		return zeroed(in.Asset, currency, base, start)
	}

	orders := make([]order, 0, len(acts)+2)
	for _, a := range acts {
		orders = append(orders, order{Activity: a})
	}
	orders = append(orders,
		order{Activity: Activity{Date: start, Asset: in.Asset, UnitPrice: M(startPrice, currency)}, item: itemStart},
		order{Activity: Activity{Date: end, Asset: in.Asset, UnitPrice: M(endPrice, currency)}, item: itemEnd},
	)
	slices.SortStableFunc(orders, func(a, b order) int { return a.Date.Compare(b.Date) })

	conv := &converter{rates: in.Rates, base: base, log: log}
	r := replayer{
		in:       in,
		w:        w,
		currency: currency,
		conv:     conv,
	}
	for i, o := range orders {
		if o.item == itemEnd {
			break
		}
		if o.item == itemStart {
			r.acc.initial = r.acc.units.Mul(startPrice)
			r.acc.initialBase = conv.convert(r.acc.initial, currency, start)
		} else {
			r.add(o.Activity)
		}
		// a point per day, after the last order of that day.
		if w.daily() && !o.Date.Before(start) && orders[i+1].Date != o.Date {
			r.series.Append(o.Date, r.point(o.Date))
		}
	}
	if r.acc.negative {
		log.Warn().Msg("more units sold than bought")
	}

	m := r.acc.metrics(in.Asset, currency, base)
	m.Tags = r.tags
	m.MissingRate = conv.missing
	m.StartPrice = M(startPrice, currency)
	m.EndPrice = M(endPrice, currency)

	days := in.Window.Days()
	nowRate := conv.rate(currency, in.Now)
	m.EndPriceInBaseCurrency = M(endPrice.Mul(nowRate), base)
	cv := r.acc.units.Mul(endPrice)
	cvBase := cv.Mul(nowRate)
	tw := w.invested(r.acc.investment, r.acc.contribDays, days)
	twBase := w.invested(r.acc.investmentBase, r.acc.contribDaysBase, days)
	gross := cv.Sub(r.acc.investment)
	grossBase := cvBase.Sub(r.acc.investmentBase)
	net := gross.Sub(r.acc.fees)
	netBase := grossBase.Sub(r.acc.feesBase)

	m.CurrentValue = M(cv, currency)
	m.CurrentValueInBaseCurrency = M(cvBase, base)
	m.TimeWeightedInvestment = M(tw, currency)
	m.TimeWeightedInvestmentWithCurrencyEffect = M(twBase, base)
	m.GrossPerformance = M(gross, currency)
	m.GrossPerformanceWithCurrencyEffect = M(grossBase, base)
	m.NetPerformance = M(net, currency)
	m.NetPerformanceWithCurrencyEffect = M(netBase, base)
	m.GrossPerformancePercentage = ratioOf(gross, tw)
	m.GrossPerformancePercentageWithCurrencyEffect = ratioOf(grossBase, twBase)
	m.NetPerformancePercentage = ratioOf(net, tw)
	m.NetPerformancePercentageWithCurrencyEffect = ratioOf(netBase, twBase)

	r.series.Append(end, SeriesPoint{
		Value:                                    m.CurrentValue,
		ValueWithCurrencyEffect:                  m.CurrentValueInBaseCurrency,
		Investment:                               m.TotalInvestment,
		InvestmentWithCurrencyEffect:             m.TotalInvestmentWithCurrencyEffect,
		TimeWeightedInvestment:                   m.TimeWeightedInvestment,
		TimeWeightedInvestmentWithCurrencyEffect: m.TimeWeightedInvestmentWithCurrencyEffect,
		NetPerformance:                           m.NetPerformance,
		NetPerformanceWithCurrencyEffect:         m.NetPerformanceWithCurrencyEffect,
	})
	m.Series = r.series

	log.Debug().
		Stringer("units", m.TotalUnits).
		Stringer("value", m.CurrentValueInBaseCurrency.Decimal()).
		Bool("inconsistent", m.InconsistentLedger).
		Msg("replayed")
	return m
}

// replayer holds the state of a single replay.
type replayer struct {
	in       SymbolInput
	w        weighting
	currency string
	conv     *converter

	acc       accumulator
	series    date.History[SeriesPoint]
	tags      []string
	lastTrade decimal.Decimal
}

// add accumulates a real activity.
func (r *replayer) add(a Activity) {
	acc := &r.acc
	rate := r.conv.rate(r.currency, a.Date)
	qty := a.Quantity.Decimal()
	value := qty.Mul(a.UnitPrice.Decimal())

	for _, t := range a.Tags {
		if !slices.Contains(r.tags, t) {
			r.tags = append(r.tags, t)
		}
	}

	switch a.Type {
	case Buy, Sell:
		fee := a.Fee.Decimal()
		feeBase := a.FeeInBaseCurrency.Decimal()
		if feeBase.IsZero() {
			feeBase = fee.Mul(rate)
		}
		acc.fees = acc.fees.Add(fee)
		acc.feesBase = acc.feesBase.Add(feeBase)

		f := a.Type.Factor()
		acc.units = acc.units.Add(qty.Mul(f))
		c := value.Mul(f)
		cBase := c.Mul(rate)
		acc.investment = acc.investment.Add(c)
		acc.investmentBase = acc.investmentBase.Add(cBase)
		t := decimal.NewFromInt(int64(max(0, r.in.Window.From.DaysUntil(a.Date))))
		acc.contribDays = acc.contribDays.Add(c.Mul(t))
		acc.contribDaysBase = acc.contribDaysBase.Add(cBase.Mul(t))
		acc.transactions++
		if a.Type == Buy {
			acc.buyValue = acc.buyValue.Add(value)
			acc.buyUnits = acc.buyUnits.Add(qty)
			if acc.firstBuy.IsZero() {
				acc.firstBuy = a.Date
			}
		}
		if acc.units.IsNegative() {
			acc.negative = true
		}
		if a.UnitPrice.IsPositive() {
			r.lastTrade = a.UnitPrice.Decimal()
		}
	case Dividend:
		acc.dividend = acc.dividend.Add(value)
		acc.dividendBase = acc.dividendBase.Add(value.Mul(rate))
	case Interest:
		acc.interest = acc.interest.Add(value)
		acc.interestBase = acc.interestBase.Add(value.Mul(rate))
	case Liability:
		acc.liabilities = acc.liabilities.Add(value)
		acc.liabilityBase = acc.liabilityBase.Add(value.Mul(rate))
	}
}

// point returns the series point at the end of day 'on', inside the window.
func (r *replayer) point(on date.Date) SeriesPoint {
	acc := &r.acc
	price, ok := r.in.Prices.AsOf(r.in.Asset, on)
	if !ok {
		price = r.lastTrade
	}
	days := r.in.Window.From.DaysUntil(on)
	value := acc.units.Mul(price)
	valueBase := r.conv.convert(value, r.currency, on)
	asset := func(d decimal.Decimal) Money { return M(d, r.currency) }
	base := func(d decimal.Decimal) Money { return M(d, r.in.BaseCurrency) }
	return SeriesPoint{
		Value:                                    asset(value),
		ValueWithCurrencyEffect:                  base(valueBase),
		Investment:                               asset(acc.investment),
		InvestmentWithCurrencyEffect:             base(acc.investmentBase),
		TimeWeightedInvestment:                   asset(r.w.invested(acc.investment, acc.contribDays, days)),
		TimeWeightedInvestmentWithCurrencyEffect: base(r.w.invested(acc.investmentBase, acc.contribDaysBase, days)),
		NetPerformance:                           asset(value.Sub(acc.investment).Sub(acc.fees)),
		NetPerformanceWithCurrencyEffect:         base(valueBase.Sub(acc.investmentBase).Sub(acc.feesBase)),
	}
}

// assetCurrency returns the first currency found in the activities, or base.
func assetCurrency(acts Activities, base string) string {
	for _, a := range acts {
		if c := a.Currency(); c != "" {
			return c
		}
	}
	return base
}

// manualPrice returns the unit price of the last activity when the asset is
// manually priced and that activity is a trade with a price.
func manualPrice(id AssetID, acts Activities) (decimal.Decimal, bool) {
	if id.DataSource != Manual || len(acts) == 0 {
		return decimal.Zero, false
	}
	last := acts[len(acts)-1]
	if !last.Type.IsTrade() || !last.UnitPrice.IsPositive() {
		return decimal.Zero, false
	}
	return last.UnitPrice.Decimal(), true
}

// MarshalZerologObject lets assets be logged as structured objects.
func (id AssetID) MarshalZerologObject(e *zerolog.Event) {
	e.Str("dataSource", string(id.DataSource)).Str("symbol", id.Symbol)
}
