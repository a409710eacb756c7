package performance

import (
	"testing"
	"time"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	googl  = AssetID{DataSource: "YAHOO", Symbol: "GOOGL"}
	msft   = AssetID{DataSource: "YAHOO", Symbol: "MSFT"}
	manual = AssetID{DataSource: Manual, Symbol: "FLAT"}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) date.Date { return date.MustParse(s) }

func usd(s string) Money { return M(s, "USD") }

// trade returns a BUY or SELL activity.
func trade(on string, t ActivityType, id AssetID, qty, price, fee, feeBase string) Activity {
	return Activity{
		Date:              day(on),
		Type:              t,
		Asset:             id,
		Quantity:          Q(qty),
		UnitPrice:         usd(price),
		Fee:               usd(fee),
		FeeInBaseCurrency: M(feeBase, "CHF"),
	}
}

// cashflow returns a DIVIDEND, INTEREST or LIABILITY activity.
func cashflow(on string, t ActivityType, id AssetID, qty, price string) Activity {
	return Activity{Date: day(on), Type: t, Asset: id, Quantity: Q(qty), UnitPrice: usd(price)}
}

// googlInput is a single BUY of 1 GOOGL at 89.12 USD with a fee of 1 USD,
// valued in CHF on 2023-07-10.
func googlInput(t CalculationType) Input {
	prices := NewMarketPrices().
		Set(googl, day("2023-07-10"), dec("116.45"))
	rates := NewExchangeRates().
		Set(CurrencyPair{"USD", "CHF"}, day("2023-01-03"), dec("0.9238")).
		Set(CurrencyPair{"USD", "CHF"}, day("2023-07-10"), dec("0.8854"))
	return Input{
		Activities:      Activities{trade("2023-01-03", Buy, googl, "1", "89.12", "1", "0.9238")},
		Window:          date.Range{From: day("2023-01-03"), To: day("2023-07-10")},
		BaseCurrency:    "CHF",
		CalculationType: t,
		Prices:          prices,
		Rates:           rates,
		Now:             time.Date(2023, time.July, 10, 18, 0, 0, 0, time.UTC),
	}
}

// symbolInput turns an Input into the replay input of one asset.
func symbolInput(in Input, id AssetID) SymbolInput {
	return SymbolInput{
		Asset:        id,
		Activities:   in.Activities,
		Window:       in.Window,
		Now:          date.Of(in.Now),
		BaseCurrency: in.BaseCurrency,
		Prices:       in.Prices,
		Rates:        in.Rates,
	}
}

// assertDecimal compares decimals by value, "1.50" equals "1.5".
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s got %s %v", want, got, msgAndArgs)
}

func assertMoney(t *testing.T, want string, got Money, msgAndArgs ...any) {
	t.Helper()
	assertDecimal(t, want, got.Decimal(), msgAndArgs...)
}
