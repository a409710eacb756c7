package performance

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// this file imports prices from market data providers' JSON documents.
//
// Providers all have their own format, JSONPath expressions locate the
// quotes in the document, and the date and price in each quote, e.g. for
//
//	{"symbol":"GOOGL","quotes":[{"t":"2023-07-10","close":116.45}]}
//
// listPath is "$.quotes[*]", datePath "$.t" and pricePath "$.close".

// ImportPrices reads a provider JSON document from r and adds the prices of
// one asset to prices. It returns the number of prices added.
func ImportPrices(prices *MarketPrices, r io.Reader, asset AssetID, listPath, datePath, pricePath string) (int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep every digit of prices
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return 0, fmt.Errorf("cannot parse prices of %s: %w", asset, err)
	}

	jval, err := jsonpath.Get(listPath, doc)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %q %w", asset, listPath, err)
	}
	quotes, ok := jval.([]any)
	if !ok {
		quotes = []any{jval}
	}

	n := 0
	for i, quote := range quotes {
		jdate, err := jsonpath.Get(datePath, quote)
		if err != nil {
			return n, fmt.Errorf("error parsing %q quote #%d: %q %w", asset, i, datePath, err)
		}
		on, err := importDate(first(jdate))
		if err != nil {
			return n, fmt.Errorf("error parsing %q quote #%d: %w", asset, i, err)
		}
		jprice, err := jsonpath.Get(pricePath, quote)
		if err != nil {
			return n, fmt.Errorf("error parsing %q quote #%d: %q %w", asset, i, pricePath, err)
		}
		price, err := importDecimal(first(jprice))
		if err != nil {
			return n, fmt.Errorf("error parsing %q quote #%d: %w", asset, i, err)
		}
		prices.Set(asset, on, price)
		n++
	}
	return n, nil
}

// first keeps the first answer of a jsonpath query, jsonpath is never clear
// about whether it returns a list of 1 answer, or a single answer.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}

// importDate reads a date as a string ("2023-07-10" or RFC 3339) or as unix seconds.
func importDate(jval any) (date.Date, error) {
	switch v := jval.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return date.Of(t.UTC()), nil
		}
		return date.Parse(v)
	case json.Number:
		sec, err := v.Int64()
		if err != nil {
			return date.Date{}, fmt.Errorf("invalid timestamp %v: %w", v, err)
		}
		return date.Of(time.Unix(sec, 0).UTC()), nil
	default:
		return date.Date{}, fmt.Errorf("not a date: %v", jval)
	}
}

// importDecimal reads a price written as a number or a string.
func importDecimal(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, fmt.Errorf("not a price: %v", jval)
	}
}
