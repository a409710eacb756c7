package performance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// Market data files are JSONL, each line is either a price
//
//	{"date":"2023-07-10","dataSource":"YAHOO","symbol":"GOOGL","price":"116.45"}
//
// or an exchange rate, one unit of 'from' is worth 'rate' units of 'to'
//
//	{"date":"2023-07-10","from":"USD","to":"CHF","rate":"0.8854"}

// fileLine is a line from a collection of files, with its position for error messages.
type fileLine struct {
	filename string
	i        int
	txt      string
}

// readLines reads all lines from r.
func readLines(filename string, r io.Reader) ([]fileLine, error) {
	var list []fileLine
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		list = append(list, fileLine{filename, i, scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	return list, nil
}

// jsonMarketLine has the fields of both kind of lines.
type jsonMarketLine struct {
	Date       date.Date        `json:"date"`
	DataSource DataSource       `json:"dataSource"`
	Symbol     string           `json:"symbol"`
	Price      *decimal.Decimal `json:"price"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	Rate       *decimal.Decimal `json:"rate"`
}

// decodeMarketLine adds a single line to the prices or the rates.
func decodeMarketLine(prices *MarketPrices, rates *ExchangeRates, l fileLine) error {
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}
	var j jsonMarketLine
	if err := json.Unmarshal([]byte(l.txt), &j); err != nil {
		return fmt.Errorf("parse error %s:%v: not a correct json: %w", l.filename, l.i, err)
	}
	if j.Date.IsZero() {
		return fmt.Errorf("parse error %s:%v: missing the property %q", l.filename, l.i, "date")
	}
	switch {
	case j.Price != nil && j.Rate == nil:
		if j.Symbol == "" {
			return fmt.Errorf("parse error %s:%v: price without a symbol", l.filename, l.i)
		}
		if j.Price.IsNegative() {
			return fmt.Errorf("parse error %s:%v: negative price %s", l.filename, l.i, j.Price)
		}
		prices.Set(AssetID{DataSource: j.DataSource, Symbol: j.Symbol}, j.Date, *j.Price)
	case j.Rate != nil && j.Price == nil:
		if err := ValidateCurrency(j.From); err != nil {
			return fmt.Errorf("parse error %s:%v: %w", l.filename, l.i, err)
		}
		if err := ValidateCurrency(j.To); err != nil {
			return fmt.Errorf("parse error %s:%v: %w", l.filename, l.i, err)
		}
		if !j.Rate.IsPositive() {
			return fmt.Errorf("parse error %s:%v: rate must be positive, got %s", l.filename, l.i, j.Rate)
		}
		rates.Set(CurrencyPair{From: j.From, To: j.To}, j.Date, *j.Rate)
	default:
		return fmt.Errorf("parse error %s:%v: a line has either a price or a rate", l.filename, l.i)
	}
	return nil
}

// DecodeMarket reads prices and exchange rates from a JSONL stream.
// filename is for error messages only.
func DecodeMarket(filename string, r io.Reader) (*MarketPrices, *ExchangeRates, error) {
	lines, err := readLines(filename, r)
	if err != nil {
		return nil, nil, err
	}
	prices, rates := NewMarketPrices(), NewExchangeRates()
	for _, l := range lines {
		if err := decodeMarketLine(prices, rates, l); err != nil {
			return nil, nil, err
		}
	}
	return prices, rates, nil
}

// DecodeMarketFiles reads several market files into a single price and rate map.
// Later files overwrite values of earlier ones.
func DecodeMarketFiles(filenames ...string) (*MarketPrices, *ExchangeRates, error) {
	prices, rates := NewMarketPrices(), NewExchangeRates()
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		lines, err := readLines(filename, f)
		f.Close()
		if err != nil {
			return nil, nil, err
		}
		for _, l := range lines {
			if err := decodeMarketLine(prices, rates, l); err != nil {
				return nil, nil, err
			}
		}
	}
	return prices, rates, nil
}

// EncodeMarket writes prices then rates as JSONL, sorted by asset or pair then date.
func EncodeMarket(w io.Writer, prices *MarketPrices, rates *ExchangeRates) error {
	write := func(jw *jsonObjectWriter) error {
		b, err := jw.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	}
	for _, id := range prices.Assets() {
		for on, price := range prices.Prices(id) {
			var jw jsonObjectWriter
			jw.Append("date", on).
				Optional("dataSource", id.DataSource).
				Append("symbol", id.Symbol).
				Append("price", price)
			if err := write(&jw); err != nil {
				return fmt.Errorf("persist error: %w", err)
			}
		}
	}
	for _, pair := range rates.Pairs() {
		for on, rate := range rates.series[pair].Values() {
			var jw jsonObjectWriter
			jw.Append("date", on).
				Append("from", pair.From).
				Append("to", pair.To).
				Append("rate", rate)
			if err := write(&jw); err != nil {
				return fmt.Errorf("persist error: %w", err)
			}
		}
	}
	return nil
}
