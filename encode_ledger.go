package performance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// jsonActivity is the JSONL shape of an activity.
type jsonActivity struct {
	Date              date.Date       `json:"date"`
	Type              ActivityType    `json:"type"`
	DataSource        DataSource      `json:"dataSource"`
	Symbol            string          `json:"symbol"`
	Currency          string          `json:"currency"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	Fee               decimal.Decimal `json:"fee"`
	FeeInBaseCurrency decimal.Decimal `json:"feeInBaseCurrency"`
	Tags              []string        `json:"tags"`
}

// DecodeActivities reads activities in JSONL format, one activity per line.
//
// Decimals can be written as strings or numbers. Every activity is validated.
func DecodeActivities(r io.Reader) (Activities, error) {
	var activities Activities
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Type ActivityType `json:"type"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify activity in %q: %w", n, line, err)
		}
		if !identifier.Type.Valid() {
			return nil, fmt.Errorf("line %d: unknown activity type %q", n, identifier.Type)
		}

		var j jsonActivity
		if err := json.Unmarshal(line, &j); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		a := Activity{
			Date:              j.Date,
			Type:              j.Type,
			Asset:             AssetID{DataSource: j.DataSource, Symbol: j.Symbol},
			Quantity:          Q(j.Quantity),
			UnitPrice:         M(j.UnitPrice, j.Currency),
			Fee:               M(j.Fee, j.Currency),
			FeeInBaseCurrency: M(j.FeeInBaseCurrency, ""),
			Tags:              j.Tags,
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		activities = append(activities, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading activities: %w", err)
	}
	return activities, nil
}

// EncodeActivity writes a single activity as a JSON line with a stable key order.
func EncodeActivity(w io.Writer, a Activity) error {
	var o jsonObjectWriter
	o.Append("date", a.Date).
		Append("type", a.Type).
		Optional("dataSource", a.Asset.DataSource).
		Append("symbol", a.Asset.Symbol).
		Optional("currency", a.Currency()).
		Append("quantity", a.Quantity).
		Append("unitPrice", a.UnitPrice.Decimal())
	if !a.Fee.IsZero() {
		o.Append("fee", a.Fee.Decimal())
	}
	if !a.FeeInBaseCurrency.IsZero() {
		o.Append("feeInBaseCurrency", a.FeeInBaseCurrency.Decimal())
	}
	o.Optional("tags", a.Tags)
	data, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot encode activity: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write activity: %w", err)
	}
	return nil
}

// EncodeActivities writes activities in JSONL format, in ledger order.
func EncodeActivities(w io.Writer, activities Activities) error {
	for _, a := range activities {
		if err := EncodeActivity(w, a); err != nil {
			return err
		}
	}
	return nil
}
