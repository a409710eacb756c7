package renderer

import (
	"fmt"
	"text/template"

	"github.com/shopspring/decimal"
)

// funcs are the formatting helpers available in every template.
var funcs = template.FuncMap{
	"amount":  amount,
	"signed":  signed,
	"percent": percent,
}

// decimalOf accepts the decimal types found in a snapshot. ok is false for a
// null value.
func decimalOf(v any) (d decimal.Decimal, ok bool) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, true
	case decimal.NullDecimal:
		return v.Decimal, v.Valid
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	default:
		panic(fmt.Sprintf("not a decimal: %T", v))
	}
}

// amount formats with two decimals, "n/a" for a null value.
func amount(v any) string {
	d, ok := decimalOf(v)
	if !ok {
		return "n/a"
	}
	return d.StringFixed(2)
}

// signed is like amount with an explicit '+' for positive values.
func signed(v any) string {
	d, ok := decimalOf(v)
	if !ok {
		return "n/a"
	}
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// percent formats a ratio as a signed percentage, 0.1234 is "+12.34%".
func percent(v any) string {
	d, ok := decimalOf(v)
	if !ok {
		return "n/a"
	}
	return signed(d.Shift(2)) + "%"
}
