package performance

import "github.com/shopspring/decimal"

// ratioPrecision is the number of decimal places kept by every division
// producing a Ratio.
const ratioPrecision = 20

// Ratio is a dimensionless decimal, like a return (0.05 for 5%).
type Ratio struct {
	value decimal.Decimal
}

// R returns a ratio from a literal value.
func R[T float64 | int | int64 | string | decimal.Decimal](value T) Ratio {
	return Ratio{value: newDecimal(value)}
}

// ratioOf returns num/den, or exactly zero when den is not strictly positive.
func ratioOf(num, den decimal.Decimal) Ratio {
	if !den.IsPositive() {
		return Ratio{}
	}
	return Ratio{value: num.DivRound(den, ratioPrecision)}
}

func (r Ratio) Decimal() decimal.Decimal { return r.value }
func (r Ratio) Equal(q Ratio) bool        { return r.value.Equal(q.value) }
func (r Ratio) IsZero() bool              { return r.value.IsZero() }
func (r Ratio) Add(q Ratio) Ratio         { return Ratio{value: r.value.Add(q.value)} }
func (r Ratio) String() string            { return r.value.String() }

// Percent formats the ratio as a percentage with two decimals.
func (r Ratio) Percent() string {
	return r.value.Shift(2).StringFixed(2) + "%"
}

// SignedPercent is like Percent with an explicit sign, zero is represented as "-".
func (r Ratio) SignedPercent() string {
	p := r.value.Shift(2).Round(2)
	switch {
	case p.IsZero():
		return "-"
	case p.IsPositive():
		return "+" + p.StringFixed(2) + "%"
	default:
		return p.StringFixed(2) + "%"
	}
}

func (r Ratio) MarshalJSON() ([]byte, error) { return r.value.MarshalJSON() }

func (r *Ratio) UnmarshalJSON(data []byte) error { return r.value.UnmarshalJSON(data) }
