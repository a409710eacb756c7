package performance

import (
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

// ActivityType identifies the kind of an activity.
type ActivityType string

// Activity types recorded in a ledger.
const (
	Buy       ActivityType = "BUY"
	Sell      ActivityType = "SELL"
	Dividend  ActivityType = "DIVIDEND"
	Interest  ActivityType = "INTEREST"
	Liability ActivityType = "LIABILITY"
)

// IsTrade returns true for activities that change the number of units held.
func (t ActivityType) IsTrade() bool { return t == Buy || t == Sell }

// Factor returns +1 for a BUY, -1 for a SELL and 0 otherwise.
//
// It applies to both quantities and invested values so that unit count and
// invested capital move in the same direction.
func (t ActivityType) Factor() decimal.Decimal {
	switch t {
	case Buy:
		return decimal.NewFromInt(1)
	case Sell:
		return decimal.NewFromInt(-1)
	default:
		return decimal.Zero
	}
}

// Valid returns true if t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case Buy, Sell, Dividend, Interest, Liability:
		return true
	}
	return false
}

// DataSource names the provider of an instrument's market data.
type DataSource string

// Manual is the data source of instruments priced by their own activities.
const Manual DataSource = "MANUAL"

// AssetID identifies an instrument.
type AssetID struct {
	DataSource DataSource `json:"dataSource"`
	Symbol     string     `json:"symbol"`
}

func (id AssetID) String() string { return string(id.DataSource) + ":" + id.Symbol }

// Compare orders asset ids by symbol, then data source.
func (id AssetID) Compare(other AssetID) int {
	switch {
	case id.Symbol < other.Symbol:
		return -1
	case id.Symbol > other.Symbol:
		return 1
	case id.DataSource < other.DataSource:
		return -1
	case id.DataSource > other.DataSource:
		return 1
	}
	return 0
}

// Activity is an immutable investment transaction.
//
// UnitPrice and Fee are in the instrument currency, FeeInBaseCurrency in the
// portfolio base currency.
type Activity struct {
	Date              date.Date
	Type              ActivityType
	Asset             AssetID
	Quantity          Quantity
	UnitPrice         Money
	Fee               Money
	FeeInBaseCurrency Money
	Tags              []string
}

// Currency returns the instrument currency.
func (a Activity) Currency() string { return a.UnitPrice.Currency() }

// Value returns quantity × unit price, in the instrument currency.
func (a Activity) Value() Money { return a.UnitPrice.Mul(a.Quantity) }

// Validation errors.
var (
	ErrInvalidActivity = errors.New("invalid activity")
	ErrInvalidCurrency = errors.New("invalid currency")
)

// Validate checks the activity fields.
func (a Activity) Validate() error {
	var errs []error
	if a.Date.IsZero() {
		errs = append(errs, errors.New("date is missing"))
	}
	if !a.Type.Valid() {
		errs = append(errs, fmt.Errorf("unknown type %q", a.Type))
	}
	if a.Asset.Symbol == "" {
		errs = append(errs, errors.New("symbol is missing"))
	}
	if a.Quantity.IsNegative() {
		errs = append(errs, fmt.Errorf("quantity must not be negative, got %s", a.Quantity))
	}
	if a.UnitPrice.IsNegative() {
		errs = append(errs, fmt.Errorf("unit price must not be negative, got %s", a.UnitPrice.Decimal()))
	}
	if a.Fee.IsNegative() {
		errs = append(errs, fmt.Errorf("fee must not be negative, got %s", a.Fee.Decimal()))
	}
	if a.FeeInBaseCurrency.IsNegative() {
		errs = append(errs, fmt.Errorf("fee in base currency must not be negative, got %s", a.FeeInBaseCurrency.Decimal()))
	}
	if c := a.Currency(); c != "" {
		if err := ValidateCurrency(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w on %s for %s: %w", ErrInvalidActivity, a.Date, a.Asset, errors.Join(errs...))
	}
	return nil
}

// Activities is a ledger of activities.
type Activities []Activity

// Clone returns a deep copy, sharing nothing with the original.
func (l Activities) Clone() Activities {
	if l == nil {
		return nil
	}
	c := make(Activities, len(l))
	for i, a := range l {
		a.Tags = slices.Clone(a.Tags)
		c[i] = a
	}
	return c
}

// Of returns a deep copy of the activities for one asset, in ledger order.
func (l Activities) Of(id AssetID) Activities {
	var c Activities
	for _, a := range l {
		if a.Asset == id {
			a.Tags = slices.Clone(a.Tags)
			c = append(c, a)
		}
	}
	return c
}

// Assets returns the distinct assets of the ledger, sorted by symbol then data source.
func (l Activities) Assets() []AssetID {
	seen := make(map[AssetID]struct{})
	var ids []AssetID
	for _, a := range l {
		if _, ok := seen[a.Asset]; !ok {
			seen[a.Asset] = struct{}{}
			ids = append(ids, a.Asset)
		}
	}
	slices.SortFunc(ids, AssetID.Compare)
	return ids
}

// Validate checks every activity and returns all failures.
func (l Activities) Validate() error {
	var errs []error
	for _, a := range l {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TradeCount counts BUY and SELL activities.
func (l Activities) TradeCount() int {
	n := 0
	for _, a := range l {
		if a.Type.IsTrade() {
			n++
		}
	}
	return n
}
