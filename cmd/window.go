package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/performance"
	"github.com/etnz/performance/date"
)

// windowFlags selects the window of a report, either a period ending on a
// date, or an explicit start date.
type windowFlags struct {
	period string
	start  string
	end    string
}

func (w *windowFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&w.period, "p", "year", "Period of the report (day, week, month, quarter, year, max). The period-to-date is used when it ends today.")
	f.StringVar(&w.start, "s", "", "Start date of a custom window. Overrides -p.")
	f.StringVar(&w.end, "d", "0d", "End date of the window (defaults to today). See the dates topic for supported formats.")
}

// Range returns the selected window. The max period starts on the first
// activity of the ledger.
func (w *windowFlags) Range(activities performance.Activities) (date.Range, error) {
	today := date.Today()
	end, err := date.ParseRelative(w.end, today)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid end date: %w", err)
	}
	if w.start != "" {
		start, err := date.ParseRelative(w.start, end)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		return date.Range{From: start, To: end}, nil
	}
	if strings.EqualFold(strings.TrimSpace(w.period), performance.MaxRange) {
		start := end
		for _, a := range activities {
			if a.Date.Before(start) {
				start = a.Date
			}
		}
		return date.Range{From: start, To: end}, nil
	}
	p, err := date.ParsePeriod(w.period)
	if err != nil {
		return date.Range{}, err
	}
	if end == today {
		return p.ToDate(end), nil
	}
	return p.Range(end), nil
}
