package cmd

import (
	"testing"
	"time"

	"github.com/etnz/performance"
	"github.com/etnz/performance/date"
)

func TestWindowFlags_Range(t *testing.T) {
	ledger := performance.Activities{
		{Date: date.New(2022, time.March, 15), Type: performance.Buy},
		{Date: date.New(2021, time.June, 1), Type: performance.Buy},
	}
	tests := []struct {
		name string
		w    windowFlags
		want string
	}{
		{"month", windowFlags{period: "month", end: "2023-07-10"}, "2023-07-01..2023-07-31"},
		{"year", windowFlags{period: "year", end: "2023-07-10"}, "2023-01-01..2023-12-31"},
		{"custom", windowFlags{start: "2023-01-03", end: "2023-07-10"}, "2023-01-03..2023-07-10"},
		{"relative start", windowFlags{start: "-1m", end: "2023-07-10"}, "2023-06-10..2023-07-10"},
		{"max", windowFlags{period: "max", end: "2023-07-10"}, "2021-06-01..2023-07-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.w.Range(ledger)
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Range() = %s, want %s", got, tt.want)
			}
		})
	}

	today := date.Today()
	w := windowFlags{period: "month", end: "0d"}
	got, err := w.Range(nil)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if got.To != today || got.From != today.StartOf(date.Monthly) {
		t.Errorf("Range() = %s, want month to date", got)
	}

	w = windowFlags{period: "decade", end: "0d"}
	if _, err := w.Range(nil); err == nil {
		t.Error("Range() accepted an unknown period")
	}
}
