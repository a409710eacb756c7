package renderer

import (
	"strings"
	"testing"
	"text/template"
	"time"

	"github.com/etnz/performance"
	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func null(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func sample() *performance.PortfolioSnapshot {
	googl := performance.AssetID{DataSource: "YAHOO", Symbol: "GOOGL"}
	msft := performance.AssetID{DataSource: "YAHOO", Symbol: "MSFT"}
	start, end := date.New(2023, time.January, 3), date.New(2023, time.July, 10)

	s := &performance.PortfolioSnapshot{
		CreatedAt:       time.Date(2023, time.July, 10, 18, 0, 0, 0, time.UTC),
		CalculationType: performance.TWR,
		BaseCurrency:    "CHF",
		Window:          date.Range{From: start, To: end},
		HasErrors:       true,
		Errors:          []performance.SymbolError{{Asset: msft, Kind: performance.ErrMissingPrice, Date: end}},
	}
	s.CurrentValueInBaseCurrency = dec("103.10483")
	s.TotalInvestmentWithCurrencyEffect = dec("82.329056")
	s.TotalTimeWeightedInvestmentWithCurrencyEffect = dec("82.329056")
	s.TotalFeesWithCurrencyEffect = dec("0.9238")
	s.GrossPerformanceWithCurrencyEffect = dec("20.775774")
	s.NetPerformanceWithCurrencyEffect = dec("19.851974")
	s.NetPerformancePercentageWithCurrencyEffect = dec("0.24112962014285697628")

	p := performance.Position{Asset: googl, Currency: "USD", Quantity: dec("1")}
	p.ValueInBaseCurrency = null("103.10483")
	p.InvestmentWithCurrencyEffect = null("82.329056")
	p.NetPerformanceWithCurrencyEffect = null("19.851974")
	p.NetPerformancePercentageWithCurrencyEffect = null("0.24112962014285697628")
	s.Positions = []performance.Position{p, {Asset: msft, Currency: "USD", HasErrors: true}}

	day := func(on date.Date, value, net, rate string) performance.HistoricalDataItem {
		h := performance.HistoricalDataItem{Date: on, ValueWithCurrencyEffect: dec(value)}
		h.TotalInvestmentValueWithCurrencyEffect = dec("82.329056")
		h.NetPerformanceWithCurrencyEffect = dec(net)
		h.NetPerformanceInPercentageWithCurrencyEffect = dec(rate)
		return h
	}
	s.HistoricalData = []performance.HistoricalDataItem{
		day(start, "82.329056", "-0.9238", "-0.0112"),
		day(end, "103.10483", "19.851974", "0.2411"),
	}
	return s
}

// outline parses markdown and returns its level 2 headings and the number of
// rows of each table.
func outline(t *testing.T, md string) (headings []string, rows []int) {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			if n.Level == 2 {
				headings = append(headings, string(n.Lines().Value(src)))
			}
		case *east.Table:
			count := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if c.Kind() == east.KindTableRow {
					count++
				}
			}
			rows = append(rows, count)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("cannot walk markdown: %v", err)
	}
	return headings, rows
}

func TestRenderSnapshot(t *testing.T) {
	got := RenderSnapshot(sample(), SnapshotRenderOptions{})
	if strings.Contains(got, "error ") {
		t.Fatalf("RenderSnapshot() failed:\n%s", got)
	}

	headings, rows := outline(t, got)
	wantHeadings := []string{"Summary", "Issues", "Positions", "History"}
	if strings.Join(headings, ",") != strings.Join(wantHeadings, ",") {
		t.Errorf("RenderSnapshot() headings = %v, want %v", headings, wantHeadings)
	}
	wantRows := []int{9, 2, 2}
	if len(rows) != len(wantRows) {
		t.Fatalf("RenderSnapshot() tables rows = %v, want %v", rows, wantRows)
	}
	for i := range rows {
		if rows[i] != wantRows[i] {
			t.Errorf("RenderSnapshot() table #%d has %d rows, want %d", i, rows[i], wantRows[i])
		}
	}

	for _, want := range []string{
		"# Portfolio Performance 2023-01-03..2023-07-10",
		"*TWR in CHF, computed on 2023-07-10 18:00*",
		"| **Net Performance** | +19.85 (+24.11%) |",
		"| GOOGL | USD | 1 | 103.10 | 82.33 | +19.85 | +24.11% |",
		"| ⚠ MSFT | USD | 0 | n/a | n/a | n/a | n/a |",
		"- YAHOO:MSFT: missing price on 2023-07-10",
		"| 2023-01-03 | 82.33 | 82.33 | -0.92 | -1.12% |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderSnapshot() does not contain %q:\n%s", want, got)
		}
	}
}

func TestRenderSnapshot_Options(t *testing.T) {
	s := sample()
	s.HasErrors, s.Errors = false, nil
	got := RenderSnapshot(s, SnapshotRenderOptions{SkipPositions: true, SkipHistory: true})
	headings, _ := outline(t, got)
	if strings.Join(headings, ",") != "Summary" {
		t.Errorf("RenderSnapshot() headings = %v, want only the summary:\n%s", headings, got)
	}
}

func TestRenderPositions(t *testing.T) {
	headings, rows := outline(t, RenderPositions(sample()))
	if len(headings) != 1 || len(rows) != 1 || rows[0] != 2 {
		t.Errorf("RenderPositions() headings = %v rows = %v, want one table of 2 rows", headings, rows)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		f    func(any) string
		v    any
		want string
	}{
		{"amount", amount, dec("103.10483"), "103.10"},
		{"amount null", amount, decimal.NullDecimal{}, "n/a"},
		{"signed positive", signed, dec("19.851974"), "+19.85"},
		{"signed negative", signed, dec("-0.9238"), "-0.92"},
		{"signed zero", signed, decimal.Zero, "0.00"},
		{"percent", percent, null("0.24112962"), "+24.11%"},
		{"percent negative", percent, dec("-0.0112"), "-1.12%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f(tt.v); got != tt.want {
				t.Errorf("%s(%v) = %q, want %q", tt.name, tt.v, got, tt.want)
			}
		})
	}
}

// TestTemplatesParse checks that every embedded template parses with the helpers.
func TestTemplatesParse(t *testing.T) {
	entries, err := templates.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	for _, e := range entries {
		content, err := templates.ReadFile(e.Name())
		if err != nil {
			t.Fatalf("failed to read %q: %v", e.Name(), err)
		}
		if _, err := template.New(e.Name()).Funcs(funcs).Parse(string(content)); err != nil {
			t.Errorf("template %q does not parse: %v", e.Name(), err)
		}
	}
}
