package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/performance"
	"github.com/google/subcommands"
)

// importCmd imports prices from a provider's JSON document into a market file.
type importCmd struct {
	dataSource string
	list       string
	date       string
	price      string
	output     string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import prices from a provider's JSON document" }
func (*importCmd) Usage() string {
	return `perf import [-source <data source>] [-list <path>] [-date <path>] [-price <path>] [-o <file>] <symbol> <document>

  Reads the JSON document, locates quotes with JSONPath expressions, and adds
  the prices of the asset to a market data file. Dates are "2006-01-02"
  strings, RFC 3339 timestamps or unix seconds.

Usage Examples:
$ perf import -list '$.chart.result[*]' -date '$.ts' -price '$.close' GOOGL googl.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataSource, "source", "YAHOO", "data source of the asset")
	f.StringVar(&c.list, "list", "$[*]", "JSONPath of the list of quotes in the document")
	f.StringVar(&c.date, "date", "$.date", "JSONPath of the date in a quote")
	f.StringVar(&c.price, "price", "$.price", "JSONPath of the price in a quote")
	f.StringVar(&c.output, "o", "", "market file to update (defaults to the first market file)")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a symbol and a document are required")
		return subcommands.ExitUsageError
	}
	asset := performance.AssetID{DataSource: performance.DataSource(c.dataSource), Symbol: f.Arg(0)}
	output := c.output
	if output == "" {
		files := MarketFiles()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no market file")
			return subcommands.ExitUsageError
		}
		output = files[0]
	}

	prices, rates := performance.NewMarketPrices(), performance.NewExchangeRates()
	if _, err := os.Stat(output); err == nil {
		prices, rates, err = performance.DecodeMarketFiles(output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	doc, err := os.Open(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer doc.Close()
	n, err := performance.ImportPrices(prices, doc, asset, c.list, c.date, c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := performance.EncodeMarket(out, prices, rates); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log := Logger()
	log.Info().Stringer("asset", asset).Int("prices", n).Str("file", output).Msg("imported")
	return subcommands.ExitSuccess
}
