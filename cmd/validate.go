package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/performance"
	"github.com/google/subcommands"
)

type validateCmd struct {
	write bool
}

func (*validateCmd) Name() string { return "validate" }
func (*validateCmd) Synopsis() string {
	return "validates the ledger and market data, and formats the ledger into a canonical form"
}
func (*validateCmd) Usage() string {
	return `perf validate [-w]

  Validates every activity of the ledger and every line of the market data
  files. With -w, the ledger is sorted by date and written back in a
  canonical JSONL format.

  Assets of the ledger without any price are reported.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "w", false, "write the formatted ledger back to the ledger file")
}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()
	activities, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, rates, err := DecodeMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Info().
		Int("activities", len(activities)).
		Int("prices", prices.Len()).
		Int("rates", rates.Len()).
		Msg("valid")

	priced := prices.Assets()
	for _, id := range activities.Assets() {
		if id.DataSource != performance.Manual && !slices.Contains(priced, id) {
			log.Warn().Stringer("asset", id).Msg("no price")
		}
	}

	if !c.write {
		return subcommands.ExitSuccess
	}
	sorted := activities.Clone()
	slices.SortStableFunc(sorted, func(a, b performance.Activity) int { return a.Date.Compare(b.Date) })
	var buf bytes.Buffer
	if err := performance.EncodeActivities(&buf, sorted); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(*activitiesFile, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %s\n", *activitiesFile)
	return subcommands.ExitSuccess
}
