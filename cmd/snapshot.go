package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/performance"
	"github.com/etnz/performance/renderer"
	"github.com/google/subcommands"
)

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	window      windowFlags
	json        bool
	msgpack     bool
	output      string
	skipHistory bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "compute the performance of the portfolio over a window" }
func (*snapshotCmd) Usage() string {
	return `perf snapshot [-p <period> | -s <start_date>] [-d <end_date>] [-json | -msgpack [-o <file>]]

  Computes the portfolio snapshot over the window: value, investment, fees,
  dividends, and gross and net performances, per position and in total.
  Amounts are in the base currency (-c). The calculation type (-t) is ROI
  or TWR.

  Assets without a price on a window boundary are reported and left out of
  the totals.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	c.window.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "print the snapshot as JSON")
	f.BoolVar(&c.msgpack, "msgpack", false, "write the snapshot in MessagePack (requires -o or a redirected output)")
	f.StringVar(&c.output, "o", "", "write to a file instead of stdout")
	f.BoolVar(&c.skipHistory, "skip-history", false, "do not print the daily history")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.json && c.msgpack {
		fmt.Fprintln(os.Stderr, "Error: -json and -msgpack are exclusive")
		return subcommands.ExitUsageError
	}
	s, status := computeSnapshot(ctx, &c.window)
	if status != subcommands.ExitSuccess {
		return status
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}

	switch {
	case c.json:
		if err := performance.EncodeSnapshot(w, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case c.msgpack:
		data, err := performance.MarshalSnapshotMsgpack(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if _, err := w.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		md := renderer.RenderSnapshot(s, renderer.SnapshotRenderOptions{SkipHistory: c.skipHistory})
		if c.output != "" {
			fmt.Fprint(w, md)
		} else {
			printMarkdown(md)
		}
	}
	if s.HasErrors {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// computeSnapshot loads the ledger and the market data, and computes the
// snapshot with the global flags.
func computeSnapshot(ctx context.Context, window *windowFlags) (*performance.PortfolioSnapshot, subcommands.ExitStatus) {
	log := Logger()

	ct, err := performance.ParseCalculationType(*calculationType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	activities, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	r, err := window.Range(activities)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	prices, rates, err := DecodeMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading market data: %v\n", err)
		return nil, subcommands.ExitFailure
	}

	s, err := performance.ComputeSnapshot(ctx, performance.Input{
		Activities:      activities,
		Window:          r,
		BaseCurrency:    *baseCurrency,
		CalculationType: ct,
		Prices:          prices,
		Rates:           rates,
		Now:             time.Now(),
	}, performance.Options{Logger: &log, Concurrency: *concurrency})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing snapshot: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	for _, e := range s.Errors {
		log.Error().Stringer("asset", e.Asset).Str("kind", string(e.Kind)).Stringer("date", e.Date).Msg("asset left out")
	}
	for _, w := range s.Warnings {
		log.Warn().Stringer("asset", w.Asset).Str("kind", string(w.Kind)).Stringer("date", w.Date).Msg(w.Error())
	}
	return s, subcommands.ExitSuccess
}
