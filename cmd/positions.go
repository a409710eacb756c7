package cmd

import (
	"context"
	"flag"

	"github.com/etnz/performance/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct {
	window windowFlags
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the positions at the end of a window" }
func (*positionsCmd) Usage() string {
	return `perf positions [-p <period> | -s <start_date>] [-d <end_date>]

  Displays each position: quantity, value, investment and net performance
  in the base currency.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) { c.window.SetFlags(f) }

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := computeSnapshot(ctx, &c.window)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.RenderPositions(s))
	return subcommands.ExitSuccess
}
