// Command perf computes the performance of a portfolio.
package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"path"

	"github.com/etnz/performance"
	"github.com/etnz/performance/cmd"
	"github.com/etnz/performance/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	if err := cmd.LoadEnv(flag.CommandLine); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)
	flag.Parse()

	// unknown subcommands are looked up as perf-<subcommand> extensions.
	if name := flag.Arg(0); name != "" && !isRegistered(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func isRegistered(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// completion describes the command line for shell completion. It is
// installed with COMP_INSTALL=1 perf.
func completion() *complete.Command {
	window := map[string]complete.Predictor{
		"p": predict.Set{"day", "week", "month", "quarter", "year", performance.MaxRange},
		"s": predict.Something,
		"d": predict.Something,
	}
	snapshot := maps.Clone(window)
	maps.Copy(snapshot, map[string]complete.Predictor{
		"json":         predict.Nothing,
		"msgpack":      predict.Nothing,
		"o":            predict.Files("*"),
		"skip-history": predict.Nothing,
	})
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"snapshot":  {Flags: snapshot},
			"positions": {Flags: window},
			"validate":  {Flags: map[string]complete.Predictor{"w": predict.Nothing}},
			"import": {
				Flags: map[string]complete.Predictor{
					"source": predict.Set{"YAHOO", string(performance.Manual)},
					"list":   predict.Something,
					"date":   predict.Something,
					"price":  predict.Something,
					"o":      predict.Files("*.jsonl"),
				},
				Args: predict.Files("*.json"),
			},
			"topic": {Flags: map[string]complete.Predictor{"l": predict.Nothing}, Args: predict.Set(topics)},
			"help":  {},
		},
		Flags: map[string]complete.Predictor{
			"activities-file": predict.Files("*.jsonl"),
			"market-file":     predict.Files("*.jsonl"),
			"c":               predict.Something,
			"t":               predict.Set{string(performance.ROI), string(performance.TWR)},
			"log-level":       predict.Set{"debug", "info", "warn", "error"},
			"concurrency":     predict.Something,
		},
	}
}
