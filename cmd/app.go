// Package cmd implements the perf CLI application, computing the performance
// of a portfolio from a ledger of activities and market data files.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/performance"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	EnvActivitiesFile  = "PERF_ACTIVITIES_FILE"
	EnvMarketFile      = "PERF_MARKET_FILE"
	EnvBaseCurrency    = "PERF_BASE_CURRENCY"
	EnvCalculationType = "PERF_CALCULATION_TYPE"
	EnvLogLevel        = "PERF_LOG_LEVEL"
	EnvConcurrency     = "PERF_CONCURRENCY"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	activitiesFile  = flag.String("activities-file", "activities.jsonl", "Path to the ledger of activities (JSONL format)")
	marketFiles     = flag.String("market-file", "market.jsonl", "Comma separated paths to the market data files (JSONL format)")
	baseCurrency    = flag.String("c", "EUR", "Base currency of the reports")
	calculationType = flag.String("t", string(performance.ROI), "Calculation type (ROI or TWR)")
	logLevel        = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	concurrency     = flag.Int("concurrency", 4, "Number of assets computed in parallel")
)

// Commands are all the subcommands of the application.
var Commands = []subcommands.Command{
	&snapshotCmd{},
	&positionsCmd{},
	&validateCmd{},
	&importCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// LoadEnv loads the optional .env file of the working directory, and uses
// the environment as defaults for the global flags. It must be called before
// flag.Parse.
func LoadEnv(flags *flag.FlagSet) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load .env: %w", err)
	}
	defaults := map[string]string{
		"activities-file": EnvActivitiesFile,
		"market-file":     EnvMarketFile,
		"c":               EnvBaseCurrency,
		"t":               EnvCalculationType,
		"log-level":       EnvLogLevel,
		"concurrency":     EnvConcurrency,
	}
	for name, env := range defaults {
		v, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, v, err)
		}
	}
	return nil
}

// Logger returns the logger of the application, writing to stderr.
func Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(*logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// DecodeLedger reads the activities file.
func DecodeLedger() (performance.Activities, error) {
	f, err := os.Open(*activitiesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %w", err)
	}
	defer f.Close()
	activities, err := performance.DecodeActivities(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", *activitiesFile, err)
	}
	return activities, nil
}

// MarketFiles returns the list of market data files.
func MarketFiles() []string {
	var files []string
	for _, f := range strings.Split(*marketFiles, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// DecodeMarket reads all market data files. Missing files are ignored.
func DecodeMarket() (*performance.MarketPrices, *performance.ExchangeRates, error) {
	var files []string
	for _, f := range MarketFiles() {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			log := Logger()
			log.Warn().Str("file", f).Msg("market data file does not exist")
			continue
		}
		files = append(files, f)
	}
	return performance.DecodeMarketFiles(files...)
}

// envValues returns the global flags as environment variables.
func envValues() []string {
	return []string{
		EnvActivitiesFile + "=" + *activitiesFile,
		EnvMarketFile + "=" + *marketFiles,
		EnvBaseCurrency + "=" + *baseCurrency,
		EnvCalculationType + "=" + *calculationType,
		EnvLogLevel + "=" + *logLevel,
		EnvConcurrency + "=" + strconv.Itoa(*concurrency),
	}
}
