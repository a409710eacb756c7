// Package performance computes the performance of an investment portfolio
// over a window of days.
//
// It replays an immutable ledger of activities (buys, sells, dividends,
// interest and liabilities) against sparse daily prices and exchange rates,
// and produces a PortfolioSnapshot in the base currency:
//   - Activity Ledger: Activities are validated and cloned, the caller's
//     ledger is never modified.
//   - Replay: each asset is replayed on its own, between a synthetic start
//     and end order carrying the window boundary prices.
//   - Strategies: ROI divides performance by the capital deployed, TWR
//     weights each contribution by the fraction of the window it stayed
//     invested.
//   - Aggregation: positions are summed field by field, an asset with a
//     missing price is reported in the snapshot instead of failing it.
//
// All amounts are exact decimals. The computation reads neither the clock nor
// any external source, identical inputs give identical snapshots.
//
// This package serves as the foundational logic for the `perf` command-line
// tool.
package performance
