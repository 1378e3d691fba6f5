// Package main hosts the bookvoice CLI.
//
// The Cobra command tree exposes the two pipeline stages (parse and
// synthesize), the run history kept in the SQLite ledger, preflight checks
// for directories and backends, and configuration scaffolding. Configuration
// and logging are resolved once per invocation by commandContext; the
// pipeline logic itself lives under internal/.
package main
