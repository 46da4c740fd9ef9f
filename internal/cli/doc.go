// Package cli implements the command-line interface for f1news.
//
// The cli package provides the Cobra-based CLI: a one-shot check (the root
// command), a watch mode that repeats the check on a cron schedule, and a show
// command that prints the current archive. It wires configuration, scraper,
// storage and notifier into the pipeline and reports results as text or JSON.
package cli
