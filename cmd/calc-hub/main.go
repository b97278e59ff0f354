/*
Package main is the entry point for the calc-hub CLI.

calc-hub assigns visitors of a calculator catalog to A/B test variants and
recommends related calculators, keeping per-visitor state in a local store.

Usage:
  calc-hub [command]

Available Commands:
  assign       Assign the visitor to a test variant
  assignments  Inspect or clear the visitor's stored assignments
  usage        Record and inspect the visitor's tool usage history
  recommend    List related tools for a calculator
  search       Search the tool catalog
  tests        Inspect the configured experiments
  events       Export or clear stored analytics events
  visitor      Show the visitor id
  config       Manage the calc-hub configuration file

Examples:
  # Which layout does this visitor see?
  calc-hub assign result-layout

  # Related tools after a large loan calculation
  calc-hub recommend /loan-calculator --context amount=250000
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/calc-hub/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
