// Package cmd implements the wst command-line application.
package cmd

import (
	"fmt"
	"os"

	washsale "github.com/Cmf1125/wash-sale-tracker"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands lists every subcommand in registration order. The main package
// registers them all and the completion tree is derived from the same list.
var Commands = []subcommands.Command{
	&buyCmd{},
	&sellCmd{},
	&txCmd{},
	&positionsCmd{},
	&lotsCmd{},
	&splitCmd{},
	&ytdCmd{},
	&washCheckCmd{},
	&importCmd{},
	&fmtCmd{},
	&topicCmd{},
}

// openEngine loads the configured ledger file into a fresh engine.
func openEngine() (*washsale.Engine, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	store := washsale.NewFileStore(cfg.LedgerFile)
	return washsale.NewEngine(store, washsale.WithLogger(cfg.Logger()))
}

// saveEngine persists the engine state back to the configured store.
func saveEngine(e *washsale.Engine) subcommands.ExitStatus {
	if err := e.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown to the terminal with glamour, falling back
// to the raw text when the renderer cannot be built (e.g. no TTY detection).
func printMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		fmt.Println(markdown)
		return
	}
	fmt.Print(out)
}

// parseDateFlag parses an optional date flag, defaulting to today.
func parseDateFlag(value string) (washsale.Date, error) {
	if value == "" {
		return washsale.Today(), nil
	}
	return washsale.ParseDate(value)
}
