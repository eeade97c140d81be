package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the ledger file into canonical form"
}
func (*fmtCmd) Usage() string {
	return `wst fmt

  Reads the ledger file, validates every record, rebuilds the lots, and
  writes everything back sorted and in canonical JSONL form.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if status := saveEngine(engine); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Println("Ledger formatted.")
	return subcommands.ExitSuccess
}
