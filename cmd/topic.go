package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Cmf1125/wash-sale-tracker/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `wst topic [<topic>...]

  Shows documentation for the given topics. Without arguments it shows the
  table of contents; "*" shows everything.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}
	doc, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
