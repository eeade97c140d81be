package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"

	"github.com/Cmf1125/wash-sale-tracker/cmd"
)

func main() {
	// Shell completion runs before anything else; in completion mode the
	// call never returns.
	completion().Complete("wst")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion builds the completion tree from the registered subcommands.
func completion() *complete.Command {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	return &complete.Command{Sub: sub}
}
