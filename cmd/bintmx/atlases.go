package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"
)

type atlasesCmd struct {
	commonFlags
}

func (c *atlasesCmd) Name() string     { return "atlases" }
func (c *atlasesCmd) Synopsis() string { return "print the GID range of every atlas image" }
func (c *atlasesCmd) Usage() string {
	return "bintmx atlases [-root <dir>] [-layout <layout.yaml>]\n"
}
func (c *atlasesCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
}

func (c *atlasesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cv, _, err := c.converter(false)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	registry, err := cv.Registry()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	for _, e := range registry.Entries() {
		if e.Count() == 0 {
			fmt.Printf("GID %d (empty) : %s (%dx%d)\n", e.FirstGID, e.Path, e.Width, e.Height)
			continue
		}
		fmt.Printf("GID %d -> %d : %s (%dx%d, %dx%d tiles)\n",
			e.FirstGID, int(e.FirstGID)+e.Count()-1, e.Path, e.Width, e.Height, e.Columns, e.Rows)
	}
	return subcommands.ExitSuccess
}
