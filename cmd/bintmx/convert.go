package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/subcommands"
)

type convertCmd struct {
	commonFlags
	inputFormat string
	inputPath   string
	outputPath  string
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "convert between binary levels and TMX maps" }
func (c *convertCmd) Usage() string {
	return "bintmx convert -i <path> [-o <path>] [-if <format>]\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (bin, tmx)")
	f.StringVar(&c.outputPath, "o", "", "Output path")
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	switch deduceFormat(c.inputFormat, c.inputPath) {
	case "bin":
		return runToTMX(&c.commonFlags, c.inputPath, tmxOutput(c.inputPath, c.outputPath))
	case "tmx":
		return runToBin(&c.commonFlags, c.inputPath, binOutput(c.inputPath, c.outputPath))
	default:
		log.Printf("invalid input format: %q", c.inputFormat)
		return subcommands.ExitFailure
	}
}
