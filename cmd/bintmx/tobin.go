package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/subcommands"
)

type toBinCmd struct {
	commonFlags
	inputPath  string
	outputPath string
}

func (c *toBinCmd) Name() string     { return "tobin" }
func (c *toBinCmd) Synopsis() string { return "convert a TMX map into a binary level" }
func (c *toBinCmd) Usage() string {
	return "bintmx tobin -i <map.tmx> [-o <level.bin>] [-root <dir>]\n"
}
func (c *toBinCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input TMX map")
	f.StringVar(&c.outputPath, "o", "", "Output binary level (default: input with .bin extension)")
}

func binOutput(inputPath, outputPath string) string {
	if outputPath != "" {
		return outputPath
	}
	return strings.TrimSuffix(inputPath, ".tmx") + ".bin"
}

func (c *toBinCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" {
		log.Println("missing input path (-i)")
		return subcommands.ExitUsageError
	}
	return runToBin(&c.commonFlags, c.inputPath, binOutput(c.inputPath, c.outputPath))
}

func runToBin(flags *commonFlags, inputPath, outputPath string) subcommands.ExitStatus {
	cv, bar, err := flags.converter(true)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	result, err := cv.TMXToBin(inputPath, outputPath)
	bar.Finish()
	fmt.Println()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	printSummary(result)
	err = flags.writeReport(result, map[string]string{
		"direction": "tobin",
		"input":     inputPath,
		"output":    outputPath,
	})
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Println("saved", outputPath)
	return subcommands.ExitSuccess
}
