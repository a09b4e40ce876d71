package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
)

type toTMXCmd struct {
	commonFlags
	inputPath  string
	outputPath string
}

func (c *toTMXCmd) Name() string     { return "totmx" }
func (c *toTMXCmd) Synopsis() string { return "convert a binary level into a TMX map" }
func (c *toTMXCmd) Usage() string {
	return "bintmx totmx -i <level.bin> [-o <map.tmx | dir>] [-root <dir>]\n"
}
func (c *toTMXCmd) SetFlags(f *flag.FlagSet) {
	c.commonFlags.setFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input binary level")
	f.StringVar(&c.outputPath, "o", "", "Output TMX file or directory (default: next to input)")
}

// tmxOutput picks the TMX path for a binary input: output may be a .tmx
// file, a directory, or empty for the input's directory.
func tmxOutput(inputPath, outputPath string) string {
	if strings.HasSuffix(outputPath, ".tmx") {
		return outputPath
	}
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".tmx"
	if outputPath == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	return filepath.Join(outputPath, name)
}

func (c *toTMXCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" {
		log.Println("missing input path (-i)")
		return subcommands.ExitUsageError
	}
	return runToTMX(&c.commonFlags, c.inputPath, tmxOutput(c.inputPath, c.outputPath))
}

func runToTMX(flags *commonFlags, inputPath, outputPath string) subcommands.ExitStatus {
	cv, bar, err := flags.converter(true)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	result, err := cv.BinToTMX(inputPath, outputPath)
	bar.Finish()
	fmt.Println()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	printSummary(result)
	err = flags.writeReport(result, map[string]string{
		"direction": "totmx",
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
