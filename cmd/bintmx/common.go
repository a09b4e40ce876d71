package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/convert"
	"github.com/eak1mov/go-bintmx/layout"
	"github.com/eak1mov/go-bintmx/report"
	"github.com/eak1mov/go-bintmx/tmx"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	root       string
	layoutPath string
	reportPath string
	dataFormat string
	verbose    bool
}

func (c *commonFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.root, "root", ".", "Game resource directory (contains main.tscn and Tilemaps/)")
	f.StringVar(&c.layoutPath, "layout", "", "YAML layer layout (default: built-in)")
	f.StringVar(&c.reportPath, "report", "", "Write diagnostics to this SQLite file (replaced if present)")
	f.StringVar(&c.dataFormat, "data", "csv", "TMX layer data format (csv, base64, gzip, zlib, zstd)")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *commonFlags) logger() *slog.Logger {
	if c.verbose {
		return slog.Default()
	}
	return slog.New(slog.DiscardHandler)
}

func (c *commonFlags) layout() (*layout.Layout, error) {
	if c.layoutPath == "" {
		return layout.Default(), nil
	}
	return layout.Load(c.layoutPath)
}

// converter builds a Converter; when withProgress is set a progress bar
// over the binary layers is returned as well.
func (c *commonFlags) converter(withProgress bool) (*convert.Converter, *progressbar.ProgressBar, error) {
	l, err := c.layout()
	if err != nil {
		return nil, nil, err
	}
	format, err := tmx.ParseDataFormat(c.dataFormat)
	if err != nil {
		return nil, nil, err
	}

	opts := []convert.Option{
		convert.WithLayout(l),
		convert.WithRoot(c.root),
		convert.WithDataFormat(format),
		convert.WithLogger(c.logger()),
	}
	var bar *progressbar.ProgressBar
	if withProgress {
		bar = progressbar.Default(int64(len(l.Layers)), "layers")
		opts = append(opts, convert.WithProgress(func(string) { bar.Add(1) }))
	}

	cv, err := convert.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return cv, bar, nil
}

func (c *commonFlags) writeReport(result *convert.Result, metadata map[string]string) error {
	if c.reportPath == "" {
		return nil
	}
	if err := os.Remove(c.reportPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	w, err := report.NewWriter(c.reportPath,
		report.WithMetadata(metadata),
		report.WithLogger(c.logger()))
	if err != nil {
		return err
	}
	if err := w.WriteAll(result.Diagnostics); err != nil {
		return errors.Join(err, w.Close())
	}
	if err := w.Finalize(); err != nil {
		return errors.Join(err, w.Close())
	}
	return w.Close()
}

func printSummary(result *convert.Result) {
	fmt.Printf("%dx%d, %d atlases, %d diagnostics\n",
		result.Width, result.Height, len(result.Registry.Entries()), result.Diagnostics.Len())
	if result.Missing > 0 {
		fmt.Printf("  level truncated: %d bytes missing\n", result.Missing)
	}
	for _, kind := range codec.Kinds() {
		if n := result.Diagnostics.Count(kind); n > 0 {
			fmt.Printf("  %-13s %d\n", kind, n)
		}
	}
}
