// abcdump prints the object tree, metadata and properties of an Ogawa
// archive.
//
// Usage:
//
//	abcdump [flags] FILE
//
// The archive may be wrapped in a zstd, s2 or lz4 envelope; by default the
// envelope is detected from the leading bytes.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/arloliu/ogawa"
	"github.com/arloliu/ogawa/format"
)

type flags struct {
	format      string
	path        string
	samples     bool
	compression string
	verbose     bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var f flags

	flagSet := pflag.NewFlagSet("abcdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&f.format, "format", "f", "text", "output format: text, yaml or cbor")
	flagSet.StringVarP(&f.path, "path", "p", "/", "dump only the object at this path and its descendants")
	flagSet.BoolVarP(&f.samples, "samples", "s", false, "decode and print sample values")
	flagSet.StringVarP(&f.compression, "compression", "c", "auto", "archive envelope: auto, none, zstd, s2 or lz4")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log decoding details to stderr")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: abcdump [flags] FILE\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("expected exactly one archive file, got %d arguments", flagSet.NArg())
	}

	render, ok := renderers[f.format]
	if !ok {
		return fmt.Errorf("unknown output format %q", f.format)
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []ogawa.Option{ogawa.WithLogger(logger)}
	if name := strings.ToLower(f.compression); name != "auto" {
		compression, ok := format.ParseCompressionType(name)
		if !ok {
			return fmt.Errorf("unknown compression %q", f.compression)
		}
		opts = append(opts, ogawa.WithCompression(compression))
	}

	a, err := ogawa.OpenFile(flagSet.Arg(0), opts...)
	if err != nil {
		return err
	}

	obj, err := a.Lookup(f.path)
	if err != nil {
		return err
	}

	rep, err := newReport(a, obj, f.samples)
	if err != nil {
		return err
	}

	logger.Debug("dumping archive", "path", f.path, "format", f.format, "objects", rep.count())

	return render(stdout, rep)
}
