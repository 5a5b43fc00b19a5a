package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/protozod/protozod/cmd/internal/cliutil"
	"github.com/protozod/protozod/printer"
)

const fmtUsage = `protozod fmt - Reprint proto files in canonical form

Usage:
  protozod fmt [options] FILE...

Options:
  -w            Rewrite files in place instead of printing to stdout
  -h, --help    Show help

Examples:
  protozod fmt api.proto
  protozod fmt -w api.proto other.proto
  protozod fmt -o formatted.proto api.proto
`

func (c *cli) cmdFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, fmtUsage) }

	write := fs.Bool("w", false, "rewrite files in place")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.helpFlag {
		_, _ = fmt.Fprint(os.Stdout, fmtUsage)
		return exitOK
	}

	files := fs.Args()
	if len(files) == 0 {
		printError("no files specified")
		fmt.Fprint(os.Stderr, fmtUsage)
		return exitError
	}

	if *write {
		for _, path := range files {
			file, err := c.parseProto(path)
			if err != nil {
				printError("%v", err)
				return exitError
			}
			if err := os.WriteFile(path, []byte(printer.Print(file)), 0o644); err != nil {
				printError("write %s: %v", path, err)
				return exitError
			}
		}
		return exitOK
	}

	out, closeOut, err := cliutil.GetOutput(c.outputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	for _, path := range files {
		file, perr := c.parseProto(path)
		if perr != nil {
			printError("%v", perr)
			return exitError
		}
		if werr := printer.Fprint(out, file); werr != nil {
			printError("write: %v", werr)
			return exitError
		}
	}
	return exitOK
}
