package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/protozod/protozod/cmd/internal/cliutil"
)

const dumpUsage = `protozod dump - Output the syntax tree as JSON

Usage:
  protozod dump [options] FILE...

Options:
  -compact      Emit compact JSON instead of indented
  -h, --help    Show help

Examples:
  protozod dump api.proto
  protozod dump -o api.json api.proto
  protozod dump -compact api.proto
`

func (c *cli) cmdDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, dumpUsage) }

	compact := fs.Bool("compact", false, "emit compact JSON")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.helpFlag {
		_, _ = fmt.Fprint(os.Stdout, dumpUsage)
		return exitOK
	}

	files := fs.Args()
	if len(files) == 0 {
		printError("no files specified")
		fmt.Fprint(os.Stderr, dumpUsage)
		return exitError
	}

	out, closeOut, err := cliutil.GetOutput(c.outputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	enc := json.NewEncoder(out)
	if !*compact {
		enc.SetIndent("", "  ")
	}

	for _, path := range files {
		file, perr := c.parseProto(path)
		if perr != nil {
			printError("%v", perr)
			return exitError
		}
		if eerr := enc.Encode(fileToJSON(file)); eerr != nil {
			printError("encode %s: %v", path, eerr)
			return exitError
		}
	}
	return exitOK
}
