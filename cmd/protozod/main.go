// Command protozod parses proto3 files and generates TypeScript zod
// schemas from them.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/protozod/protozod"
	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or a file failed to parse
)

const usage = `protozod - proto3 parser and zod schema generator

Usage:
  protozod <command> [options] [files]

Commands:
  parse   Check files for syntax errors
  fmt     Reprint files in canonical form
  dump    Output the syntax tree as JSON
  gen     Generate TypeScript zod schemas
  version Show version

Common options:
  -c, --config FILE  Read generation defaults from a YAML file
  -o, --output FILE  Write output to FILE instead of stdout
  -v, --verbose      Enable debug logging
  -vv                Enable trace logging (implies -v)
  -h, --help         Show help

Examples:
  protozod parse api.proto
  protozod fmt -w api.proto
  protozod dump api.proto
  protozod gen -o api.ts api.proto
  protozod gen -c protozod.yaml api.proto
`

type cli struct {
	verbose    int
	configPath string
	outputFile string
	helpFlag   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	var c cli
	args := os.Args[1:]
	var cmdArgs []string
	var cmd string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			c.helpFlag = true
		case arg == "-v" || arg == "--verbose":
			if c.verbose < 1 {
				c.verbose = 1
			}
		case arg == "-vv":
			c.verbose = 2
		case arg == "-c" || arg == "--config":
			if i+1 < len(args) {
				i++
				c.configPath = args[i]
			}
		case strings.HasPrefix(arg, "--config="):
			c.configPath = arg[9:]
		case arg == "-o" || arg == "--output":
			if i+1 < len(args) {
				i++
				c.outputFile = args[i]
			}
		case strings.HasPrefix(arg, "--output="):
			c.outputFile = arg[9:]
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}

	if c.helpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}

	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	switch cmd {
	case "parse":
		return c.cmdParse(cmdArgs)
	case "fmt":
		return c.cmdFmt(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "gen":
		return c.cmdGen(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = protozod.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// parseOptions returns the library options implied by the global flags.
func (c *cli) parseOptions() []protozod.Option {
	if logger := c.setupLogger(); logger != nil {
		return []protozod.Option{protozod.WithLogger(logger)}
	}
	return nil
}

func (c *cli) parseProto(path string) (*ast.File, error) {
	return protozod.ParseFile(path, c.parseOptions()...)
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("protozod %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}
