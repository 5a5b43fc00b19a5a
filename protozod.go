// Package protozod parses proto3 source text into a syntax tree suitable
// for code generation.
//
// Parsing one file is a pure function of its input: identical input yields
// an identical AST or an identical error, no state is shared across calls,
// and concurrent callers may parse distinct files in parallel without
// synchronization. The first error aborts the parse; a partial AST is
// never returned, because downstream generation requires a structurally
// complete tree.
//
// Imports are recorded as literal path strings and never followed; type
// references are stored as raw dotted names. Resolving either is a
// separate pass outside this module.
package protozod

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/internal/parser"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, option entries).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// Option configures Parse and ParseFile.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Parse parses one complete proto3 source buffer into a File AST.
// filename is recorded on the File and in error positions for diagnostics
// only; no file I/O happens here.
//
// On failure the returned error is a *LexError, *ParseError, or
// *OptionValueError, and the File is nil.
func Parse(filename string, source []byte, opts ...Option) (*ast.File, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	file, serr := parser.Parse(filename, source, cfg.logger)
	if serr != nil {
		return nil, lowerError(filename, source, serr)
	}
	return file, nil
}

// ParseFile reads path and parses its contents.
func ParseFile(path string, opts ...Option) (*ast.File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, source, opts...)
}
