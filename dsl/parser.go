package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Package dsl parses profile definition documents: the text format that
// ships hardware font metrics as data instead of in-code constants.
//
//	profile "Even Realities G1" v1 {
//	  display { width: 576px; height: 136px }
//	  metrics { space: 4px; hyphen: 5px; fallback: 10px }
//	  cells   { cjk: 18px; korean: 18px }
//	  glyphs  { "A": 10px; "i": 3px }
//	}
//
// Statements are separated by `;` or newlines; `//`, `/* */` and `#`
// comments are elided. Parsing is pure: no file I/O happens here.

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Pixel", Pattern: `\d+(?:px)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for one profile document.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     StringLiteral  `parser:"Newline* 'profile' @String"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Section is one of the four top-level blocks of a profile.
type Section struct {
	Display *DisplaySection `parser:"  @@"`
	Metrics *MetricsSection `parser:"| @@"`
	Cells   *CellsSection   `parser:"| @@"`
	Glyphs  *GlyphsSection  `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Display != nil:
		return "display"
	case s.Metrics != nil:
		return "metrics"
	case s.Cells != nil:
		return "cells"
	case s.Glyphs != nil:
		return "glyphs"
	default:
		return "unknown"
	}
}

// DisplaySection carries the screen geometry (width, height).
type DisplaySection struct {
	Entries []*MetricEntry `parser:"'display' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// MetricsSection carries scalar metrics (space, hyphen, fallback).
type MetricsSection struct {
	Entries []*MetricEntry `parser:"'metrics' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// CellsSection carries per-script uniform cell widths.
type CellsSection struct {
	Entries []*CellEntry `parser:"'cells' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// GlyphsSection carries the exact per-cluster width table.
type GlyphsSection struct {
	Entries []*GlyphEntry `parser:"'glyphs' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// MetricEntry is a `key: <px>` statement inside display/metrics blocks.
type MetricEntry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value PixelValue     `parser:"@Pixel"`
}

// CellEntry is a `script: <px>` statement inside a cells block.
type CellEntry struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Script string         `parser:"@Ident ':'"`
	Value  PixelValue     `parser:"@Pixel"`
}

// GlyphEntry is a `"cluster": <px>` statement inside a glyphs block.
type GlyphEntry struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Cluster StringLiteral  `parser:"@String ':'"`
	Value   PixelValue     `parser:"@Pixel"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// PixelValue is a non-negative pixel count with an optional `px` suffix.
type PixelValue int

// Capture implements participle.Capture.
func (p *PixelValue) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("pixel value capture requires value")
	}
	raw := strings.TrimSuffix(values[0], "px")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid pixel value %q: %w", values[0], err)
	}
	*p = PixelValue(n)
	return nil
}

// Parse parses a profile document from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a profile document from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
