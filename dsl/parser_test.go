package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/glyphline/dsl"
)

const sampleProfile = `
// demo hardware class used by the parser tests
profile "Demo Glasses" v1 {
  display { width: 576px; height: 136px }

  metrics {
    space: 4px
    hyphen: 5px; fallback: 10px
  }

  # uniform-width scripts render on a fixed cell grid
  cells { cjk: 18px; korean: 18px }

  glyphs {
    "A": 10px; "i": 3px
    " ": 4
    "\"": 5px
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Demo Glasses" {
		t.Fatalf("expected profile name Demo Glasses, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}

	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "display,metrics,cells,glyphs" {
		t.Fatalf("unexpected section order: %s", got)
	}
}

func TestParseDisplayAndMetrics(t *testing.T) {
	doc, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	disp := doc.Sections[0].Display
	if disp == nil || len(disp.Entries) != 2 {
		t.Fatalf("display section should hold 2 entries, got %+v", disp)
	}
	if disp.Entries[0].Key != "width" || disp.Entries[0].Value != 576 {
		t.Fatalf("unexpected width entry: %+v", disp.Entries[0])
	}
	if disp.Entries[1].Key != "height" || disp.Entries[1].Value != 136 {
		t.Fatalf("unexpected height entry: %+v", disp.Entries[1])
	}

	metrics := doc.Sections[1].Metrics
	if metrics == nil || len(metrics.Entries) != 3 {
		t.Fatalf("metrics section should hold 3 entries, got %+v", metrics)
	}
	want := map[string]dsl.PixelValue{"space": 4, "hyphen": 5, "fallback": 10}
	for _, e := range metrics.Entries {
		if want[e.Key] != e.Value {
			t.Fatalf("metric %s: expected %d, got %d", e.Key, want[e.Key], e.Value)
		}
	}
}

func TestParseCellsAndGlyphs(t *testing.T) {
	doc, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cells := doc.Sections[2].Cells
	if cells == nil || len(cells.Entries) != 2 {
		t.Fatalf("cells section should hold 2 entries, got %+v", cells)
	}
	if cells.Entries[0].Script != "cjk" || cells.Entries[0].Value != 18 {
		t.Fatalf("unexpected cjk cell entry: %+v", cells.Entries[0])
	}

	glyphs := doc.Sections[3].Glyphs
	if glyphs == nil || len(glyphs.Entries) != 4 {
		t.Fatalf("glyphs section should hold 4 entries, got %+v", glyphs)
	}
	table := make(map[string]int, len(glyphs.Entries))
	for _, e := range glyphs.Entries {
		table[string(e.Cluster)] = int(e.Value)
	}
	// string literals unquote: the escaped quote and bare-number widths
	// must survive capture
	if table["A"] != 10 || table["i"] != 3 || table[" "] != 4 || table[`"`] != 5 {
		t.Fatalf("unexpected glyph table: %v", table)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing closing brace", `profile "X" v1 { display { width: 10px }`},
		{"bad pixel value", `profile "X" v1 { display { width: abc } }`},
		{"missing profile keyword", `"X" v1 { }`},
		{"entry without colon", `profile "X" v1 { metrics { space 4px } }`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := dsl.ParseString(tc.input); err == nil {
				t.Fatalf("expected parse error for %q", tc.input)
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader(sampleProfile))
	if err != nil {
		t.Fatalf("parse from reader failed: %v", err)
	}
	if doc.Name != "Demo Glasses" {
		t.Fatalf("unexpected name: %s", doc.Name)
	}
}
