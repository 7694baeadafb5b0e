package script

// This file defines script classification for code points as rendered by
// smart-glasses display fonts. Categories reflect the hardware's metric
// classes (which glyphs share one cell width), not the full Unicode script
// property.

// Type identifies the metric class a code point belongs to.
type Type int

const (
	Unsupported Type = iota // no known metric class; measured with the fallback width
	Latin
	Cyrillic
	CJK
	Korean
)

// String returns a short identifier for a Type value.
func (t Type) String() string {
	switch t {
	case Latin:
		return "latin"
	case Cyrillic:
		return "cyrillic"
	case CJK:
		return "cjk"
	case Korean:
		return "korean"
	case Unsupported:
		return "unsupported"
	default:
		return "unsupported"
	}
}

// span is an inclusive code-point range mapped to one Type.
type span struct {
	lo, hi rune
	typ    Type
}

// spans must stay sorted by lo and pairwise disjoint; Classify relies on both.
// Adding support for a new script means adding its ranges here.
var spans = []span{
	{0x0041, 0x005A, Latin},    // A-Z
	{0x0061, 0x007A, Latin},    // a-z
	{0x00C0, 0x00D6, Latin},    // Latin-1 letters before ×
	{0x00D8, 0x00F6, Latin},    // Latin-1 letters before ÷
	{0x00F8, 0x00FF, Latin},    // remaining Latin-1 letters
	{0x0100, 0x017F, Latin},    // Latin Extended-A
	{0x0180, 0x024F, Latin},    // Latin Extended-B
	{0x0400, 0x04FF, Cyrillic}, // Cyrillic
	{0x0500, 0x052F, Cyrillic}, // Cyrillic Supplement
	{0x1100, 0x11FF, Korean},   // Hangul Jamo
	{0x1E00, 0x1EFF, Latin},    // Latin Extended Additional
	{0x3000, 0x303F, CJK},      // CJK symbols and punctuation
	{0x3040, 0x309F, CJK},      // Hiragana
	{0x30A0, 0x30FF, CJK},      // Katakana
	{0x3130, 0x318F, Korean},   // Hangul Compatibility Jamo
	{0x3400, 0x4DBF, CJK},      // CJK Extension A
	{0x4E00, 0x9FFF, CJK},      // CJK Unified Ideographs
	{0xAC00, 0xD7A3, Korean},   // Hangul syllables
	{0xF900, 0xFAFF, CJK},      // CJK Compatibility Ideographs
	{0xFF01, 0xFF60, CJK},      // fullwidth forms
}

// Classify maps a code point to its metric class via binary search over the
// range table. Code points outside every range classify as Unsupported.
func Classify(r rune) Type {
	lo, hi := 0, len(spans)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		s := spans[mid]
		switch {
		case r < s.lo:
			hi = mid - 1
		case r > s.hi:
			lo = mid + 1
		default:
			return s.typ
		}
	}
	return Unsupported
}

// IsUniformWidth reports whether every glyph of the script renders at one
// fixed cell width on the target displays.
func IsUniformWidth(t Type) bool {
	return t == CJK || t == Korean
}

// NeedsHyphenForBreak reports whether splitting a word of this script across
// lines requires a visible hyphen. CJK and Korean break cleanly between any
// two cells, so they never do.
func NeedsHyphenForBreak(t Type) bool {
	return t == Latin || t == Cyrillic
}
