// Package normalize implements the offset-preserving text-transformation
// stages of the pipeline: cleaning control characters, CJK ideograph
// spacing, whitespace splitting, accent stripping and lowercasing.
//
// Every stage is a pure function over a Sequence, a parallel (runes, refs)
// pair: refs[i] is the codepoint index, in the *original* input, that
// runes[i] was derived from — carrying provenance alongside the text
// instead of reconstructing it after the fact.
package normalize

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sequence is a codepoint string paired with its provenance into the
// original input. len(Runes) == len(Refs) is an invariant every stage in
// this package preserves (codepoints may be dropped, never "moved" to a
// different index without updating Refs).
type Sequence struct {
	Runes []rune
	Refs  []uint32
}

// NewSequence builds the identity Sequence for text anchored at
// originalOffset (the codepoint index of text[0] in some larger original
// string).
func NewSequence(text []rune, originalOffset uint32) Sequence {
	refs := make([]uint32, len(text))
	for i := range text {
		refs[i] = originalOffset + uint32(i)
	}
	return Sequence{Runes: text, Refs: refs}
}

func (s Sequence) String() string { return string(s.Runes) }

func (s Sequence) Len() int { return len(s.Runes) }

func (s Sequence) slice(i, j int) Sequence {
	return Sequence{Runes: s.Runes[i:j], Refs: s.Refs[i:j]}
}

// CleanText replaces NUL, U+FFFD and control characters (other than tab,
// newline, carriage return) with a single ASCII space. If stripWhitespace
// is set, tab/newline/carriage-return are replaced by space too.
// Offsets are one-to-one: a replacement character keeps the offset of the
// codepoint it replaced.
func CleanText(s Sequence, stripWhitespace bool) Sequence {
	out := Sequence{Runes: make([]rune, len(s.Runes)), Refs: append([]uint32(nil), s.Refs...)}
	for i, r := range s.Runes {
		switch {
		case r == 0 || r == 0xFFFD || isControlOtherThanTab(r):
			out.Runes[i] = ' '
		case stripWhitespace && (r == '\t' || r == '\n' || r == '\r'):
			out.Runes[i] = ' '
		default:
			out.Runes[i] = r
		}
	}
	return out
}

func isControlOtherThanTab(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

// TokenizeCJK surrounds every CJK-ideograph codepoint with a single ASCII
// space on each side, so a later whitespace split isolates each ideograph
// into its own segment. The inserted spaces inherit the ideograph's
// original offset.
func TokenizeCJK(s Sequence) Sequence {
	var runes []rune
	var refs []uint32
	for i, r := range s.Runes {
		if isCJKIdeograph(r) {
			runes = append(runes, ' ', r, ' ')
			refs = append(refs, s.Refs[i], s.Refs[i], s.Refs[i])
		} else {
			runes = append(runes, r)
			refs = append(refs, s.Refs[i])
		}
	}
	return Sequence{Runes: runes, Refs: refs}
}

func isCJKIdeograph(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0x2CEB0 && r <= 0x2EBEF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}

// WhitespaceTokenize splits s on maximal runs of ASCII space, dropping the
// separators. Each returned Sequence carries the matching sub-slice of
// Refs.
func WhitespaceTokenize(s Sequence) []Sequence {
	var out []Sequence
	start := -1
	for i, r := range s.Runes {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s.slice(start, i))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s.slice(start, len(s.Runes)))
	}
	return out
}

// StripAccents applies canonical (NFD) decomposition to each codepoint in
// turn and drops every resulting codepoint whose Unicode category is Mn
// (non-spacing mark). Retained codepoints keep the originating rune's
// offset.
func StripAccents(s Sequence) Sequence {
	var runes []rune
	var refs []uint32
	for i, r := range s.Runes {
		decomposed := norm.NFD.String(string(r))
		for _, dr := range decomposed {
			if unicode.Is(unicode.Mn, dr) {
				continue
			}
			runes = append(runes, dr)
			refs = append(refs, s.Refs[i])
		}
	}
	return Sequence{Runes: runes, Refs: refs}
}

// Lowercase applies simple (non-locale-dependent), one-codepoint-to-one-
// codepoint lowercasing, so the offset invariant (len unchanged) always
// holds — unlike strings.ToLower, which can expand certain codepoints
// (e.g. İ) under full Unicode case folding.
func Lowercase(s Sequence) Sequence {
	out := Sequence{Runes: make([]rune, len(s.Runes)), Refs: append([]uint32(nil), s.Refs...)}
	for i, r := range s.Runes {
		out.Runes[i] = unicode.ToLower(r)
	}
	return out
}

// IsASCIIPunctuation reports whether r is one of the ASCII punctuation
// ranges WordPiece/BERT treat as always-split.
func IsASCIIPunctuation(r rune) bool {
	return (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126)
}

// IsPunctuation reports whether r is ASCII punctuation or falls in any
// Unicode P* (punctuation) category.
func IsPunctuation(r rune) bool {
	if IsASCIIPunctuation(r) {
		return true
	}
	return unicode.IsPunct(r)
}

// SplitOnPunctuation splits s at every punctuation codepoint, keeping the
// punctuation as its own single-codepoint Sequence. If s's textual content
// is itself a registered special value, s is returned unsplit.
func SplitOnPunctuation(s Sequence, specialValues map[string]bool) []Sequence {
	if specialValues[s.String()] {
		return []Sequence{s}
	}
	var out []Sequence
	start := -1
	for i, r := range s.Runes {
		if IsPunctuation(r) {
			if start >= 0 {
				out = append(out, s.slice(start, i))
				start = -1
			}
			out = append(out, s.slice(i, i+1))
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s.slice(start, len(s.Runes)))
	}
	return out
}
