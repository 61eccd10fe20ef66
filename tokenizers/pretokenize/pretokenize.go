// Package pretokenize cuts the raw input at every occurrence of a
// special-token literal, before normalization ever sees the text.
// Non-special slices flow on into package normalize; special slices
// bypass normalization entirely.
package pretokenize

// Segment is one contiguous run of the original input, in codepoints.
type Segment struct {
	Runes     []rune
	Begin     uint32 // codepoint offset of Runes[0] in the original input
	IsSpecial bool
}

// SplitOnSpecialTokens cuts runes at every occurrence of a literal in
// specials, matching longest-first so overlapping literals (one a prefix
// of another) resolve deterministically. Returns an alternating sequence
// of (non-special, special) segments; either side of that alternation may
// be empty-length gaps, which are omitted.
func SplitOnSpecialTokens(runes []rune, specials map[string]bool) []Segment {
	if len(specials) == 0 {
		if len(runes) == 0 {
			return nil
		}
		return []Segment{{Runes: runes, Begin: 0, IsSpecial: false}}
	}

	literals := make([][]rune, 0, len(specials))
	for s := range specials {
		literals = append(literals, []rune(s))
	}
	// Longest-first so a special token that is a prefix of a longer one
	// never shadows it.
	sortByLengthDesc(literals)

	var out []Segment
	n := len(runes)
	pos := 0
	plainStart := 0
	for pos < n {
		matched := matchLiteral(runes, pos, literals)
		if matched < 0 {
			pos++
			continue
		}
		if pos > plainStart {
			out = append(out, Segment{Runes: runes[plainStart:pos], Begin: uint32(plainStart), IsSpecial: false})
		}
		out = append(out, Segment{Runes: runes[pos : pos+matched], Begin: uint32(pos), IsSpecial: true})
		pos += matched
		plainStart = pos
	}
	if plainStart < n {
		out = append(out, Segment{Runes: runes[plainStart:n], Begin: uint32(plainStart), IsSpecial: false})
	}
	return out
}

// matchLiteral returns the rune-length of the first literal (by
// decreasing length, so longest match wins) matching runes at pos, or -1.
func matchLiteral(runes []rune, pos int, literalsByLenDesc [][]rune) int {
	for _, lit := range literalsByLenDesc {
		if pos+len(lit) > len(runes) {
			continue
		}
		if runesEqual(runes[pos:pos+len(lit)], lit) {
			return len(lit)
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortByLengthDesc(ss [][]rune) {
	// Insertion sort: the number of special literals is small (tens at
	// most — MBART-50's 53 language codes is the largest vocabulary we
	// deal with), so this is simpler than pulling in sort.Slice for a
	// closure capture.
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && len(ss[j]) > len(ss[j-1]); j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}
