package core

import "strings"

const metaspace = "▁"

// WordPieceDecoder joins WordPiece pieces back into text: "##"-prefixed
// continuation pieces are glued directly onto the previous piece, every
// other piece is separated by a single space.
func WordPieceDecoder(continuationPrefix string) DecodeFunc {
	if continuationPrefix == "" {
		continuationPrefix = "##"
	}
	return func(pieces []string, cleanUpTokenizationSpaces bool) string {
		var b strings.Builder
		for i, p := range pieces {
			if strings.HasPrefix(p, continuationPrefix) {
				b.WriteString(strings.TrimPrefix(p, continuationPrefix))
				continue
			}
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p)
		}
		out := b.String()
		if cleanUpTokenizationSpaces {
			out = cleanUpSpaces(out)
		}
		return out
	}
}

// MetaspaceDecoder joins SentencePiece pieces back into text: pieces are
// glued together verbatim, then every metaspace marker becomes a literal
// space, and a leading space from the model's dummy prefix is trimmed.
func MetaspaceDecoder() DecodeFunc {
	return func(pieces []string, cleanUpTokenizationSpaces bool) string {
		joined := strings.Join(pieces, "")
		out := strings.ReplaceAll(joined, metaspace, " ")
		out = strings.TrimPrefix(out, " ")
		if cleanUpTokenizationSpaces {
			out = cleanUpSpaces(out)
		}
		return out
	}
}

// cleanUpSpaces undoes the extra whitespace introduced by detokenizing a
// punctuation-split, space-joined piece sequence.
func cleanUpSpaces(s string) string {
	replacer := strings.NewReplacer(
		" .", ".",
		" ?", "?",
		" !", "!",
		" ,", ",",
		" ' ", "'",
		" n't", "n't",
		" 'm", "'m",
		" 's", "'s",
		" 've", "'ve",
		" 're", "'re",
	)
	return replacer.Replace(s)
}
