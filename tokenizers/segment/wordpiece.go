// Package segment implements the two subword segmentation algorithms,
// WordPiece greedy-longest-match and SentencePiece-BPE merge-rank
// segmentation.
package segment

import (
	"github.com/corvid-labs/subtok/tokenizers/api"
	"github.com/corvid-labs/subtok/tokenizers/normalize"
)

// DefaultMaxInputCharsPerWord is used when WordPiece is called with a
// non-positive maxInputCharsPerWord.
const DefaultMaxInputCharsPerWord = 100

// WordPiece splits one normalizer word segment into subword Tokens using
// greedy longest-match against vocab, mirroring BERT's algorithm. word.Refs
// holds the absolute codepoint index of each rune in the original input.
func WordPiece(word normalize.Sequence, vocab api.Vocabulary, maxInputCharsPerWord int) []api.Token {
	if word.Len() == 0 {
		return nil
	}
	if maxInputCharsPerWord <= 0 {
		maxInputCharsPerWord = DefaultMaxInputCharsPerWord
	}

	prefix := "##"
	if cp, ok := vocab.(api.ContinuationPrefixer); ok {
		prefix = cp.ContinuationPrefix()
	}

	if word.Len() > maxInputCharsPerWord {
		return []api.Token{unknownToken(vocab, word)}
	}

	var tokens []api.Token
	start := 0
	for start < word.Len() {
		end := word.Len()
		found := false
		for end > start {
			candidate := string(word.Runes[start:end])
			if start > 0 {
				candidate = prefix + candidate
			}
			if vocab.Contains(candidate) {
				tok := api.Token{
					Text:             candidate,
					ReferenceOffsets: refsCopy(word.Refs[start:end]),
					Mask:             api.MaskBegin,
				}
				if start > 0 {
					tok.Mask = api.MaskContinuation
				}
				tok.Offset = spanOf(tok.ReferenceOffsets)
				tokens = append(tokens, tok)
				found = true
				start = end
				break
			}
			end--
		}
		if !found {
			return []api.Token{unknownToken(vocab, word)}
		}
	}
	return tokens
}

func unknownToken(vocab api.Vocabulary, word normalize.Sequence) api.Token {
	refs := refsCopy(word.Refs)
	return api.Token{
		Text:             vocab.UnknownValue(),
		ReferenceOffsets: refs,
		Offset:           spanOf(refs),
		Mask:             api.MaskUnknown,
	}
}

func refsCopy(refs []uint32) []uint32 {
	out := make([]uint32, len(refs))
	copy(out, refs)
	return out
}

func spanOf(refs []uint32) *api.Offset {
	if len(refs) == 0 {
		return nil
	}
	min, max := refs[0], refs[0]
	for _, r := range refs[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	return &api.Offset{Begin: min, End: max + 1}
}
