package segment

import (
	"github.com/corvid-labs/subtok/tokenizers/api"
)

const metaspace = "▁"

// SentencePiece runs SentencePiece-BPE segmentation over one non-special
// pretokenizer segment, the XLM-R/MBART-50 branch: every space becomes
// its own metaspace symbol rather than being dropped,
// and merges run across the whole segment as one flat stream, not per
// word — unlike WordPiece, a BERT "word" boundary is not a BPE boundary.
//
// atGlobalStart must be true only for the one segment that begins at
// absolute codepoint 0 of the original input: SentencePiece's "add dummy
// prefix" convention treats the very start of input as preceded by a
// space, so this prepends a synthetic metaspace symbol with no reference
// offsets when the segment doesn't already start with a real space.
func SentencePiece(runes []rune, begin uint32, atGlobalStart bool, ranker api.MergeRanker) []api.Token {
	if len(runes) == 0 {
		return nil
	}

	initial := make([]Symbol, 0, len(runes)+1)
	if atGlobalStart && runes[0] != ' ' {
		initial = append(initial, Symbol{Text: metaspace})
	}
	for i, r := range runes {
		ref := begin + uint32(i)
		if r == ' ' {
			initial = append(initial, Symbol{Text: metaspace, Refs: []uint32{ref}})
			continue
		}
		initial = append(initial, Symbol{Text: string(r), Refs: []uint32{ref}})
	}

	fused := BPE(initial, ranker)

	tokens := make([]api.Token, len(fused))
	for i, sym := range fused {
		mask := api.MaskContinuation
		if len(sym.Text) > 0 && []rune(sym.Text)[0] == []rune(metaspace)[0] {
			mask = api.MaskBegin
		}
		tokens[i] = api.Token{
			Text:             sym.Text,
			ReferenceOffsets: sym.Refs,
			Offset:           spanOf(sym.Refs),
			Mask:             mask,
		}
	}
	return tokens
}
