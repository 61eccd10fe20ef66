// Package core implements the family-agnostic half of a tokenizer:
// framing, truncation, batching and decoding. A family package (families/bert,
// families/xlmroberta, families/mbart50) supplies a SegmentFunc (how to turn
// raw text into offset-carrying subword Tokens) and a Framer (how to wrap a
// sequence of ids with the family's special tokens), and gets the rest —
// Encode, EncodeList, EncodePairList, TokenizeList, Decode — for free.
package core

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/corvid-labs/subtok/tokenizers/api"
)

// SegmentFunc turns one input string into subword Tokens with offsets,
// special-token literals in specialValues passed through untouched. This is
// the family-specific normalize+pretokenize+segment pipeline.
type SegmentFunc func(text string) ([]api.Token, error)

// Framer applies a family's special-token framing to one or two already
// id-mapped sequences.
type Framer interface {
	// Build assembles the final id/segment/special-mask/offset sequence.
	// idsB/offsetsB are nil for a single-sequence input.
	Build(idsA, idsB []int64, offsetsA, offsetsB []*api.Offset) api.BuiltInput
	// NumSpecialTokensToAdd reports the framing overhead Encode must
	// reserve before truncating, for a single sequence or for a pair.
	NumSpecialTokensToAdd(pair bool) int
}

// DecodeFunc renders a sequence of vocabulary piece strings (special tokens
// already filtered out by the caller if requested) back into text.
type DecodeFunc func(pieces []string, cleanUpTokenizationSpaces bool) string

// Engine is the shared implementation behind every families/* Tokenizer. It
// is immutable after construction and safe for concurrent use.
type Engine struct {
	Vocab   api.Vocabulary
	Segment SegmentFunc
	Framer  Framer
	Decoder DecodeFunc

	// Workers bounds the TokenizeList/EncodeList/EncodePairList worker
	// pool; 0 means runtime.GOMAXPROCS(0).
	Workers int
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Tokenize runs the family's segmentation pipeline over one input.
func (e *Engine) Tokenize(text string) ([]api.Token, error) {
	return e.Segment(text)
}

// TokenizeList runs Tokenize over every input concurrently, mirroring the
// original implementation's parallel-iterator batch tokenization, and
// returns results in input order regardless of completion order.
func (e *Engine) TokenizeList(texts []string) ([][]api.Token, error) {
	out := make([][]api.Token, len(texts))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(e.workers())
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			toks, err := e.Segment(text)
			if err != nil {
				return err
			}
			out[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode maps ids back to text via e.Decoder, optionally dropping special
// tokens first.
func (e *Engine) Decode(ids []int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) string {
	specials := e.Vocab.SpecialValues()
	pieces := make([]string, 0, len(ids))
	for _, id := range ids {
		piece := e.Vocab.IDToToken(id)
		if skipSpecialTokens && specials[piece] {
			continue
		}
		pieces = append(pieces, piece)
	}
	return e.Decoder(pieces, cleanUpTokenizationSpaces)
}

// BuildInputWithSpecialTokens delegates to the family Framer.
func (e *Engine) BuildInputWithSpecialTokens(idsA, idsB []int64, offsetsA, offsetsB []*api.Offset) api.BuiltInput {
	return e.Framer.Build(idsA, idsB, offsetsA, offsetsB)
}
