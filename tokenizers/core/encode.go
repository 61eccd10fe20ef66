package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/corvid-labs/subtok/tokenizers/api"
)

// seq is a mutable view over one segmented sequence while truncation runs.
type seq struct {
	tokens []api.Token
}

func (s *seq) ids(vocab api.Vocabulary) []int64 {
	out := make([]int64, len(s.tokens))
	for i, t := range s.tokens {
		out[i] = vocab.TokenToID(t.Text)
	}
	return out
}

func (s *seq) offsets() []*api.Offset {
	out := make([]*api.Offset, len(s.tokens))
	for i, t := range s.tokens {
		out[i] = t.Offset
	}
	return out
}

// dropLastN removes and returns the last n tokens, in original order.
func (s *seq) dropLastN(n int) []api.Token {
	if n <= 0 {
		return nil
	}
	if n > len(s.tokens) {
		n = len(s.tokens)
	}
	cut := len(s.tokens) - n
	removed := append([]api.Token(nil), s.tokens[cut:]...)
	s.tokens = s.tokens[:cut]
	return removed
}

// Encode segments both sequences, truncates to fit, frames, and maps to
// ids. textB is nil for a single-sequence input.
func (e *Engine) Encode(textA string, textB *string, opts api.EncodeOptions) (*api.TokenizedInput, error) {
	tokensA, err := e.Segment(textA)
	if err != nil {
		return nil, err
	}
	a := &seq{tokens: tokensA}

	var b *seq
	if textB != nil {
		tokensB, err := e.Segment(*textB)
		if err != nil {
			return nil, err
		}
		b = &seq{tokens: tokensB}
	}

	overhead := e.Framer.NumSpecialTokensToAdd(b != nil)

	if opts.Strategy == api.DoNotTruncate && opts.MaxLen > 0 {
		total := len(a.tokens) + overhead
		if b != nil {
			total += len(b.tokens)
		}
		if total > opts.MaxLen {
			return nil, &api.TokenizationError{
				Kind:   api.ErrOverflow,
				Detail: fmt.Sprintf("input produces %d tokens (with framing), exceeds max_len=%d and truncation is disabled", total, opts.MaxLen),
			}
		}
	}

	overflow, numTruncated := e.truncate(a, b, overhead, opts)

	idsA := a.ids(e.Vocab)
	offsetsA := a.offsets()
	var idsB []int64
	var offsetsB []*api.Offset
	if b != nil {
		idsB = b.ids(e.Vocab)
		offsetsB = b.offsets()
	}

	built := e.Framer.Build(idsA, idsB, offsetsA, offsetsB)

	refs, masks := alignRefsAndMasks(built.SpecialTokensMask, built.SegmentIDs, a.tokens, b)

	return &api.TokenizedInput{
		TokenIDs:           built.IDs,
		SegmentIDs:         built.SegmentIDs,
		SpecialTokensMask:  built.SpecialTokensMask,
		OverflowingTokens:  overflow,
		NumTruncatedTokens: numTruncated,
		TokenOffsets:       built.Offsets,
		ReferenceOffsets:   refs,
		Mask:               masks,
	}, nil
}

// alignRefsAndMasks walks the framed id sequence (whose special/segment
// layout is already decided) and reattaches each real token's
// ReferenceOffsets/Mask from the pre-framing token queues, in order;
// synthetic special-token positions get nil refs and MaskSpecial. This
// relies on framers only ever inserting tokens, never reordering or
// dropping the real ones.
func alignRefsAndMasks(specialMask []int8, segmentIDs []int8, tokensA []api.Token, b *seq) ([][]uint32, []api.Mask) {
	refs := make([][]uint32, len(specialMask))
	masks := make([]api.Mask, len(specialMask))
	ia, ib := 0, 0
	var tokensB []api.Token
	if b != nil {
		tokensB = b.tokens
	}
	for i := range specialMask {
		if specialMask[i] == 1 {
			masks[i] = api.MaskSpecial
			continue
		}
		if len(segmentIDs) > i && segmentIDs[i] == 1 {
			refs[i] = tokensB[ib].ReferenceOffsets
			masks[i] = tokensB[ib].Mask
			ib++
			continue
		}
		refs[i] = tokensA[ia].ReferenceOffsets
		masks[i] = tokensA[ia].Mask
		ia++
	}
	return refs, masks
}

// truncate trims a (and b, if present) down to opts.MaxLen-overhead total
// tokens per opts.Strategy, returning the removed ids (oldest-first, with
// up to opts.Stride trailing kept tokens prepended so the overflow can seed
// a sliding-window re-encode) and how many tokens were dropped.
func (e *Engine) truncate(a, b *seq, overhead int, opts api.EncodeOptions) ([]int64, uint32) {
	if opts.MaxLen <= 0 || opts.Strategy == api.DoNotTruncate {
		return nil, 0
	}
	budget := opts.MaxLen - overhead
	if budget < 0 {
		budget = 0
	}
	lenB := func() int {
		if b == nil {
			return 0
		}
		return len(b.tokens)
	}

	var removedA, removedB []api.Token
	switch opts.Strategy {
	case api.OnlyFirst:
		toRemove := len(a.tokens) + lenB() - budget
		removedA = a.dropLastN(toRemove)
	case api.OnlySecond:
		if b != nil {
			toRemove := len(a.tokens) + lenB() - budget
			removedB = b.dropLastN(toRemove)
		}
	default: // LongestFirst
		for len(a.tokens)+lenB() > budget {
			if b != nil && len(b.tokens) > len(a.tokens) {
				removedB = append(b.dropLastN(1), removedB...)
			} else if len(a.tokens) > 0 {
				removedA = append(a.dropLastN(1), removedA...)
			} else {
				break
			}
		}
	}

	numTruncated := len(removedA) + len(removedB)
	if numTruncated == 0 {
		return nil, 0
	}

	var overflowTokens []api.Token
	if opts.Stride > 0 {
		stride := opts.Stride
		if stride > len(a.tokens) {
			stride = len(a.tokens)
		}
		overflowTokens = append(overflowTokens, a.tokens[len(a.tokens)-stride:]...)
	}
	overflowTokens = append(overflowTokens, removedA...)
	overflowTokens = append(overflowTokens, removedB...)

	overflow := make([]int64, len(overflowTokens))
	for i, t := range overflowTokens {
		overflow[i] = e.Vocab.TokenToID(t.Text)
	}
	return overflow, uint32(numTruncated)
}

// EncodeList applies Encode to each single text in input order, using a
// bounded worker pool.
func (e *Engine) EncodeList(texts []string, opts api.EncodeOptions) ([]*api.TokenizedInput, error) {
	out := make([]*api.TokenizedInput, len(texts))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(e.workers())
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			res, err := e.Encode(text, nil, opts)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodePairList applies Encode to each sentence pair in input order, using
// a bounded worker pool.
func (e *Engine) EncodePairList(pairs []api.TextPair, opts api.EncodeOptions) ([]*api.TokenizedInput, error) {
	out := make([]*api.TokenizedInput, len(pairs))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(e.workers())
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			second := pair.Second
			res, err := e.Encode(pair.First, &second, opts)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
