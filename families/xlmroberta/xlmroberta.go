// Package xlmroberta implements the XLM-RoBERTa family: SentencePiece-BPE
// segmentation under "<s> A </s>" / "<s> A </s></s> B </s>" framing.
package xlmroberta

import (
	"github.com/corvid-labs/subtok/tokenizers/api"
	"github.com/corvid-labs/subtok/tokenizers/core"
	"github.com/corvid-labs/subtok/tokenizers/pretokenize"
	"github.com/corvid-labs/subtok/tokenizers/segment"
	"github.com/corvid-labs/subtok/tokenizers/vocab/sentencepiece"
)

// Config configures a Tokenizer.
type Config struct {
	// Workers bounds batch concurrency; 0 uses runtime.GOMAXPROCS(0).
	Workers int
}

// Option mutates a Config.
type Option func(*Config)

// WithWorkers overrides the batch worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// Tokenizer is a SentencePiece-BPE tokenizer over a loaded XLM-R model.
type Tokenizer struct {
	engine *core.Engine
	vocab  *sentencepiece.Vocabulary
}

var _ api.Tokenizer = (*Tokenizer)(nil)

// New loads a SentencePiece ModelProto from modelPath and builds a
// Tokenizer.
func New(modelPath string, opts ...Option) (*Tokenizer, error) {
	v, err := sentencepiece.LoadModelFile(modelPath)
	if err != nil {
		return nil, err
	}
	return newFromVocab(v, opts...)
}

func newFromVocab(v *sentencepiece.Vocabulary, opts ...Option) (*Tokenizer, error) {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tokenizer{vocab: v}
	t.engine = &core.Engine{
		Vocab:   v,
		Segment: t.segment,
		Framer:  framer{bosID: v.BeginningOfSentenceID, eosID: v.EndOfSentenceID},
		Decoder: core.MetaspaceDecoder(),
		Workers: cfg.Workers,
	}
	return t, nil
}

// segment runs the SentencePiece-BPE pipeline: split on special-token
// literals (the control literals the vocabulary exposes), then BPE-segment
// every other segment as one flat, whitespace-preserving symbol stream.
func (t *Tokenizer) segment(text string) ([]api.Token, error) {
	specials := t.vocab.SpecialValues()
	runes := []rune(text)
	segments := pretokenize.SplitOnSpecialTokens(runes, specials)

	var tokens []api.Token
	for _, seg := range segments {
		if seg.IsSpecial {
			refs := make([]uint32, len(seg.Runes))
			for i := range refs {
				refs[i] = seg.Begin + uint32(i)
			}
			tokens = append(tokens, api.Token{
				Text:             string(seg.Runes),
				Offset:           &api.Offset{Begin: seg.Begin, End: seg.Begin + uint32(len(seg.Runes))},
				ReferenceOffsets: refs,
				Mask:             api.MaskSpecial,
			})
			continue
		}
		tokens = append(tokens, segment.SentencePiece(seg.Runes, seg.Begin, seg.Begin == 0, t.vocab)...)
	}
	return tokens, nil
}

// Tokenize implements api.Tokenizer.
func (t *Tokenizer) Tokenize(text string) ([]api.Token, error) { return t.engine.Tokenize(text) }

// TokenizeList implements api.Tokenizer.
func (t *Tokenizer) TokenizeList(texts []string) ([][]api.Token, error) {
	return t.engine.TokenizeList(texts)
}

// Encode implements api.Tokenizer.
func (t *Tokenizer) Encode(textA string, textB *string, opts api.EncodeOptions) (*api.TokenizedInput, error) {
	return t.engine.Encode(textA, textB, opts)
}

// EncodeList implements api.Tokenizer.
func (t *Tokenizer) EncodeList(texts []string, opts api.EncodeOptions) ([]*api.TokenizedInput, error) {
	return t.engine.EncodeList(texts, opts)
}

// EncodePairList implements api.Tokenizer.
func (t *Tokenizer) EncodePairList(pairs []api.TextPair, opts api.EncodeOptions) ([]*api.TokenizedInput, error) {
	return t.engine.EncodePairList(pairs, opts)
}

// Decode implements api.Tokenizer.
func (t *Tokenizer) Decode(ids []int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) string {
	return t.engine.Decode(ids, skipSpecialTokens, cleanUpTokenizationSpaces)
}

// BuildInputWithSpecialTokens implements api.Tokenizer.
func (t *Tokenizer) BuildInputWithSpecialTokens(idsA, idsB []int64, offsetsA, offsetsB []*api.Offset) api.BuiltInput {
	return t.engine.BuildInputWithSpecialTokens(idsA, idsB, offsetsA, offsetsB)
}

// framer implements core.Framer: "<s> A </s>" or "<s> A </s></s> B </s>".
type framer struct {
	bosID, eosID int64
}

func (f framer) NumSpecialTokensToAdd(pair bool) int {
	if pair {
		return 4
	}
	return 2
}

func (f framer) Build(idsA, idsB []int64, offsetsA, offsetsB []*api.Offset) api.BuiltInput {
	n := 2 + len(idsA)
	if idsB != nil {
		n += 2 + len(idsB)
	}
	out := api.BuiltInput{
		IDs:               make([]int64, 0, n),
		SegmentIDs:        make([]int8, 0, n),
		SpecialTokensMask: make([]int8, 0, n),
		Offsets:           make([]*api.Offset, 0, n),
	}

	push := func(id int64, seg int8, special int8, off *api.Offset) {
		out.IDs = append(out.IDs, id)
		out.SegmentIDs = append(out.SegmentIDs, seg)
		out.SpecialTokensMask = append(out.SpecialTokensMask, special)
		out.Offsets = append(out.Offsets, off)
	}

	push(f.bosID, 0, 1, nil)
	for i, id := range idsA {
		push(id, 0, 0, offsetsA[i])
	}
	push(f.eosID, 0, 1, nil)
	if idsB != nil {
		push(f.eosID, 1, 1, nil)
		for i, id := range idsB {
			push(id, 1, 0, offsetsB[i])
		}
		push(f.eosID, 1, 1, nil)
	}
	return out
}
