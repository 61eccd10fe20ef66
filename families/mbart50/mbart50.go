// Package mbart50 implements the MBART-50 family: SentencePiece-BPE
// segmentation under "<lang> A </s>" framing, where <lang> is one of the
// model's fixed set of language-code literals and must appear as the
// leading token of the input text.
package mbart50

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

// Tokenizer is a SentencePiece-BPE tokenizer over a loaded MBART-50 model,
// framing every input with its leading language code.
type Tokenizer struct {
	engine      *core.Engine
	vocab       *sentencepiece.Vocabulary
	languageIDs map[int64]bool
}

var _ api.Tokenizer = (*Tokenizer)(nil)

// New loads a SentencePiece ModelProto from modelPath and builds a
// Tokenizer. The model must define at least one user-defined language-code
// piece (SentencePiece type USER_DEFINED); see
// sentencepiece.Vocabulary.LanguageTokens.
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

	languageIDs := make(map[int64]bool, len(v.LanguageTokens))
	for _, lang := range v.LanguageTokens {
		languageIDs[v.TokenToID(lang)] = true
	}

	t := &Tokenizer{vocab: v, languageIDs: languageIDs}
	t.engine = &core.Engine{
		Vocab:   v,
		Segment: t.segment,
		Framer:  framer{eosID: v.EndOfSentenceID, languageIDs: languageIDs},
		Decoder: core.MetaspaceDecoder(),
		Workers: cfg.Workers,
	}
	return t, nil
}

// segment requires the leading whitespace-delimited literal to be a
// recognized language code, after which the remainder is
// SentencePiece-BPE segmented exactly like XLM-R.
func (t *Tokenizer) segment(text string) ([]api.Token, error) {
	specials := t.vocab.SpecialValues()
	runes := []rune(text)
	segments := pretokenize.SplitOnSpecialTokens(runes, specials)

	if len(segments) == 0 || !segments[0].IsSpecial || !t.languageIDs[t.vocab.TokenToID(string(segments[0].Runes))] {
		return nil, &api.TokenizationError{
			Kind:   api.ErrInvalidLanguage,
			Detail: "input must begin with a recognized MBART-50 language code",
		}
	}

	tokens := []api.Token{{Text: string(segments[0].Runes), Mask: api.MaskSpecial}}
	for _, seg := range segments[1:] {
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
		tokens = append(tokens, segment.SentencePiece(seg.Runes, seg.Begin, false, t.vocab)...)
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

// framer implements core.Framer: "<lang> A </s>" or "<lang> A </s> B </s>".
// idsA[0] is always the already-validated leading language-code id (see
// Tokenizer.segment); Build does not re-validate it.
type framer struct {
	eosID       int64
	languageIDs map[int64]bool
}

// NumSpecialTokensToAdd counts only the tokens Build actually synthesizes:
// the leading language code is already present in idsA (segment carves it
// out of the input text itself, see Tokenizer.segment), so only the two
// "</s>" separators (one after A, one after B) are truly synthetic — one
// of them for a single sequence, both for a pair.
func (f framer) NumSpecialTokensToAdd(pair bool) int {
	if pair {
		return 2
	}
	return 1
}

func (f framer) Build(idsA, idsB []int64, offsetsA, offsetsB []*api.Offset) api.BuiltInput {
	n := 1 + len(idsA)
	if idsB != nil {
		n += 1 + len(idsB)
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

	for i, id := range idsA {
		special := int8(0)
		if i == 0 && f.languageIDs[id] {
			special = 1
		}
		push(id, 0, special, offsetsA[i])
	}
	push(f.eosID, 0, 1, nil)
	if idsB != nil {
		for i, id := range idsB {
			push(id, 1, 0, offsetsB[i])
		}
		push(f.eosID, 1, 1, nil)
	}
	return out
}
