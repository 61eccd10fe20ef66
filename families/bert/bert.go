// Package bert implements the WordPiece family of tokenizers (BERT,
// DistilBERT, ELECTRA, ...): "[CLS] A [SEP]" / "[CLS] A [SEP] B [SEP]"
// framing over a greedy-longest-match WordPiece segmenter.
package bert

import (
	"github.com/corvid-labs/subtok/tokenizers/api"
	"github.com/corvid-labs/subtok/tokenizers/core"
	"github.com/corvid-labs/subtok/tokenizers/normalize"
	"github.com/corvid-labs/subtok/tokenizers/pretokenize"
	"github.com/corvid-labs/subtok/tokenizers/segment"
	"github.com/corvid-labs/subtok/tokenizers/vocab"
)

// Config configures a Tokenizer. Without options, New lowercases and
// strips accents, matching bert-base-uncased.
type Config struct {
	// Lowercase enables case folding, as in bert-base-uncased.
	Lowercase bool
	// StripAccents removes combining marks after NFD decomposition, as in
	// bert-base-uncased. Cased models (bert-base-cased) set this false.
	StripAccents bool
	// MaxInputCharsPerWord bounds the WordPiece greedy search; 0 uses
	// segment.DefaultMaxInputCharsPerWord.
	MaxInputCharsPerWord int
	// Workers bounds batch concurrency; 0 uses runtime.GOMAXPROCS(0).
	Workers int
}

// Option mutates a Config.
type Option func(*Config)

// WithCasing sets Lowercase and StripAccents together, the common case
// since HuggingFace's "uncased" checkpoints always pair the two.
func WithCasing(lowercase bool) Option {
	return func(c *Config) {
		c.Lowercase = lowercase
		c.StripAccents = lowercase
	}
}

// WithMaxInputCharsPerWord overrides the WordPiece greedy-search bound.
func WithMaxInputCharsPerWord(n int) Option {
	return func(c *Config) { c.MaxInputCharsPerWord = n }
}

// WithWorkers overrides the batch worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// Tokenizer is a WordPiece tokenizer over a loaded vocabulary.
type Tokenizer struct {
	engine *core.Engine
	vocab  *vocab.WordPieceVocabulary
	cfg    Config

	clsID, sepID int64
}

var _ api.Tokenizer = (*Tokenizer)(nil)

// New loads a WordPiece vocabulary from vocabPath and builds a Tokenizer.
func New(vocabPath string, opts ...Option) (*Tokenizer, error) {
	v, err := vocab.LoadWordPieceFile(vocabPath)
	if err != nil {
		return nil, err
	}
	return newFromVocab(v, opts...)
}

func newFromVocab(v *vocab.WordPieceVocabulary, opts ...Option) (*Tokenizer, error) {
	cfg := Config{Lowercase: true, StripAccents: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tokenizer{
		vocab:  v,
		cfg:    cfg,
		clsID:  v.TokenToID("[CLS]"),
		sepID:  v.TokenToID("[SEP]"),
	}
	t.engine = &core.Engine{
		Vocab:   v,
		Segment: t.segment,
		Framer:  framer{clsID: t.clsID, sepID: t.sepID},
		Decoder: core.WordPieceDecoder(v.ContinuationPrefix()),
		Workers: cfg.Workers,
	}
	return t, nil
}

// segment runs the WordPiece pipeline: split on special-token literals,
// clean text, spread out CJK ideographs,
// whitespace-split, optionally lowercase/strip-accents, split on
// punctuation, then WordPiece-segment each resulting piece.
func (t *Tokenizer) segment(text string) ([]api.Token, error) {
	specials := t.vocab.SpecialValues()
	runes := []rune(text)
	segments := pretokenize.SplitOnSpecialTokens(runes, specials)

	var tokens []api.Token
	for _, seg := range segments {
		if seg.IsSpecial {
			tokens = append(tokens, specialToken(seg))
			continue
		}
		clean := normalize.CleanText(normalize.NewSequence(seg.Runes, seg.Begin), true)
		spaced := normalize.TokenizeCJK(clean)
		for _, word := range normalize.WhitespaceTokenize(spaced) {
			if t.cfg.Lowercase {
				word = normalize.Lowercase(word)
			}
			if t.cfg.StripAccents {
				word = normalize.StripAccents(word)
			}
			for _, piece := range normalize.SplitOnPunctuation(word, specials) {
				tokens = append(tokens, segment.WordPiece(piece, t.vocab, t.cfg.MaxInputCharsPerWord)...)
			}
		}
	}
	return tokens, nil
}

func specialToken(seg pretokenize.Segment) api.Token {
	refs := make([]uint32, len(seg.Runes))
	for i := range refs {
		refs[i] = seg.Begin + uint32(i)
	}
	return api.Token{
		Text:             string(seg.Runes),
		Offset:           &api.Offset{Begin: seg.Begin, End: seg.Begin + uint32(len(seg.Runes))},
		ReferenceOffsets: refs,
		Mask:             api.MaskSpecial,
	}
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

// framer implements core.Framer: "[CLS] A [SEP]" or "[CLS] A [SEP] B [SEP]".
type framer struct {
	clsID, sepID int64
}

func (f framer) NumSpecialTokensToAdd(pair bool) int {
	if pair {
		return 3
	}
	return 2
}

func (f framer) Build(idsA, idsB []int64, offsetsA, offsetsB []*api.Offset) api.BuiltInput {
	n := 2 + len(idsA)
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

	push(f.clsID, 0, 1, nil)
	for i, id := range idsA {
		push(id, 0, 0, offsetsA[i])
	}
	push(f.sepID, 0, 1, nil)
	if idsB != nil {
		for i, id := range idsB {
			push(id, 1, 0, offsetsB[i])
		}
		push(f.sepID, 1, 1, nil)
	}
	return out
}
