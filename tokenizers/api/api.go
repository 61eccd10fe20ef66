// Package api defines the Tokenizer API: the data model shared by every
// vocabulary loader, pipeline stage and per-family tokenizer.
// It's just a hack to break the cyclic dependency, and allow users to
// import a family package (families/bert, families/xlmroberta, ...) and
// get a ready-to-use implementation without that package importing core
// and core importing it back.
package api

// Offset represents the codepoint span of a token in the original text:
// half-open [Begin, End), indexing codepoints, never bytes.
type Offset struct {
	Begin uint32
	End   uint32
}

// Mask classifies a token for the TokenizedInput.Mask sequence.
type Mask int

const (
	MaskUnfilled Mask = iota
	MaskSpecial
	MaskWhitespace
	MaskPunctuation
	MaskCJK
	MaskUnknown
	MaskContinuation
	MaskBegin
)

//go:generate enumer -type=Mask -trimprefix=Mask -transform=snake -values -text -json api.go

func (m Mask) String() string {
	switch m {
	case MaskSpecial:
		return "Special"
	case MaskWhitespace:
		return "Whitespace"
	case MaskPunctuation:
		return "Punctuation"
	case MaskCJK:
		return "CJK"
	case MaskUnknown:
		return "Unknown"
	case MaskContinuation:
		return "Continuation"
	case MaskBegin:
		return "Begin"
	default:
		return "Unfilled"
	}
}

// Token is one subword piece produced by the segmenter, together with its
// provenance in the original input.
//
// ReferenceOffsets lists every original codepoint index that contributed
// to this piece; it is non-empty, strictly increasing, and Offset is
// derived from it (Begin = min, End = max+1) for every non-synthetic
// token. Synthetic framing tokens (e.g. [CLS]) carry a nil Offset and an
// empty ReferenceOffsets.
type Token struct {
	Text             string
	Offset           *Offset
	ReferenceOffsets []uint32
	Mask             Mask
}

// TruncationStrategy selects how Encode drops pieces when the combined
// length of the input(s) plus framing overhead exceeds MaxLen.
type TruncationStrategy int

const (
	LongestFirst TruncationStrategy = iota
	OnlyFirst
	OnlySecond
	DoNotTruncate
)

// EncodeOptions parametrizes Encode/EncodeList/EncodePairList.
type EncodeOptions struct {
	MaxLen   int
	Strategy TruncationStrategy
	Stride   int
}

// TextPair is one (first, second) sentence pair passed to EncodePairList.
type TextPair struct {
	First  string
	Second string
}

// TokenizedInput is the final output record of Encode.
type TokenizedInput struct {
	TokenIDs           []int64
	SegmentIDs         []int8
	SpecialTokensMask  []int8
	OverflowingTokens  []int64
	NumTruncatedTokens uint32
	TokenOffsets       []*Offset
	ReferenceOffsets   [][]uint32
	Mask               []Mask
}

// BuiltInput is the framed id sequence before truncation, returned by
// BuildInputWithSpecialTokens, alongside its segment/special-token masks
// and per-id offsets.
type BuiltInput struct {
	IDs               []int64
	SegmentIDs        []int8
	SpecialTokensMask []int8
	Offsets           []*Offset
}

// Tokenizer is the full public surface a family package (bert,
// xlmroberta, mbart50) exposes.
type Tokenizer interface {
	// Tokenize splits text into subword Tokens with offsets, without
	// framing, truncation or id mapping.
	Tokenize(text string) ([]Token, error)
	// TokenizeList applies Tokenize independently to each input, in
	// input order, using a bounded worker pool.
	TokenizeList(texts []string) ([][]Token, error)

	// Encode frames, truncates and ids text (or a text pair, if textB is
	// non-nil) into a TokenizedInput.
	Encode(textA string, textB *string, opts EncodeOptions) (*TokenizedInput, error)
	// EncodeList applies Encode to single texts in input order.
	EncodeList(texts []string, opts EncodeOptions) ([]*TokenizedInput, error)
	// EncodePairList applies Encode to sentence pairs in input order.
	EncodePairList(pairs []TextPair, opts EncodeOptions) ([]*TokenizedInput, error)

	// Decode maps ids back to text.
	Decode(ids []int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) string

	// BuildInputWithSpecialTokens applies family-specific framing to one
	// or two already-id-mapped sequences, without truncation.
	BuildInputWithSpecialTokens(idsA, idsB []int64, offsetsA, offsetsB []*Offset) BuiltInput
}
