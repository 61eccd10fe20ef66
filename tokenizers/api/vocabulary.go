package api

// Vocabulary is the bidirectional string<->id mapping every segmenter and
// framer consults. Implementations (vocab/wordpiece, vocab/sentencepiece)
// are built once from a file and are safe for concurrent read-only use by
// many tokenization calls.
type Vocabulary interface {
	// TokenToID returns the id of s, or the id of UnknownValue() if s is
	// not present.
	TokenToID(s string) int64
	// IDToToken returns the piece text for id, or a well-defined
	// placeholder for unassigned ids.
	IDToToken(id int64) string
	// Contains reports whether s is present verbatim in the vocabulary
	// (distinct from TokenToID, which always succeeds via the unknown
	// fallback).
	Contains(s string) bool

	// UnknownValue is the literal unknown-token string (e.g. "[UNK]",
	// "<unk>").
	UnknownValue() string
	// SpecialValues returns the set of literal strings (e.g. "[CLS]",
	// "</s>", "en_XX") that the pre-tokenizer must keep intact.
	SpecialValues() map[string]bool

	// Size returns the number of ids in the vocabulary.
	Size() int
}

// ContinuationPrefixer is implemented by WordPiece vocabularies to expose
// the "##" continuation marker.
type ContinuationPrefixer interface {
	ContinuationPrefix() string
}

// MergeRanker is implemented by SentencePiece-BPE vocabularies to expose
// the merge priority of a candidate merged piece. Lower rank merges
// first; ok is false if the piece never merges (absent from the model).
type MergeRanker interface {
	MergeRank(mergedPiece string) (rank int, ok bool)
}
