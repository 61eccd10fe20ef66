package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/subtok/tokenizers/api"
	"github.com/corvid-labs/subtok/tokenizers/normalize"
)

// fakeVocab is a minimal api.Vocabulary + api.ContinuationPrefixer for
// segmenter unit tests, independent of the file-backed loaders.
type fakeVocab struct {
	tokens map[string]bool
}

func (v *fakeVocab) TokenToID(s string) int64 {
	if v.tokens[s] {
		return 1
	}
	return 0
}
func (v *fakeVocab) IDToToken(id int64) string          { return "" }
func (v *fakeVocab) Contains(s string) bool             { return v.tokens[s] }
func (v *fakeVocab) UnknownValue() string               { return "[UNK]" }
func (v *fakeVocab) SpecialValues() map[string]bool     { return nil }
func (v *fakeVocab) Size() int                          { return len(v.tokens) }
func (v *fakeVocab) ContinuationPrefix() string         { return "##" }

var _ api.Vocabulary = (*fakeVocab)(nil)
var _ api.ContinuationPrefixer = (*fakeVocab)(nil)

func TestWordPiece_GreedyMatch(t *testing.T) {
	v := &fakeVocab{tokens: map[string]bool{
		"[UNK]": true, "walk": true, "##ing": true, "##ed": true,
	}}
	word := normalize.NewSequence([]rune("walking"), 3)
	toks := WordPiece(word, v, 0)
	require.Len(t, toks, 2)
	assert.Equal(t, "walk", toks[0].Text)
	assert.Equal(t, api.MaskBegin, toks[0].Mask)
	assert.Equal(t, &api.Offset{Begin: 3, End: 7}, toks[0].Offset)
	assert.Equal(t, "##ing", toks[1].Text)
	assert.Equal(t, api.MaskContinuation, toks[1].Mask)
	assert.Equal(t, &api.Offset{Begin: 7, End: 10}, toks[1].Offset)
}

func TestWordPiece_Unknown(t *testing.T) {
	v := &fakeVocab{tokens: map[string]bool{"[UNK]": true, "walk": true}}
	word := normalize.NewSequence([]rune("xyz"), 0)
	toks := WordPiece(word, v, 0)
	require.Len(t, toks, 1)
	assert.Equal(t, "[UNK]", toks[0].Text)
	assert.Equal(t, api.MaskUnknown, toks[0].Mask)
}

func TestWordPiece_TooLong(t *testing.T) {
	v := &fakeVocab{tokens: map[string]bool{"[UNK]": true, "ab": true}}
	word := normalize.NewSequence([]rune("ababab"), 0)
	toks := WordPiece(word, v, 3)
	require.Len(t, toks, 1)
	assert.Equal(t, "[UNK]", toks[0].Text)
}

func TestWordPiece_Empty(t *testing.T) {
	v := &fakeVocab{tokens: map[string]bool{"[UNK]": true}}
	toks := WordPiece(normalize.Sequence{}, v, 0)
	assert.Nil(t, toks)
}
