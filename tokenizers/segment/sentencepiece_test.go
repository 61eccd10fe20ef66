package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentencePiece_DummyPrefix(t *testing.T) {
	// No merges defined: every codepoint, plus a synthetic leading
	// metaspace (since the segment starts at global offset 0 and the
	// text itself doesn't start with a space), stays its own symbol.
	ranker := &fakeRanker{ranks: map[string]int{}}
	toks := SentencePiece([]rune("hi"), 0, true, ranker)
	require.Len(t, toks, 3)
	assert.Equal(t, metaspace, toks[0].Text)
	assert.Nil(t, toks[0].ReferenceOffsets)
	assert.Equal(t, "h", toks[1].Text)
	assert.Equal(t, []uint32{0}, toks[1].ReferenceOffsets)
	assert.Equal(t, "i", toks[2].Text)
	assert.Equal(t, []uint32{1}, toks[2].ReferenceOffsets)
}

func TestSentencePiece_RealSpaceSuppressesDummyPrefix(t *testing.T) {
	ranker := &fakeRanker{ranks: map[string]int{}}
	toks := SentencePiece([]rune(" hi"), 0, true, ranker)
	require.Len(t, toks, 3)
	assert.Equal(t, metaspace, toks[0].Text)
	assert.Equal(t, []uint32{0}, toks[0].ReferenceOffsets)
}

func TestSentencePiece_NotAtGlobalStart_NoDummyPrefix(t *testing.T) {
	ranker := &fakeRanker{ranks: map[string]int{}}
	toks := SentencePiece([]rune("hi"), 4, false, ranker)
	require.Len(t, toks, 2)
	assert.Equal(t, "h", toks[0].Text)
	assert.Equal(t, []uint32{4}, toks[0].ReferenceOffsets)
}

func TestSentencePiece_MergesAcrossSpace(t *testing.T) {
	// "▁is" merges across the separating space, so the space's ref ends
	// up inside the following content token's ReferenceOffsets.
	ranker := &fakeRanker{ranks: map[string]int{"▁i": 0, "▁is": 1}}
	toks := SentencePiece([]rune(" is"), 4, false, ranker)
	require.Len(t, toks, 1)
	assert.Equal(t, "▁is", toks[0].Text)
	assert.Equal(t, []uint32{4, 5, 6}, toks[0].ReferenceOffsets)
}
