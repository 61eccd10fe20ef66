package pretokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOnSpecialTokens_NoSpecials(t *testing.T) {
	segs := SplitOnSpecialTokens([]rune("hello world"), nil)
	require.Len(t, segs, 1)
	assert.False(t, segs[0].IsSpecial)
	assert.Equal(t, "hello world", string(segs[0].Runes))
}

func TestSplitOnSpecialTokens_Basic(t *testing.T) {
	specials := map[string]bool{"[CLS]": true, "[SEP]": true}
	segs := SplitOnSpecialTokens([]rune("[CLS]hello[SEP]"), specials)
	require.Len(t, segs, 3)
	assert.True(t, segs[0].IsSpecial)
	assert.Equal(t, "[CLS]", string(segs[0].Runes))
	assert.Equal(t, uint32(0), segs[0].Begin)
	assert.False(t, segs[1].IsSpecial)
	assert.Equal(t, "hello", string(segs[1].Runes))
	assert.Equal(t, uint32(5), segs[1].Begin)
	assert.True(t, segs[2].IsSpecial)
	assert.Equal(t, "[SEP]", string(segs[2].Runes))
}

func TestSplitOnSpecialTokens_LongestFirst(t *testing.T) {
	specials := map[string]bool{"en": true, "en_XX": true}
	segs := SplitOnSpecialTokens([]rune("en_XX hello"), specials)
	require.Len(t, segs, 2)
	assert.Equal(t, "en_XX", string(segs[0].Runes))
	assert.Equal(t, " hello", string(segs[1].Runes))
}

func TestSplitOnSpecialTokens_NoMatch(t *testing.T) {
	specials := map[string]bool{"[CLS]": true}
	segs := SplitOnSpecialTokens([]rune("plain text"), specials)
	require.Len(t, segs, 1)
	assert.False(t, segs[0].IsSpecial)
}
