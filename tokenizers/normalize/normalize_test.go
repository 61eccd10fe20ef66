package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	s := NewSequence([]rune("a\x00b\tc"), 0)
	out := CleanText(s, false)
	assert.Equal(t, "a b\tc", out.String())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, out.Refs)

	out = CleanText(s, true)
	assert.Equal(t, "a b c", out.String())
}

func TestTokenizeCJK(t *testing.T) {
	s := NewSequence([]rune("a中c"), 10)
	out := TokenizeCJK(s)
	assert.Equal(t, "a 中 c", out.String())
	assert.Equal(t, []uint32{10, 11, 11, 11, 12}, out.Refs)
}

func TestWhitespaceTokenize(t *testing.T) {
	s := NewSequence([]rune("  hello   world  "), 0)
	words := WhitespaceTokenize(s)
	require.Len(t, words, 2)
	assert.Equal(t, "hello", words[0].String())
	assert.Equal(t, "world", words[1].String())
	assert.Equal(t, []uint32{2, 3, 4, 5, 6}, words[0].Refs)
}

func TestStripAccents(t *testing.T) {
	s := NewSequence([]rune("café"), 0)
	out := StripAccents(s)
	assert.Equal(t, "cafe", out.String())
	assert.Equal(t, []uint32{0, 1, 2, 3}, out.Refs)
}

func TestLowercase(t *testing.T) {
	s := NewSequence([]rune("HeLLo"), 5)
	out := Lowercase(s)
	assert.Equal(t, "hello", out.String())
	assert.Equal(t, []uint32{5, 6, 7, 8, 9}, out.Refs)
}

func TestSplitOnPunctuation(t *testing.T) {
	s := NewSequence([]rune("hello,world!"), 0)
	parts := SplitOnPunctuation(s, nil)
	require.Len(t, parts, 4)
	assert.Equal(t, "hello", parts[0].String())
	assert.Equal(t, ",", parts[1].String())
	assert.Equal(t, "world", parts[2].String())
	assert.Equal(t, "!", parts[3].String())
}

func TestSplitOnPunctuation_SpecialExemption(t *testing.T) {
	s := NewSequence([]rune("[CLS]"), 0)
	specials := map[string]bool{"[CLS]": true}
	parts := SplitOnPunctuation(s, specials)
	require.Len(t, parts, 1)
	assert.Equal(t, "[CLS]", parts[0].String())
}

func TestIsPunctuation(t *testing.T) {
	assert.True(t, IsPunctuation('!'))
	assert.True(t, IsPunctuation(','))
	assert.False(t, IsPunctuation('a'))
	assert.False(t, IsPunctuation(' '))
}
