package bert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/subtok/tokenizers/api"
	"github.com/corvid-labs/subtok/tokenizers/vocab"
)

func testTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	content := "[PAD]\n[UNK]\n[CLS]\n[SEP]\n[MASK]\nhello\nworld\n##ing\nwalk\nhow\nare\nyou\n,\n"
	v, err := vocab.LoadWordPieceContent("vocab.txt", []byte(content))
	require.NoError(t, err)
	tok, err := newFromVocab(v, WithCasing(true))
	require.NoError(t, err)
	return tok
}

func TestTokenize_Basic(t *testing.T) {
	tok := testTokenizer(t)
	toks, err := tok.Tokenize("Hello world")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "hello", toks[0].Text)
	assert.Equal(t, &api.Offset{Begin: 0, End: 5}, toks[0].Offset)
	assert.Equal(t, "world", toks[1].Text)
	assert.Equal(t, &api.Offset{Begin: 6, End: 11}, toks[1].Offset)
}

func TestTokenize_Punctuation(t *testing.T) {
	tok := testTokenizer(t)
	toks, err := tok.Tokenize("how are you, walking")
	require.NoError(t, err)
	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.Text)
	}
	assert.Equal(t, []string{"how", "are", "you", ",", "walk", "##ing"}, texts)
}

func TestEncode_SingleSequence(t *testing.T) {
	tok := testTokenizer(t)
	out, err := tok.Encode("hello world", nil, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)

	clsID := tok.vocab.TokenToID("[CLS]")
	sepID := tok.vocab.TokenToID("[SEP]")
	helloID := tok.vocab.TokenToID("hello")
	worldID := tok.vocab.TokenToID("world")
	assert.Equal(t, []int64{clsID, helloID, worldID, sepID}, out.TokenIDs)
	assert.Equal(t, []int8{1, 0, 0, 1}, out.SpecialTokensMask)
	assert.Equal(t, []int8{0, 0, 0, 0}, out.SegmentIDs)
	assert.Nil(t, out.TokenOffsets[0])
	assert.Equal(t, &api.Offset{Begin: 0, End: 5}, out.TokenOffsets[1])
}

func TestEncode_Pair(t *testing.T) {
	tok := testTokenizer(t)
	second := "world"
	out, err := tok.Encode("hello", &second, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)

	clsID := tok.vocab.TokenToID("[CLS]")
	sepID := tok.vocab.TokenToID("[SEP]")
	helloID := tok.vocab.TokenToID("hello")
	worldID := tok.vocab.TokenToID("world")
	assert.Equal(t, []int64{clsID, helloID, sepID, worldID, sepID}, out.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 1, 1}, out.SegmentIDs)
}

func TestEncode_Truncation(t *testing.T) {
	tok := testTokenizer(t)
	out, err := tok.Encode("how are you", nil, api.EncodeOptions{
		MaxLen: 4, Strategy: api.LongestFirst,
	})
	require.NoError(t, err)
	assert.Len(t, out.TokenIDs, 4)
	assert.Equal(t, uint32(1), out.NumTruncatedTokens)
	assert.Len(t, out.OverflowingTokens, 1)
}

func TestDecode(t *testing.T) {
	tok := testTokenizer(t)
	out, err := tok.Encode("walking", nil, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)
	text := tok.Decode(out.TokenIDs, true, true)
	assert.Equal(t, "walking", text)
}

func TestEncodeList_PreservesOrder(t *testing.T) {
	tok := testTokenizer(t)
	results, err := tok.EncodeList([]string{"hello", "world", "how are you"}, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)
	require.Len(t, results, 3)
	helloID := tok.vocab.TokenToID("hello")
	assert.Equal(t, helloID, results[0].TokenIDs[1])
}
