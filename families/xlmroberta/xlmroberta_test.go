package xlmroberta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/corvid-labs/subtok/tokenizers/api"
	"github.com/corvid-labs/subtok/tokenizers/vocab/sentencepiece"
)

func appendPiece(buf []byte, piece string, score float32, typ int32) []byte {
	var msg []byte
	msg = protowire.AppendTag(msg, 1, protowire.BytesType)
	msg = protowire.AppendBytes(msg, []byte(piece))
	msg = protowire.AppendTag(msg, 2, protowire.Fixed32Type)
	msg = protowire.AppendFixed32(msg, math.Float32bits(score))
	msg = protowire.AppendTag(msg, 3, protowire.VarintType)
	msg = protowire.AppendVarint(msg, uint64(typ))

	buf = protowire.AppendTag(buf, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, msg)
	return buf
}

const (
	pieceNormal      = 1
	pieceUnknownType = 2
	pieceControl     = 3
)

func testTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	var buf []byte
	buf = appendPiece(buf, "<unk>", 0, pieceUnknownType)
	buf = appendPiece(buf, "<s>", 0, pieceControl)
	buf = appendPiece(buf, "</s>", 0, pieceControl)
	buf = appendPiece(buf, "<pad>", 0, pieceControl)
	buf = appendPiece(buf, "▁is", -1, pieceNormal)
	buf = appendPiece(buf, "▁i", -2, pieceNormal)
	buf = appendPiece(buf, "s", -3, pieceNormal)
	buf = appendPiece(buf, "▁", -4, pieceNormal)
	buf = appendPiece(buf, "i", -5, pieceNormal)

	v, err := sentencepiece.LoadModelContent("test.model", buf)
	require.NoError(t, err)
	tok, err := newFromVocab(v)
	require.NoError(t, err)
	return tok
}

func TestTokenize_DummyPrefixAndMerge(t *testing.T) {
	tok := testTokenizer(t)
	toks, err := tok.Tokenize("is")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "▁is", toks[0].Text)
	assert.Equal(t, []uint32{0, 1}, toks[0].ReferenceOffsets)
}

func TestEncode_Framing(t *testing.T) {
	tok := testTokenizer(t)
	out, err := tok.Encode("is", nil, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)

	bosID := tok.vocab.TokenToID("<s>")
	eosID := tok.vocab.TokenToID("</s>")
	isID := tok.vocab.TokenToID("▁is")
	assert.Equal(t, []int64{bosID, isID, eosID}, out.TokenIDs)
	assert.Equal(t, []int8{1, 0, 1}, out.SpecialTokensMask)
}

func TestEncode_PairDoubleSeparator(t *testing.T) {
	tok := testTokenizer(t)
	second := "is"
	out, err := tok.Encode("is", &second, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)

	eosID := tok.vocab.TokenToID("</s>")
	assert.Equal(t, eosID, out.TokenIDs[2])
	assert.Equal(t, eosID, out.TokenIDs[3])
	assert.Equal(t, []int8{0, 0, 0, 1, 1, 1}, out.SegmentIDs)
}

func TestDecode_MetaspaceToSpace(t *testing.T) {
	tok := testTokenizer(t)
	out, err := tok.Encode("is", nil, api.EncodeOptions{Strategy: api.DoNotTruncate})
	require.NoError(t, err)
	text := tok.Decode(out.TokenIDs, true, true)
	assert.Equal(t, "is", text)
}
