// Package sentencepiece implements the SentencePiece ModelProto vocabulary
// loader: the binary "tokenizer.model" file published by the
// SentencePiece project is itself a protobuf message, so this decodes it
// field-by-field with protowire rather than reimplementing a
// general-purpose protobuf parser or shelling out to protoc-generated
// code we cannot generate in this environment.
package sentencepiece

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// pieceType mirrors sentencepiece's ModelProto.SentencePiece.Type enum.
type pieceType int32

const (
	pieceNormal pieceType = iota + 1
	pieceUnknown
	pieceControl
	pieceUserDefined
	pieceUnused
	pieceByte
)

// rawPiece is one decoded SentencePiece message (ModelProto field 1,
// repeated).
type rawPiece struct {
	Piece string
	Score float32
	Type  pieceType
}

// parseModelProto walks the top-level ModelProto message, extracting
// every "pieces" (field 1) submessage and skipping all other fields
// (trainer_spec, normalizer_spec, self_test_data, ...) verbatim.
func parseModelProto(data []byte) ([]rawPiece, error) {
	var pieces []rawPiece
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrapf(protowire.ParseError(n), "malformed ModelProto tag")
		}
		data = data[n:]

		if num == 1 && typ == protowire.BytesType {
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "malformed SentencePiece submessage")
			}
			data = data[n:]
			p, err := parseSentencePiece(b)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, p)
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, errors.Wrapf(protowire.ParseError(n), "malformed ModelProto field %d", num)
		}
		data = data[n:]
	}
	return pieces, nil
}

// parseSentencePiece decodes one ModelProto.SentencePiece message: field 1
// piece (string), field 2 score (float32/fixed32), field 3 type (varint
// enum). Unrecognized fields (e.g. a removed "freq" legacy field) are
// skipped.
func parseSentencePiece(data []byte) (rawPiece, error) {
	p := rawPiece{Type: pieceNormal}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return rawPiece{}, errors.Wrapf(protowire.ParseError(n), "malformed SentencePiece tag")
		}
		data = data[n:]

		switch num {
		case 1:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return rawPiece{}, errors.Wrapf(protowire.ParseError(n), "malformed piece string")
			}
			p.Piece = string(b)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return rawPiece{}, errors.Wrapf(protowire.ParseError(n), "malformed score")
			}
			p.Score = math.Float32frombits(v)
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return rawPiece{}, errors.Wrapf(protowire.ParseError(n), "malformed type")
			}
			p.Type = pieceType(v)
			data = data[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return rawPiece{}, errors.Wrapf(protowire.ParseError(n), "malformed SentencePiece field %d", num)
			}
			data = data[n:]
		}
	}
	return p, nil
}
