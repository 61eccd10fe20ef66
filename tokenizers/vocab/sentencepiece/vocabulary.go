package sentencepiece

import (
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/corvid-labs/subtok/tokenizers/api"
)

// Reserved ids for the four always-present control pieces: bos=0, pad=1,
// eos=2, unk=3. See DESIGN.md for why this repo assigns these ids itself
// rather than trusting a fairseq-style id remap baked into the on-disk
// model, which this repo has no reference copy of to validate against
// byte-for-byte.
const (
	idBeginningOfSentence int64 = 0
	idPad                 int64 = 1
	idEndOfSentence       int64 = 2
	idUnknown             int64 = 3
	firstOrdinaryID       int64 = 4
)

// Vocabulary is an immutable, concurrency-safe SentencePiece-BPE
// vocabulary: string<->id mapping plus per-piece merge priority derived
// from the model's piece scores.
type Vocabulary struct {
	tokenToID map[string]int64
	idToToken map[int64]string
	specials  map[string]bool
	mergeRank map[string]int

	UnknownID             int64
	PadID                 int64
	BeginningOfSentenceID int64
	EndOfSentenceID       int64

	// LanguageTokens holds the MBART-50 "<lang>"-style literals, in
	// vocabulary order, empty for plain XLM-R models.
	LanguageTokens []string
}

var (
	_ api.Vocabulary  = (*Vocabulary)(nil)
	_ api.MergeRanker = (*Vocabulary)(nil)
)

// LoadModelFile loads a SentencePiece ModelProto from path.
func LoadModelFile(path string) (*Vocabulary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, vocabErr(path, errors.Wrapf(err, "failed to read SentencePiece model").Error())
	}
	return LoadModelContent(path, content)
}

// LoadModelContent parses a SentencePiece ModelProto already read into
// memory; path is used for error messages only.
func LoadModelContent(path string, content []byte) (*Vocabulary, error) {
	pieces, err := parseModelProto(content)
	if err != nil {
		return nil, vocabErr(path, err.Error())
	}
	if len(pieces) == 0 {
		return nil, vocabErr(path, "SentencePiece model contains no pieces")
	}

	v := &Vocabulary{
		tokenToID:             make(map[string]int64, len(pieces)+firstOrdinaryIDPadding),
		idToToken:             make(map[int64]string, len(pieces)+firstOrdinaryIDPadding),
		specials:              make(map[string]bool),
		mergeRank:             make(map[string]int, len(pieces)),
		UnknownID:             idUnknown,
		PadID:                 idPad,
		BeginningOfSentenceID: idBeginningOfSentence,
		EndOfSentenceID:       idEndOfSentence,
	}

	var normal, userDefined []rawPiece
	nextID := firstOrdinaryID
	for _, p := range pieces {
		switch p.Type {
		case pieceUnknown:
			v.tokenToID[p.Piece] = idUnknown
			v.idToToken[idUnknown] = p.Piece
			v.specials[p.Piece] = true
		case pieceControl:
			id, recognized := controlID(p.Piece)
			if !recognized {
				// An uncommon extra control piece beyond the four
				// canonical ones: give it its own ordinary-range id
				// rather than colliding with a reserved control id.
				id = nextID
				nextID++
			}
			v.tokenToID[p.Piece] = id
			v.idToToken[id] = p.Piece
			v.specials[p.Piece] = true
		case pieceUserDefined:
			// Language codes take ids after every other piece, below.
			userDefined = append(userDefined, p)
		case pieceUnused, pieceByte:
			// Not used by the segmenter or the framer; kept out of the
			// id space entirely rather than wasted on a placeholder.
		default: // pieceNormal
			v.tokenToID[p.Piece] = nextID
			v.idToToken[nextID] = p.Piece
			nextID++
			normal = append(normal, p)
		}
	}
	for _, p := range userDefined {
		v.tokenToID[p.Piece] = nextID
		v.idToToken[nextID] = p.Piece
		v.specials[p.Piece] = true
		v.LanguageTokens = append(v.LanguageTokens, p.Piece)
		nextID++
	}

	if _, ok := v.idToToken[idBeginningOfSentence]; !ok {
		return nil, vocabErr(path, "missing required control piece <s>")
	}
	if _, ok := v.idToToken[idEndOfSentence]; !ok {
		return nil, vocabErr(path, "missing required control piece </s>")
	}
	if _, ok := v.idToToken[idPad]; !ok {
		return nil, vocabErr(path, "missing required control piece <pad>")
	}
	if _, ok := v.idToToken[idUnknown]; !ok {
		return nil, vocabErr(path, "missing required unknown piece")
	}

	// Merge priority: sort NORMAL pieces by score descending (sentence-
	// piece convention: a higher score is a more confident subword,
	// merged earlier) and assign a dense rank by that order.
	sort.SliceStable(normal, func(i, j int) bool { return normal[i].Score > normal[j].Score })
	for rank, p := range normal {
		v.mergeRank[p.Piece] = rank
	}

	klog.V(2).InfoS("loaded SentencePiece vocabulary", "path", path, "size", len(v.tokenToID), "languageTokens", len(v.LanguageTokens))
	return v, nil
}

const firstOrdinaryIDPadding = 8

// controlID maps the four canonical control-piece literals to their
// reserved ids. ok is false for any other control piece, which the
// caller must assign an ordinary-range id instead.
func controlID(piece string) (id int64, ok bool) {
	switch piece {
	case "<s>":
		return idBeginningOfSentence, true
	case "</s>":
		return idEndOfSentence, true
	case "<pad>":
		return idPad, true
	case "<unk>":
		return idUnknown, true
	default:
		return 0, false
	}
}

func vocabErr(path, reason string) *api.VocabularyError {
	return &api.VocabularyError{Path: path, Reason: reason, CorrelationID: uuid.NewString()}
}

func (v *Vocabulary) TokenToID(s string) int64 {
	if id, ok := v.tokenToID[s]; ok {
		return id
	}
	return v.UnknownID
}

func (v *Vocabulary) IDToToken(id int64) string {
	if tok, ok := v.idToToken[id]; ok {
		return tok
	}
	return v.idToToken[v.UnknownID]
}

func (v *Vocabulary) Contains(s string) bool {
	_, ok := v.tokenToID[s]
	return ok
}

func (v *Vocabulary) UnknownValue() string { return v.idToToken[v.UnknownID] }

func (v *Vocabulary) SpecialValues() map[string]bool { return v.specials }

func (v *Vocabulary) Size() int { return len(v.tokenToID) }

// MergeRank implements api.MergeRanker: lower rank merges first.
func (v *Vocabulary) MergeRank(mergedPiece string) (int, bool) {
	r, ok := v.mergeRank[mergedPiece]
	return r, ok
}
