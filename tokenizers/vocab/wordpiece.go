// Package vocab implements the WordPiece vocabulary loader: a
// HuggingFace-style vocab.txt (one token per line, line number is the
// id) or a JSON object {"token": id}.
package vocab

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/corvid-labs/subtok/tokenizers/api"
)

// requiredWordPieceSpecials are validated at load time; a WordPiece
// vocabulary missing any of these cannot frame a BERT-style input.
var requiredWordPieceSpecials = []string{"[UNK]", "[CLS]", "[SEP]", "[MASK]", "[PAD]"}

// WordPieceVocabulary is an immutable, concurrency-safe string<->id
// mapping loaded from a WordPiece vocabulary file.
type WordPieceVocabulary struct {
	tokenToID map[string]int64
	idToToken map[int64]string
	specials  map[string]bool
	unknown   string
	prefix    string
}

var (
	_ api.Vocabulary           = (*WordPieceVocabulary)(nil)
	_ api.ContinuationPrefixer = (*WordPieceVocabulary)(nil)
)

// LoadWordPieceFile loads a vocabulary from path, auto-detecting JSON
// object vs newline-delimited plain-text format.
func LoadWordPieceFile(path string) (*WordPieceVocabulary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, vocabErr(path, errors.Wrapf(err, "failed to read vocabulary file").Error())
	}
	return LoadWordPieceContent(path, content)
}

// LoadWordPieceContent parses content (JSON object or newline-delimited
// text); path is used for error messages only.
func LoadWordPieceContent(path string, content []byte) (*WordPieceVocabulary, error) {
	tokenToID := make(map[string]int64)

	trimmed := strings.TrimSpace(string(content))
	if strings.HasPrefix(trimmed, "{") {
		var raw map[string]int64
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, vocabErr(path, errors.Wrapf(err, "malformed JSON vocabulary").Error())
		}
		tokenToID = raw
	} else {
		scanner := bufio.NewScanner(strings.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		var id int64
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			tokenToID[line] = id
			id++
		}
		if err := scanner.Err(); err != nil {
			return nil, vocabErr(path, errors.Wrapf(err, "failed scanning vocabulary file").Error())
		}
	}

	v := &WordPieceVocabulary{
		tokenToID: tokenToID,
		idToToken: make(map[int64]string, len(tokenToID)),
		specials:  make(map[string]bool),
		unknown:   "[UNK]",
		prefix:    "##",
	}
	for tok, id := range tokenToID {
		v.idToToken[id] = tok
	}
	for _, special := range requiredWordPieceSpecials {
		if _, ok := tokenToID[special]; !ok {
			return nil, vocabErr(path, "missing required special token "+special)
		}
		v.specials[special] = true
	}

	klog.V(2).InfoS("loaded WordPiece vocabulary", "path", path, "size", len(tokenToID))
	return v, nil
}

func vocabErr(path, reason string) *api.VocabularyError {
	return &api.VocabularyError{Path: path, Reason: reason, CorrelationID: uuid.NewString()}
}

func (v *WordPieceVocabulary) TokenToID(s string) int64 {
	if id, ok := v.tokenToID[s]; ok {
		return id
	}
	return v.tokenToID[v.unknown]
}

func (v *WordPieceVocabulary) IDToToken(id int64) string {
	if tok, ok := v.idToToken[id]; ok {
		return tok
	}
	return v.unknown
}

func (v *WordPieceVocabulary) Contains(s string) bool {
	_, ok := v.tokenToID[s]
	return ok
}

func (v *WordPieceVocabulary) UnknownValue() string { return v.unknown }

func (v *WordPieceVocabulary) SpecialValues() map[string]bool { return v.specials }

func (v *WordPieceVocabulary) Size() int { return len(v.tokenToID) }

func (v *WordPieceVocabulary) ContinuationPrefix() string { return v.prefix }
