package hub

import "strings"

// WordPieceVocabFile is the canonical file name WordPiece (BERT-family)
// checkpoints publish their vocabulary under.
const WordPieceVocabFile = "vocab.txt"

// SentencePieceModelFile is the canonical file name SentencePiece-BPE
// (XLM-R/MBART-50-family) checkpoints publish their model under.
const SentencePieceModelFile = "sentencepiece.bpe.model"

// ResolveVocabularyFile resolves the vocabulary asset published at
// baseURL+"/"+fileName (baseURL without a trailing slash), downloading it
// into the repo's cache if necessary, and returns the local path.
func (r *Repo) ResolveVocabularyFile(baseURL, fileName string) (string, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/" + fileName
	return r.ResolveFile(url)
}
