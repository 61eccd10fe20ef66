package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskString(t *testing.T) {
	assert.Equal(t, "Special", MaskSpecial.String())
	assert.Equal(t, "Unfilled", Mask(99).String())
}

func TestVocabularyErrorMessage(t *testing.T) {
	err := &VocabularyError{Path: "vocab.txt", Reason: "missing [CLS]", CorrelationID: "abc-123"}
	assert.Contains(t, err.Error(), "vocab.txt")
	assert.Contains(t, err.Error(), "missing [CLS]")
	assert.Contains(t, err.Error(), "abc-123")
}

func TestTokenizationErrorMessage(t *testing.T) {
	err := &TokenizationError{Kind: ErrInvalidLanguage, Detail: "no language code"}
	assert.Contains(t, err.Error(), "InvalidLanguage")
	assert.Contains(t, err.Error(), "no language code")
}
