package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrExtraction", ErrExtraction},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrNoIndex", ErrNoIndex},
		{"ErrInvalidChunking", ErrInvalidChunking},
		{"ErrInvalidCorpus", ErrInvalidCorpus},
		{"ErrIndexOutOfRange", ErrIndexOutOfRange},
		{"ErrCorruptIndex", ErrCorruptIndex},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmbeddingMismatch", ErrEmbeddingMismatch},
		{"ErrAuth", ErrAuth},
		{"ErrTransient", ErrTransient},
		{"ErrFatal", ErrFatal},
		{"ErrModelLoad", ErrModelLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{Path: "/tmp/cv.pdf", Err: os.ErrNotExist}

	assert.True(t, errors.Is(err, ErrExtraction))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, ErrNoDocuments))
	assert.Contains(t, err.Error(), "/tmp/cv.pdf")

	var target *ExtractionError
	wrapped := fmt.Errorf("build: %w", err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "/tmp/cv.pdf", target.Path)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("%w: status 429", ErrTransient)))
	assert.False(t, IsRetryable(fmt.Errorf("%w: status 401", ErrAuth)))
	assert.False(t, IsRetryable(ErrFatal))
	assert.False(t, IsRetryable(nil))
}
