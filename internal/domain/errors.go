package domain

import (
	"errors"
	"fmt"
)

// Build and query errors.
var (
	// ErrExtraction indicates a single source document could not be read.
	// Builds skip such sources and continue.
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnsupportedFormat indicates no extractor handles the file extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoDocuments indicates every source failed or produced zero chunks.
	ErrNoDocuments = errors.New("no documents to index")

	// ErrNoIndex indicates a query ran with nothing built or persisted.
	ErrNoIndex = errors.New("no index built")

	// ErrInvalidChunking indicates chunk size/overlap do not satisfy 0 <= overlap < size.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrInvalidCorpus indicates a corpus name that cannot be used as a file name.
	ErrInvalidCorpus = errors.New("invalid corpus name")
)

// Index integrity errors. These indicate a bug or a damaged index file and
// must not be swallowed.
var (
	// ErrIndexOutOfRange indicates the document store and vector index have drifted.
	ErrIndexOutOfRange = errors.New("row index out of range")

	// ErrCorruptIndex indicates a persisted index failed validation.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingMismatch indicates a persisted index was built by a
	// different embedding model than the one configured.
	ErrEmbeddingMismatch = errors.New("embedding model mismatch")
)

// Embedding backend errors.
var (
	// ErrAuth indicates missing or rejected credentials. Not retryable.
	ErrAuth = errors.New("embedding authentication failed")

	// ErrTransient indicates a network, timeout or rate-limit failure.
	// Callers may retry with backoff.
	ErrTransient = errors.New("transient embedding failure")

	// ErrFatal indicates a malformed response or rejected request. Not retryable.
	ErrFatal = errors.New("fatal embedding failure")

	// ErrModelLoad indicates a local embedding model could not be materialized.
	ErrModelLoad = errors.New("embedding model load failed")
)

// ExtractionError wraps the failure to extract text from one source.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is reports ExtractionError as ErrExtraction.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// IsRetryable reports whether err is worth retrying with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
