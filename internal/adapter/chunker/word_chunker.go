package chunker

import (
	"fmt"
	"strings"

	"careerpilot/internal/domain"
	"careerpilot/internal/port"
)

// WordChunker splits text into windows of size whitespace-delimited words.
// Each window after the first starts with the last overlap words of the
// window before it.
type WordChunker struct {
	size    int
	overlap int
}

func NewWordChunker(size, overlap int) (*WordChunker, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	return &WordChunker{size: size, overlap: overlap}, nil
}

func (c *WordChunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string

	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))

		// the last window already reached the end of the token stream
		if end == len(words) {
			break
		}
	}

	return chunks
}

func validate(size, overlap int) error {
	if size <= 0 || overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: size=%d overlap=%d", domain.ErrInvalidChunking, size, overlap)
	}
	return nil
}

// New returns the chunker for mode ("word" or "recursive").
func New(mode string, size, overlap int) (port.TextChunker, error) {
	switch mode {
	case "", "word":
		return NewWordChunker(size, overlap)
	case "recursive":
		return NewRecursiveChunker(size, overlap)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidChunking, mode)
	}
}
