package chunker

import (
	"strings"
	"unicode/utf8"
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveChunker splits text into chunks of at most size characters,
// preferring paragraph, then line, then word, then character boundaries.
// A finer separator is only tried when a piece is still too large.
type RecursiveChunker struct {
	size       int
	overlap    int
	separators []string
}

func NewRecursiveChunker(size, overlap int) (*RecursiveChunker, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	return &RecursiveChunker{
		size:       size,
		overlap:    overlap,
		separators: defaultSeparators,
	}, nil
}

func (c *RecursiveChunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.split(text, c.separators)
}

func (c *RecursiveChunker) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var finer []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			finer = separators[i+1:]
			break
		}
	}

	var chunks []string
	var small []string

	for _, piece := range splitOn(text, sep) {
		if piece == "" {
			continue
		}
		if length(piece) < c.size {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			chunks = append(chunks, c.merge(small, sep)...)
			small = nil
		}
		if len(finer) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, c.split(piece, finer)...)
		}
	}
	if len(small) > 0 {
		chunks = append(chunks, c.merge(small, sep)...)
	}

	return chunks
}

// merge packs pieces into chunks of at most size characters. Each new chunk
// starts with the trailing pieces of the previous one, up to overlap characters.
func (c *RecursiveChunker) merge(pieces []string, sep string) []string {
	sepLen := length(sep)
	var chunks []string
	var current []string
	total := 0

	joined := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	for _, p := range pieces {
		l := length(p)
		if total+l+joined(len(current)) > c.size {
			if len(current) > 0 {
				if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
					chunks = append(chunks, doc)
				}
				for total > c.overlap || (total > 0 && total+l+joined(len(current)) > c.size) {
					total -= length(current[0]) + joined(len(current)-1)
					current = current[1:]
				}
			}
		}
		current = append(current, p)
		total += l + joined(len(current)-1)
	}

	if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
		chunks = append(chunks, doc)
	}
	return chunks
}

func splitOn(text, sep string) []string {
	if sep != "" {
		return strings.Split(text, sep)
	}
	out := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
