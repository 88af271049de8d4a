package port

// TextChunker splits raw text into overlapping windows. Implementations are
// deterministic: the same input always yields the same chunk sequence.
type TextChunker interface {
	Chunk(text string) []string
}
