package port

// TextExtractor turns a source file into raw text.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// SourceExpander resolves build source arguments (plain paths or glob
// patterns) into concrete file paths.
type SourceExpander interface {
	Expand(patterns []string) ([]string, error)
}
