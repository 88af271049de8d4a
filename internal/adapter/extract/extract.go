package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"careerpilot/internal/domain"
)

// Func extracts raw text from file contents.
type Func func(data []byte) (string, error)

// Registry dispatches extraction by lower-cased file extension.
type Registry struct {
	byExt map[string]Func
}

// NewRegistry returns a registry that handles plain text, Markdown, PDF,
// DOCX and XLSX files.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Func)}
	r.Register(PlainText, ".txt", ".md", ".markdown")
	r.Register(PDF, ".pdf")
	r.Register(DOCX, ".docx")
	r.Register(XLSX, ".xlsx")
	return r
}

// Register installs fn for each extension, replacing any previous handler.
func (r *Registry) Register(fn Func, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = fn
	}
}

// Supports reports whether a handler exists for path's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract reads path and returns its text. Every failure is an
// *domain.ExtractionError.
func (r *Registry) Extract(path string) (string, error) {
	fn, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", &domain.ExtractionError{Path: path, Err: domain.ErrUnsupportedFormat}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &domain.ExtractionError{Path: path, Err: err}
	}

	text, err := fn(data)
	if err != nil {
		return "", &domain.ExtractionError{Path: path, Err: err}
	}
	return text, nil
}

func PlainText(data []byte) (string, error) {
	return string(data), nil
}

// PDF extracts the text of every page. Pages that fail to extract are
// skipped; if no page yields text the first page error is returned.
func PDF(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to count pdf pages: %w", err)
	}

	var sb strings.Builder
	var firstErr error
	extracted := 0
	for i := 1; i <= numPages; i++ {
		text, err := pdfPageText(reader, i)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", i, err)
			}
			continue
		}
		extracted++
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if extracted == 0 && firstErr != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", firstErr)
	}
	return sb.String(), nil
}

func pdfPageText(reader *model.PdfReader, num int) (string, error) {
	page, err := reader.GetPage(num)
	if err != nil {
		return "", err
	}
	ex, err := extractor.New(page)
	if err != nil {
		return "", err
	}
	return ex.ExtractText()
}

// DOCX extracts paragraph text, one paragraph per line.
func DOCX(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// XLSX extracts every sheet row as tab-separated cells.
func XLSX(data []byte) (string, error) {
	ss, err := spreadsheet.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse xlsx: %w", err)
	}
	defer ss.Close()

	var sb strings.Builder
	for _, sheet := range ss.Sheets() {
		for _, row := range sheet.Rows() {
			var cells []string
			for _, cell := range row.Cells() {
				cells = append(cells, cell.GetString())
			}
			if len(cells) > 0 {
				sb.WriteString(strings.Join(cells, "\t"))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
