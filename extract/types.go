package extract

// Format identifies a supported document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatTXT  Format = "txt"
)

// Unknown is the placeholder for PDF/DOCX metadata fields that are absent
// or empty in the source document.
const Unknown = "Unknown"

// Metadata holds descriptive fields for one extracted document.
// Every format sets "filetype"; PDF and DOCX additionally carry
// "title", "author" and "creation_date" (Unknown when absent), plus
// "pages" (PDF) or "paragraphs" (DOCX) as ints.
type Metadata map[string]any

// Field returns the named metadata value as a string, or fallback when the
// key is absent or not a string.
func (m Metadata) Field(key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Result is the outcome of extracting one document.
// Text is stripped of leading and trailing whitespace; an empty Text is a
// valid result meaning the document contains no extractable text.
type Result struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}
