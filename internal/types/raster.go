package types

// SourceFormat identifies how an input document was interpreted.
type SourceFormat string

// Recognised input formats.
const (
	FormatPDF     SourceFormat = "pdf"
	FormatDOCX    SourceFormat = "docx"
	FormatText    SourceFormat = "text"
	FormatUnknown SourceFormat = "unknown"
)

// PageImage is one rendered page or viewport segment of a document.
type PageImage struct {
	Index    int    `json:"index"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// RasterizedDocument is the ordered list of page images produced from an input file or text.
type RasterizedDocument struct {
	Format   SourceFormat `json:"format"`
	FileName string       `json:"file_name,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
	Pages    []PageImage  `json:"pages"`
}

// PageCount returns the number of images.
func (d *RasterizedDocument) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}
