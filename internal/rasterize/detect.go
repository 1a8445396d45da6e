package rasterize

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/resume-studio/internal/types"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
)

// Detect decides how to read data. Content sniffing wins over the declared
// content type and the file extension, which are only consulted when the
// bytes are not recognised.
func Detect(data []byte, fileName, declared string) types.SourceFormat {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(mimePDF):
		return types.FormatPDF
	case mt.Is(mimeDOCX):
		return types.FormatDOCX
	case mt.Is(mimeZip) && zipHasDocument(data):
		return types.FormatDOCX
	case strings.HasPrefix(mt.String(), "text/"):
		return types.FormatText
	}

	hint := strings.ToLower(strings.TrimSpace(declared))
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case strings.HasPrefix(hint, "text/"), ext == ".txt", ext == ".md":
		if utf8.Valid(data) {
			return types.FormatText
		}
	}
	return types.FormatUnknown
}

func zipHasDocument(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

// PrintableText returns data as text when it is valid UTF-8, otherwise the
// runs of at least minRun printable characters joined by newlines.
func PrintableText(data []byte, minRun int) string {
	if utf8.Valid(data) {
		return strings.TrimSpace(strings.ToValidUTF8(string(bytes.ReplaceAll(data, []byte{0}, nil)), ""))
	}

	var runs []string
	var cur strings.Builder
	flush := func() {
		if utf8.RuneCountInString(cur.String()) >= minRun {
			runs = append(runs, cur.String())
		}
		cur.Reset()
	}
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r != utf8.RuneError && (unicode.IsPrint(r) || r == '\t') {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(strings.Join(runs, "\n"))
}
