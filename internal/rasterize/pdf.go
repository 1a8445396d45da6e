package rasterize

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var errNoPDFPages = errors.New("document has no pages")

// PDFPageCount opens data as a PDF and returns its page count.
// The reader panics on some malformed files; that is reported as an error.
func PDFPageCount(data []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			count, err = 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	count = reader.NumPage()
	if count <= 0 {
		return 0, errNoPDFPages
	}
	return count, nil
}
