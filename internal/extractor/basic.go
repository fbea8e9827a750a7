package extractor

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// BasicBackend is the text-only fallback backend. It has no access to
// embedded images or document metadata.
type BasicBackend struct{}

// Open opens the PDF for page-by-page plain text extraction.
func (BasicBackend) Open(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &basicDocument{f: f, r: r}, nil
}

type basicDocument struct {
	f *os.File
	r *pdf.Reader
}

func (d *basicDocument) PageCount() int { return d.r.NumPage() }

func (d *basicDocument) Close() error { return d.f.Close() }

// PageText returns the plain text of one page. A null page (present in some
// malformed documents) yields empty text rather than an error.
func (d *basicDocument) PageText(pageNr int) (string, error) {
	page := d.r.Page(pageNr)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}
	return text, nil
}
