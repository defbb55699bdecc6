// Package fitzRender rasterizes PDF pages with MuPDF.
package fitzRender

import (
	"fmt"
	"image"
	"sync"

	"github.com/akolanti/pdfchat/internal/rag/ingest"
	"github.com/gen2brain/go-fitz"
)

var _ ingest.PageRenderer = (*Renderer)(nil)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Open(raw []byte) (ingest.RenderedDocument, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return nil, fmt.Errorf("mupdf open: %w", err)
	}
	return &document{doc: doc}, nil
}

// document serializes access, a MuPDF context is not safe for concurrent use.
type document struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func (d *document) RenderPage(page int, dpi float64) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if page < 1 || page > d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	return d.doc.ImageDPI(page-1, dpi)
}

func (d *document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}
