// Package testpdf writes small, valid PDF files for tests.
package testpdf

import (
	"bytes"
	"fmt"
	"strings"
)

// Placement paints the shared 1x1 image with the matrix [W 0 0 H X Y].
type Placement struct {
	X, Y, W, H float64
}

type Page struct {
	Text   string
	Images []Placement
}

// Build lays out one object per page and content stream, a shared Helvetica font and a shared
// grey image. Pages are US Letter.
func Build(pages ...Page) []byte {
	const (
		catalogObj = 1
		pagesObj   = 2
		fontObj    = 3
		imageObj   = 4
		firstPage  = 5
	)
	var objects []string
	add := func(body string) { objects = append(objects, body) }

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}
	add(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj))
	add(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), len(pages)))
	add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	add(stream("/Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8", "\x80"))

	for i, p := range pages {
		contentObj := firstPage + 2*i + 1
		add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /Resources << /Font << /F1 %d 0 R >> /XObject << /Im1 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, fontObj, imageObj, contentObj))

		var content strings.Builder
		if p.Text != "" {
			fmt.Fprintf(&content, "BT /F1 12 Tf 72 720 Td (%s) Tj ET\n", escape(p.Text))
		}
		for _, img := range p.Images {
			fmt.Fprintf(&content, "q %g 0 0 %g %g %g cm /Im1 Do Q\n", img.W, img.H, img.X, img.Y)
		}
		add(stream("", content.String()))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalogObj, xref)
	return buf.Bytes()
}

func stream(dict string, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
