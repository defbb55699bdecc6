package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/dslipak/pdf"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var errPageTimeout = errors.New("timeout")

// openPDF parses the whole document. The parser panics on some malformed inputs.
func openPDF(raw []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err = pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}
	if reader.NumPage() == 0 {
		return nil, errors.New("document has no pages")
	}
	return reader, nil
}

// extractPages returns one entry per page. Pages whose text cannot be read contribute "".
func extractPages(reader *pdf.Reader, timeout time.Duration, log *logger_i.Logger) []rawPage {
	numPages := reader.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)

	pages := make([]rawPage, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			log.Warn("extractPDF page value is null", "page", i)
			pages = append(pages, rawPage{Number: i})
			continue
		}

		content, err := protectExtract(page, timeout)
		if err != nil {
			// Log warning but continue with other pages
			log.Warn("Error parsing page content", "page", i, "error", err)
			content = ""
		}
		pages = append(pages, rawPage{Number: i, Content: content})
	}
	return pages
}

func protectExtract(page pdf.Page, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = config.PageExtractTimeout
	}
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extract panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(timeout):
		return "", errPageTimeout
	}
}

// joinPages skips empty pages so a document without extractable text yields "".
func joinPages(pages []rawPage) string {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Content) != "" {
			texts = append(texts, p.Content)
		}
	}
	return strings.Join(texts, "\n")
}
