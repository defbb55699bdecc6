package rag

import (
	"context"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag/ingest"
)

// removeFiles cleans up after an index that could not be saved.
func (s *service) removeFiles(ctx context.Context, doc commonModels.Document) {
	log := s.logger.WithTrace(ctx)
	names := []string{ingest.RawFilename(doc.Id, doc.Filename)}
	for _, img := range doc.Images {
		names = append(names, img.Filename)
	}
	for _, name := range names {
		if err := s.files.Remove(name); err != nil {
			log.Warn("could not remove file", "name", name, "error", err)
		}
	}
}
