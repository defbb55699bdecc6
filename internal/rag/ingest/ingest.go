package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/fileStore"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// Indexer turns an uploaded PDF into a Document: raw file on disk, text, chunks, optional
// embeddings and cropped images.
type Indexer struct {
	files       *fileStore.Store
	embedder    *embedding.Embedder
	images      *ImageExtractor
	concurrency int
	chunkSize   int
	overlap     int
	logger      *logger_i.Logger
}

type IndexerOption func(*Indexer)

func WithChunking(size, overlap int) IndexerOption {
	return func(i *Indexer) {
		i.chunkSize = size
		i.overlap = overlap
	}
}

func WithConcurrency(n int) IndexerOption {
	return func(i *Indexer) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

func NewIndexer(files *fileStore.Store, embedder *embedding.Embedder, images *ImageExtractor, opts ...IndexerOption) *Indexer {
	i := &Indexer{
		files:       files,
		embedder:    embedder,
		images:      images,
		concurrency: config.EmbedConcurrency,
		chunkSize:   config.ChunkSize,
		overlap:     config.ChunkOverlap,
		logger:      logger_i.NewLogger("Document Ingestion"),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.images == nil {
		i.images = NewImageExtractor(nil, config.ImageRenderDPI)
	}
	return i
}

// ValidateUpload checks the file name and size before anything is written.
func ValidateUpload(filename string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return commonModels.Validation("Only PDF files are allowed.")
	}
	if size > config.MaxUploadSize {
		return commonModels.Validation("File size exceeds 500MB limit.")
	}
	return nil
}

func RawFilename(documentId, filename string) string {
	return documentId + "_" + fileStore.SafeName(filename)
}

// Index stores the raw upload first so a parse failure still leaves the file for inspection.
func (i *Indexer) Index(ctx context.Context, documentId string, raw []byte, filename string, owner string) (doc commonModels.Document, err error) {
	log := i.logger.WithTrace(ctx).With("documentId", documentId)
	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("index_document", time.Since(start))
		metrics.CountDocumentIndexed(err == nil)
	}()

	if err = ValidateUpload(filename, int64(len(raw))); err != nil {
		return doc, err
	}

	path, err := i.files.Save(RawFilename(documentId, filename), raw)
	if err != nil {
		return doc, commonModels.Processing("Failed to save file", err)
	}
	log.Debug("Processing document", "filename", filename, "path", path, "bytes", len(raw))

	reader, err := openPDF(raw)
	if err != nil {
		log.Error("Error parsing document", "error", err)
		return doc, commonModels.Processing("PDF parsing failed", err)
	}

	rawText := joinPages(extractPages(reader, config.PageExtractTimeout, log))

	texts, err := Split(rawText, i.chunkSize, i.overlap)
	if err != nil {
		return doc, commonModels.Processing("Chunking failed", err)
	}
	log.Debug("Processing document", "Number of chunks: ", len(texts))

	chunks, err := i.embedChunks(ctx, texts)
	if err != nil {
		return doc, commonModels.Processing("Indexing cancelled", err)
	}

	doc = commonModels.Document{
		Id:        documentId,
		Owner:     owner,
		Filename:  filename,
		Path:      path,
		Size:      int64(len(raw)),
		RawText:   rawText,
		Chunks:    chunks,
		CreatedAt: time.Now().UTC(),
	}

	for _, img := range i.images.Extract(ctx, reader, raw) {
		name := ImageFilename(documentId, img.Page, img.IndexInPage)
		if _, err := i.files.Save(name, img.PNG); err != nil {
			log.Warn("could not save image", "image", name, "error", err)
			continue
		}
		doc.Images = append(doc.Images, commonModels.ImageRef{Page: img.Page, IndexInPage: img.IndexInPage, Filename: name})
	}

	log.Info("document indexed", "chunks", len(doc.Chunks), "images", len(doc.Images))
	return doc, nil
}

// embedChunks keeps chunk order. A chunk whose embedding fails is kept without a vector.
func (i *Indexer) embedChunks(ctx context.Context, texts []string) ([]commonModels.DocChunk, error) {
	chunks := make([]commonModels.DocChunk, len(texts))
	for n, t := range texts {
		chunks[n].Text = t
	}
	if !i.embedder.Enabled() || len(texts) == 0 {
		return chunks, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for n := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks[n].Embedding = i.embedder.Embed(gctx, chunks[n].Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}
