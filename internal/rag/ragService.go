package rag

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/akolanti/pdfchat/internal/adapter/utils"
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/fileStore"
	"github.com/akolanti/pdfchat/internal/data/store"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/internal/rag/ingest"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/internal/rag/retrieval"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

/*
Service is the only thing the HTTP handlers, the CLI and the MCP tools talk to.
The private service struct holds the stores and the pipeline pieces; callers cannot reach them.
Every call takes the authenticated user explicitly and only ever touches that user's records.
*/
type Service interface {
	IndexDocument(ctx context.Context, owner string, filename string, raw []byte) (commonModels.Document, error)
	Ask(ctx context.Context, owner string, question Question) (Answer, error)
	ListDocuments(ctx context.Context, owner string) ([]commonModels.DocumentSummary, error)
	History(ctx context.Context, owner string, documentId string) ([]commonModels.ChatRecord, error)
	DeleteDocument(ctx context.Context, owner string, documentId string) error
	ImageFile(ctx context.Context, owner string, documentId string, image string) (io.ReadCloser, error)
}

type Question struct {
	DocumentId       string
	Text             string
	AnswerFormat     string
	ResponseLanguage string
}

type Answer struct {
	Question         string
	Filename         string
	AnswerFormat     string
	ResponseLanguage string
	Answer           string
	DocumentId       string
	Images           []commonModels.ImageRef
}

const (
	msgChatNotFound     = "PDF not found or chunking failed."
	msgDeleteNotFound   = "PDF not found or not owned by user."
	msgImageDocNotFound = "PDF or image not found."
	msgImageNotInDoc    = "Image not found for this PDF."
	msgImageNotOnDisk   = "Image file not found on server."
)

type service struct {
	indexer   *ingest.Indexer
	retriever *retrieval.Retriever
	composer  *llm.Composer
	documents store.DocumentStore
	chats     store.ChatStore
	files     *fileStore.Store
	newId     func() string
	logger    *logger_i.Logger
}

type Dependencies struct {
	Indexer   *ingest.Indexer
	Retriever *retrieval.Retriever
	Composer  *llm.Composer
	Documents store.DocumentStore
	Chats     store.ChatStore
	Files     *fileStore.Store
}

func NewService(deps Dependencies) Service {
	return &service{
		indexer:   deps.Indexer,
		retriever: deps.Retriever,
		composer:  deps.Composer,
		documents: deps.Documents,
		chats:     deps.Chats,
		files:     deps.Files,
		newId:     utils.GetNewUUID,
		logger:    logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IndexDocument(ctx context.Context, owner string, filename string, raw []byte) (commonModels.Document, error) {
	id := s.newId()
	log := s.logger.WithTrace(ctx).With("fileId", id, "user", owner)

	doc, err := s.indexer.Index(ctx, id, raw, filename, owner)
	if err != nil {
		log.Warn("indexing failed", "filename", filename, "error", err)
		return commonModels.Document{}, err
	}

	start := time.Now()
	err = s.documents.Insert(ctx, doc)
	metrics.CaptureExecutionMetrics("store", time.Since(start))
	if err != nil {
		log.Error("could not save document index", "error", err)
		s.removeFiles(ctx, doc)
		return commonModels.Document{}, commonModels.Processing("Failed to save document", err)
	}
	return doc, nil
}

func (s *service) Ask(ctx context.Context, owner string, q Question) (Answer, error) {
	log := s.logger.WithTrace(ctx).With("fileId", q.DocumentId, "user", owner)
	if q.Text == "" {
		return Answer{}, commonModels.Validation("Question is required")
	}
	if q.AnswerFormat == "" {
		q.AnswerFormat = config.AnswerFormats[0]
	}
	if q.ResponseLanguage == "" {
		q.ResponseLanguage = config.Languages[0]
	}

	doc, err := s.findOwned(ctx, q.DocumentId, owner, msgChatNotFound)
	if err != nil {
		return Answer{}, err
	}
	if len(doc.Chunks) == 0 {
		log.Warn("document has no chunks")
		return Answer{}, commonModels.NotFound(msgChatNotFound)
	}

	retrieved := s.retriever.Retrieve(ctx, doc, q.Text)
	log.Debug("retrieved context", "chunks", len(retrieved.Context), "images", len(retrieved.Images))

	answer := s.composer.Compose(ctx, retrieved.Context, q.Text, q.AnswerFormat, q.ResponseLanguage)

	record := commonModels.ChatRecord{
		Id:               s.newId(),
		Question:         q.Text,
		DocumentId:       doc.Id,
		AnswerFormat:     q.AnswerFormat,
		ResponseLanguage: q.ResponseLanguage,
		Answer:           answer,
		AskedBy:          owner,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.chats.Insert(ctx, record); err != nil {
		log.Error("could not save chat record", "error", err)
		return Answer{}, commonModels.Processing("Failed to save chat", err)
	}

	return Answer{
		Question:         q.Text,
		Filename:         doc.Filename,
		AnswerFormat:     q.AnswerFormat,
		ResponseLanguage: q.ResponseLanguage,
		Answer:           answer,
		DocumentId:       doc.Id,
		Images:           retrieved.Images,
	}, nil
}

func (s *service) ListDocuments(ctx context.Context, owner string) ([]commonModels.DocumentSummary, error) {
	return s.documents.ListByOwner(ctx, owner, config.ListLimit)
}

// History of a document the owner does not have is an empty list.
func (s *service) History(ctx context.Context, owner string, documentId string) ([]commonModels.ChatRecord, error) {
	doc, err := s.findOwned(ctx, documentId, owner, msgChatNotFound)
	if commonModels.KindOf(err) == commonModels.KindNotFound {
		return []commonModels.ChatRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.chats.ListByDocument(ctx, doc.Id, owner, config.ListLimit)
}

// DeleteDocument removes the files first. If that fails nothing is removed from the record store.
func (s *service) DeleteDocument(ctx context.Context, owner string, documentId string) error {
	log := s.logger.WithTrace(ctx).With("fileId", documentId, "user", owner)

	doc, err := s.findOwned(ctx, documentId, owner, msgDeleteNotFound)
	if err != nil {
		return err
	}

	if err := s.files.Remove(ingest.RawFilename(doc.Id, doc.Filename)); err != nil {
		log.Error("could not remove uploaded file", "error", err)
		return commonModels.Processing("Failed to delete file", err)
	}
	for _, img := range doc.Images {
		if err := s.files.Remove(img.Filename); err != nil {
			log.Error("could not remove image file", "image", img.Filename, "error", err)
			return commonModels.Processing("Failed to delete file", err)
		}
	}

	if err := s.chats.DeleteByDocument(ctx, doc.Id, owner); err != nil {
		return commonModels.Processing("Failed to delete chats", err)
	}
	if err := s.documents.Delete(ctx, doc.Id); err != nil {
		return commonModels.Processing("Failed to delete document", err)
	}
	log.Info("document deleted")
	return nil
}

func (s *service) ImageFile(ctx context.Context, owner string, documentId string, image string) (io.ReadCloser, error) {
	doc, err := s.findOwned(ctx, documentId, owner, msgImageDocNotFound)
	if err != nil {
		return nil, err
	}
	if !doc.HasImage(image) {
		return nil, commonModels.NotFound(msgImageNotInDoc)
	}
	if !s.files.Exists(image) {
		return nil, commonModels.NotFound(msgImageNotOnDisk)
	}
	rc, err := s.files.Open(image)
	if err != nil {
		return nil, commonModels.NotFound(msgImageNotOnDisk)
	}
	return rc, nil
}

func (s *service) findOwned(ctx context.Context, id string, owner string, notFound string) (commonModels.Document, error) {
	if id == "" {
		return commonModels.Document{}, commonModels.NotFound(notFound)
	}
	doc, err := s.documents.FindOwned(ctx, id, owner)
	if errors.Is(err, commonModels.ErrNotFound) {
		return commonModels.Document{}, commonModels.NotFound(notFound)
	}
	if err != nil {
		return commonModels.Document{}, err
	}
	return doc, nil
}
