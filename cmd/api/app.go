package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/akolanti/pdfchat/internal/auth"
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/customHttpClient"
	"github.com/akolanti/pdfchat/internal/data/fileStore"
	"github.com/akolanti/pdfchat/internal/data/store"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/pdfchat/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/pdfchat/internal/rag/ingest"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/internal/rag/llm/gemini"
	"github.com/akolanti/pdfchat/internal/rag/llm/openaiLLM"
	"github.com/akolanti/pdfchat/internal/rag/render/fitzRender"
	"github.com/akolanti/pdfchat/internal/rag/retrieval"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

// app is everything the commands share. Close releases the record stores.
type app struct {
	rag      rag.Service
	accounts *auth.Service
	stores   *store.Stores
}

func (a *app) Close(ctx context.Context) {
	if err := a.stores.Close(ctx); err != nil {
		logger_i.NewLogger("main").Error("closing stores", "error", err)
	}
}

// buildApp wires the services. Commands that write to stdout pass os.Stderr as logOut.
func buildApp(ctx context.Context, s *config.Settings, logOut io.Writer) (*app, error) {
	logger_i.InitWriter(logOut, s.IsProd, s.LogLevel)
	logger := logger_i.NewLogger("main")

	stores := store.Open(ctx, s)
	logger.Info("record store ready", "backend", stores.Backend)

	files, err := fileStore.NewOsStore(s.UploadDir)
	if err != nil {
		_ = stores.Close(ctx)
		return nil, fmt.Errorf("upload directory: %w", err)
	}

	httpClient := customHttpClient.NewClient()
	embedder := embedding.NewEmbedder(newEmbeddingProvider(ctx, s, httpClient))
	composer := llm.NewComposer(newLLMProvider(ctx, s, httpClient), config.LLMRequestTimeout)
	indexer := ingest.NewIndexer(files, embedder,
		ingest.NewImageExtractor(fitzRender.New(), config.ImageRenderDPI),
		ingest.WithConcurrency(s.EmbedConcurrency),
	)

	ragService := rag.NewService(rag.Dependencies{
		Indexer:   indexer,
		Retriever: retrieval.New(s.RetrievalMode, embedder),
		Composer:  composer,
		Documents: stores.Documents,
		Chats:     stores.Chats,
		Files:     files,
	})
	logger.Debug("services ready", "llm", s.LLMProvider, "embedding", s.EmbeddingProvider, "retrieval", s.RetrievalMode)

	return &app{
		rag:      ragService,
		accounts: auth.NewService(stores.Users, s.JWTSecret, s.TokenTTL),
		stores:   stores,
	}, nil
}

func newEmbeddingProvider(ctx context.Context, s *config.Settings, httpClient *http.Client) embedding.Provider {
	switch s.EmbeddingProvider {
	case config.LLMProviderGemini:
		return googleEmbedding.NewClient(ctx, s.GeminiAPIKey, config.GoogleEmbeddingModel, httpClient)
	case config.LLMProviderOpenAI:
		return openaiEmbedding.NewClient(s.OpenAIAPIKey, config.OpenAIEmbeddingModel, httpClient)
	case config.LLMProviderNone:
		logger_i.NewLogger("main").Info("embeddings disabled by configuration")
	}
	return nil
}

func newLLMProvider(ctx context.Context, s *config.Settings, httpClient *http.Client) llm.Provider {
	switch s.LLMProvider {
	case config.LLMProviderGemini:
		return gemini.NewClient(ctx, s.GeminiAPIKey, config.GeminiModelName, httpClient)
	case config.LLMProviderOpenAI:
		return openaiLLM.NewClient(s.OpenAIAPIKey, config.OpenAIModelName, httpClient)
	case config.LLMProviderNone:
		logger_i.NewLogger("main").Info("answer generation disabled by configuration")
	}
	return nil
}
