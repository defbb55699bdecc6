package googleEmbedding

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"google.golang.org/genai"
)

var (
	_ embedding.Provider      = (*client)(nil)
	_ embedding.QueryProvider = (*client)(nil)
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

// NewClient returns nil when the key is missing or the client cannot be built.
func NewClient(ctx context.Context, apikey string, modelName string, httpClient *http.Client) embedding.Provider {
	logger := logger_i.NewLogger("google_embedding")
	if apikey == "" {
		logger.Warn("no Gemini API key, embeddings disabled")
		return nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil
	}
	logger.Info("Google Embedding client created", "model", modelName)
	return &client{
		genAi:     c,
		model:     modelName,
		dimension: config.EmbeddingOutputDimensionality,
		logger:    logger,
	}
}

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, taskDocument)
}

func (c *client) GetQueryEmbedding(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, taskQuery)
}

func (c *client) embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             taskType,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, errors.New("empty embedding response")
	}
	return result.Embeddings[0].Values, nil
}
