package openaiEmbedding

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ embedding.Provider = (*client)(nil)

type client struct {
	openAI openai.Client
	model  string
}

// NewClient returns nil when no key is configured.
func NewClient(apikey string, modelName string, httpClient *http.Client) embedding.Provider {
	logger := logger_i.NewLogger("openai_embedding")
	if apikey == "" {
		logger.Warn("no OpenAI API key, embeddings disabled")
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(apikey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	logger.Info("OpenAI embedding client created", "model", modelName)
	return &client{openAI: openai.NewClient(opts...), model: modelName}
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.openAI.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: c.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	values := resp.Data[0].Embedding
	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v)
	}
	return vector, nil
}
