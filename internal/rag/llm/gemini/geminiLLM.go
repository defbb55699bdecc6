package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"google.golang.org/genai"
)

var _ llm.Provider = (*llmClient)(nil)

type llmClient struct {
	client    *genai.Client
	modelName string
}

// NewClient returns nil when no key is configured, callers treat that as "not configured".
func NewClient(ctx context.Context, apikey string, modelName string, httpClient *http.Client) llm.Provider {
	logger := logger_i.NewLogger("llm_gemini")
	if apikey == "" {
		logger.Warn("no Gemini API key, answers will not be generated")
		return nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", errors.New("empty response")
	}
	return result.Text(), nil
}
