package openaiLLM

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ llm.Provider = (*llmClient)(nil)

type llmClient struct {
	openAI    openai.Client
	modelName string
}

func NewClient(apikey string, modelName string, httpClient *http.Client) llm.Provider {
	logger := logger_i.NewLogger("llm_openai")
	if apikey == "" {
		logger.Warn("no OpenAI API key, answers will not be generated")
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(apikey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	logger.Info("OpenAI client created", "model", modelName)
	return &llmClient{openAI: openai.NewClient(opts...), modelName: modelName}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.openAI.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:    c.modelName,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
