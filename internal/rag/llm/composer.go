package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

const (
	ContextDelimiter = "\n---\n"
	NotConfigured    = "[Gemini API not configured]"
	errorPrefix      = "Error from Gemini: "
)

// Composer turns retrieved context into an answer. It never returns an error: failures of the
// provider come back as sentinel text so the exchange can still be recorded.
type Composer struct {
	provider Provider
	timeout  time.Duration
	logger   *logger_i.Logger
}

func NewComposer(provider Provider, timeout time.Duration) *Composer {
	return &Composer{
		provider: provider,
		timeout:  timeout,
		logger:   logger_i.NewLogger("answer_composer"),
	}
}

func BuildPrompt(passages []string, question string, answerFormat string, language string) string {
	return fmt.Sprintf("You are an AI assistant. Here are relevant parts of a PDF:\n%s\n\nUser's question: %s\n\nPlease answer in %s and format as %s.",
		strings.Join(passages, ContextDelimiter), question, language, answerFormat)
}

func (c *Composer) Compose(ctx context.Context, passages []string, question string, answerFormat string, language string) string {
	if c.provider == nil {
		return NotConfigured
	}
	log := c.logger.WithTrace(ctx)
	prompt := BuildPrompt(passages, question, answerFormat, language)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	answer, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		log.Error("answer generation failed", "error", err)
		return errorPrefix + err.Error()
	}
	log.Debug("answer generated", "length", len(answer))
	return answer
}
