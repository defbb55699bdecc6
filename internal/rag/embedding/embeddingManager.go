package embedding

import (
	"context"
	"time"

	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Provider is an external embedding service.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// QueryProvider is implemented by providers that embed search questions differently from documents.
type QueryProvider interface {
	GetQueryEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Embedder never fails: a provider error becomes a nil vector.
type Embedder struct {
	provider Provider
	logger   *logger_i.Logger
}

// NewEmbedder accepts a nil provider, every call then returns nil.
func NewEmbedder(provider Provider) *Embedder {
	return &Embedder{
		provider: provider,
		logger:   logger_i.NewLogger("embedder"),
	}
}

func (e *Embedder) Enabled() bool {
	return e != nil && e.provider != nil
}

// Embed embeds a document chunk.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	if !e.Enabled() {
		return nil
	}
	return e.embed(ctx, text, e.provider.GetEmbedding)
}

// EmbedQuery embeds a question, with the provider's query embedding when it has one.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) []float32 {
	if !e.Enabled() {
		return nil
	}
	if q, ok := e.provider.(QueryProvider); ok {
		return e.embed(ctx, text, q.GetQueryEmbedding)
	}
	return e.embed(ctx, text, e.provider.GetEmbedding)
}

func (e *Embedder) embed(ctx context.Context, text string, call func(context.Context, string) ([]float32, error)) []float32 {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vector, err := call(ctx, text)
	if err != nil {
		e.logger.WithTrace(ctx).Warn("embedding failed", "quota", isQuotaError(err), "error", err)
		metrics.CountChunkEmbedding(false)
		return nil
	}
	if len(vector) == 0 {
		e.logger.WithTrace(ctx).Warn("embedding provider returned an empty vector")
		metrics.CountChunkEmbedding(false)
		return nil
	}
	metrics.CountChunkEmbedding(true)
	return vector
}

func isQuotaError(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
