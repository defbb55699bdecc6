package rag_test

import (
	"context"
	"image"

	"github.com/akolanti/pdfchat/internal/rag/ingest"
)

// MockEmbedder implements embedding.Provider
type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
	Prompts    []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

// MockRenderer implements ingest.PageRenderer with blank US Letter pages.
type MockRenderer struct {
	OnOpen func(raw []byte) error
}

func (m *MockRenderer) Open(raw []byte) (ingest.RenderedDocument, error) {
	if m.OnOpen != nil {
		if err := m.OnOpen(raw); err != nil {
			return nil, err
		}
	}
	return blankDocument{}, nil
}

type blankDocument struct{}

func (blankDocument) RenderPage(page int, dpi float64) (image.Image, error) {
	scale := dpi / 72
	return image.NewRGBA(image.Rect(0, 0, int(612*scale), int(792*scale))), nil
}

func (blankDocument) Close() error { return nil }
