package llm

import "context"

// Provider is the external generative-answer service.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
