package customHttpClient

import (
	"testing"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewClient_SharesTransport(t *testing.T) {
	a, b := NewClient(), NewClient()
	assert.NotSame(t, a, b)
	assert.Same(t, a.Transport, b.Transport)
	assert.Equal(t, config.LLMRequestTimeout, a.Timeout)
}
