package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rebuild(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		r := []rune(c)
		if i > 0 {
			r = r[overlap:]
		}
		b.WriteString(string(r))
	}
	return b.String()
}

func TestSplit_Edges(t *testing.T) {
	chunks, err := Split("", 100, 10)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = Split("short text", 100, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"short text"}, chunks)

	for _, cfg := range [][2]int{{0, 0}, {10, 10}, {10, 20}, {10, -1}} {
		_, err := Split("anything", cfg[0], cfg[1])
		assert.ErrorIs(t, err, ErrInvalidChunkConfig)
	}
}

func TestSplit_WindowsOverlapAndRebuild(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
		if i%7 == 0 {
			b.WriteString("\n\n")
		}
	}
	text := b.String()

	const size, overlap = 300, 40
	chunks, err := Split(text, size, overlap)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), size)
		if i > 0 {
			prev := []rune(chunks[i-1])
			assert.Equal(t, string(prev[len(prev)-overlap:]), string([]rune(c)[:overlap]))
		}
	}
	assert.Equal(t, text, rebuild(chunks, overlap))
}

func TestSplit_PrefersParagraphBreak(t *testing.T) {
	text := strings.Repeat("a", 70) + "\n\n" + strings.Repeat("b", 20) + ". " + strings.Repeat("c", 60)

	chunks, err := Split(text, 100, 5)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"), chunks[0])
	assert.Equal(t, text, rebuild(chunks, 5))
}

func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 250)

	chunks, err := Split(text, 100, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Equal(t, text, rebuild(chunks, 10))
}

func TestSplit_MultiByteRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 40)

	chunks, err := Split(text, 50, 8)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 50)
	}
	assert.Equal(t, text, rebuild(chunks, 8))
}
