package retrieval

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

var imageTriggers = []string{"image", "figure", "diagram", "photo", "picture"}

var pageReference = regexp.MustCompile(`page\s+(\d+)`)

type Result struct {
	Context []string
	Images  []commonModels.ImageRef
}

type Retriever struct {
	mode     string
	embedder *embedding.Embedder
	logger   *logger_i.Logger
}

// New builds a keyword retriever, or a cosine retriever when mode is semantic and an embedder
// is available.
func New(mode string, embedder *embedding.Embedder) *Retriever {
	return &Retriever{
		mode:     mode,
		embedder: embedder,
		logger:   logger_i.NewLogger("retriever"),
	}
}

func (r *Retriever) Retrieve(ctx context.Context, doc commonModels.Document, question string) Result {
	var passages []string
	if r.mode == config.RetrievalModeSemantic && r.embedder.Enabled() {
		passages = r.semantic(ctx, doc.Chunks, question)
	}
	if passages == nil {
		passages = SelectByKeywords(doc.Chunks, question)
	}
	return Result{
		Context: passages,
		Images:  SelectImages(doc.Images, question),
	}
}

// SelectByKeywords keeps chunks containing any lowercased word of the question, in document
// order, capped. With no match the first chunks are used.
func SelectByKeywords(chunks []commonModels.DocChunk, question string) []string {
	keywords := strings.Fields(strings.ToLower(question))

	var selected []string
	for _, chunk := range chunks {
		if len(selected) == config.MaxContextChunks {
			break
		}
		text := strings.ToLower(chunk.Text)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				selected = append(selected, chunk.Text)
				break
			}
		}
	}
	if len(selected) == 0 {
		return firstChunks(chunks, config.FallbackChunkCount)
	}
	return selected
}

func firstChunks(chunks []commonModels.DocChunk, n int) []string {
	out := make([]string, 0, min(n, len(chunks)))
	for i := 0; i < len(chunks) && i < n; i++ {
		out = append(out, chunks[i].Text)
	}
	return out
}

// semantic returns nil when ranking is not possible, the caller then falls back to keywords.
func (r *Retriever) semantic(ctx context.Context, chunks []commonModels.DocChunk, question string) []string {
	query := r.embedder.EmbedQuery(ctx, question)
	if query == nil {
		r.logger.WithTrace(ctx).Warn("question could not be embedded, using keyword retrieval")
		return nil
	}

	type scored struct {
		index int
		score float64
	}
	var ranked []scored
	for i, chunk := range chunks {
		if len(chunk.Embedding) != len(query) {
			continue
		}
		ranked = append(ranked, scored{index: i, score: cosine(query, chunk.Embedding)})
	}
	if len(ranked) == 0 {
		return nil
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > config.MaxContextChunks {
		ranked = ranked[:config.MaxContextChunks]
	}
	// back to document order
	sort.Slice(ranked, func(a, b int) bool { return ranked[a].index < ranked[b].index })

	out := make([]string, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, chunks[s.index].Text)
	}
	return out
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// PageReferences returns the page numbers named as "page N" in the question.
func PageReferences(question string) map[int]bool {
	pages := make(map[int]bool)
	for _, m := range pageReference.FindAllStringSubmatch(strings.ToLower(question), -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			pages[n] = true
		}
	}
	return pages
}

func HasImageTrigger(question string) bool {
	q := strings.ToLower(question)
	for _, trigger := range imageTriggers {
		if strings.Contains(q, trigger) {
			return true
		}
	}
	return false
}

// SelectImages: a trigger word alone selects every image, page references restrict the
// selection to those pages with or without a trigger.
func SelectImages(images []commonModels.ImageRef, question string) []commonModels.ImageRef {
	triggered := HasImageTrigger(question)
	pages := PageReferences(question)
	if !triggered && len(pages) == 0 {
		return nil
	}

	var selected []commonModels.ImageRef
	for _, img := range images {
		if len(pages) == 0 || pages[img.Page] {
			selected = append(selected, img)
		}
	}
	sort.SliceStable(selected, func(a, b int) bool {
		if selected[a].Page != selected[b].Page {
			return selected[a].Page < selected[b].Page
		}
		return selected[a].IndexInPage < selected[b].IndexInPage
	})
	return selected
}
