package rag_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/fileStore"
	"github.com/akolanti/pdfchat/internal/data/store"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/rag/ingest"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/internal/rag/retrieval"
	"github.com/akolanti/pdfchat/internal/testutil/testpdf"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    rag.Service
	llm    *MockLLM
	files  *fileStore.Store
	stores *store.Stores
}

func newFixture(t *testing.T, provider llm.Provider) fixture {
	t.Helper()
	files, err := fileStore.New(afero.NewMemMapFs(), "uploads")
	require.NoError(t, err)
	stores := store.NewInMemoryStores()

	embedder := embedding.NewEmbedder(&MockEmbedder{})
	svc := rag.NewService(rag.Dependencies{
		Indexer:   ingest.NewIndexer(files, embedder, ingest.NewImageExtractor(&MockRenderer{}, config.ImageRenderDPI)),
		Retriever: retrieval.New(config.RetrievalModeKeyword, embedder),
		Composer:  llm.NewComposer(provider, config.LLMRequestTimeout),
		Documents: stores.Documents,
		Chats:     stores.Chats,
		Files:     files,
	})
	f := fixture{svc: svc, files: files, stores: stores}
	if m, ok := provider.(*MockLLM); ok {
		f.llm = m
	}
	return f
}

func samplePDF() []byte {
	return testpdf.Build(
		testpdf.Page{Text: "Alpha Beta"},
		testpdf.Page{Text: "Gamma Delta", Images: []testpdf.Placement{{X: 72, Y: 500, W: 100, H: 80}}},
	)
}

func TestIndexAndAsk_EndToEnd(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	f := newFixture(t, &MockLLM{})

	doc, err := f.svc.IndexDocument(ctx, "alice", "report.pdf", samplePDF())
	require.NoError(t, err)
	require.Len(t, doc.Chunks, 1)
	require.Len(t, doc.Images, 1)
	assert.Equal(t, 2, doc.Images[0].Page)

	answer, err := f.svc.Ask(ctx, "alice", rag.Question{DocumentId: doc.Id, Text: "describe the figure", AnswerFormat: "summary", ResponseLanguage: "German"})
	require.NoError(t, err)
	assert.Equal(t, "mocked llm response", answer.Answer)
	assert.Equal(t, "report.pdf", answer.Filename)
	require.Len(t, answer.Images, 1)
	assert.Equal(t, doc.Images[0].Filename, answer.Images[0].Filename)

	require.Len(t, f.llm.Prompts, 1)
	prompt := f.llm.Prompts[0]
	assert.Contains(t, prompt, "Alpha Beta")
	assert.Contains(t, prompt, "User's question: describe the figure")
	assert.Contains(t, prompt, "Please answer in German and format as summary.")

	answer, err = f.svc.Ask(ctx, "alice", rag.Question{DocumentId: doc.Id, Text: "what is this about"})
	require.NoError(t, err)
	assert.Empty(t, answer.Images)
	assert.Equal(t, "points", answer.AnswerFormat)
	assert.Equal(t, "English", answer.ResponseLanguage)

	history, err := f.svc.History(ctx, "alice", doc.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "describe the figure", history[0].Question)
	assert.Equal(t, "what is this about", history[1].Question)

	list, err := f.svc.ListDocuments(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []commonModels.DocumentSummary{{Id: doc.Id, Filename: "report.pdf"}}, list)
}

func TestAsk_ComposerFallbacks(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, nil)
	doc, err := f.svc.IndexDocument(ctx, "alice", "report.pdf", samplePDF())
	require.NoError(t, err)
	answer, err := f.svc.Ask(ctx, "alice", rag.Question{DocumentId: doc.Id, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, llm.NotConfigured, answer.Answer)

	failing := &MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	f = newFixture(t, failing)
	doc, err = f.svc.IndexDocument(ctx, "alice", "report.pdf", samplePDF())
	require.NoError(t, err)
	answer, err = f.svc.Ask(ctx, "alice", rag.Question{DocumentId: doc.Id, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Error from Gemini: quota exceeded", answer.Answer)

	// the failed exchange is still recorded
	history, err := f.svc.History(ctx, "alice", doc.Id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestOwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &MockLLM{})

	doc, err := f.svc.IndexDocument(ctx, "alice", "report.pdf", samplePDF())
	require.NoError(t, err)

	_, err = f.svc.Ask(ctx, "bob", rag.Question{DocumentId: doc.Id, Text: "hello"})
	assert.Equal(t, commonModels.KindNotFound, commonModels.KindOf(err))
	assert.Equal(t, "PDF not found or chunking failed.", commonModels.Message(err))

	err = f.svc.DeleteDocument(ctx, "bob", doc.Id)
	assert.Equal(t, "PDF not found or not owned by user.", commonModels.Message(err))

	_, err = f.svc.ImageFile(ctx, "bob", doc.Id, doc.Images[0].Filename)
	assert.Equal(t, "PDF or image not found.", commonModels.Message(err))

	list, err := f.svc.ListDocuments(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	// alice's document is untouched
	_, err = f.stores.Documents.FindOwned(ctx, doc.Id, "alice")
	assert.NoError(t, err)
}

func TestImageFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &MockLLM{})
	doc, err := f.svc.IndexDocument(ctx, "alice", "report.pdf", samplePDF())
	require.NoError(t, err)
	name := doc.Images[0].Filename

	rc, err := f.svc.ImageFile(ctx, "alice", doc.Id, name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))

	_, err = f.svc.ImageFile(ctx, "alice", doc.Id, "other_img_1_1.png")
	assert.Equal(t, "Image not found for this PDF.", commonModels.Message(err))

	require.NoError(t, f.files.Remove(name))
	_, err = f.svc.ImageFile(ctx, "alice", doc.Id, name)
	assert.Equal(t, "Image file not found on server.", commonModels.Message(err))
}

func TestDeleteDocument_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &MockLLM{})

	doc, err := f.svc.IndexDocument(ctx, "alice", "report.pdf", samplePDF())
	require.NoError(t, err)
	other, err := f.svc.IndexDocument(ctx, "alice", "other.pdf", samplePDF())
	require.NoError(t, err)

	_, err = f.svc.Ask(ctx, "alice", rag.Question{DocumentId: doc.Id, Text: "q1"})
	require.NoError(t, err)
	_, err = f.svc.Ask(ctx, "alice", rag.Question{DocumentId: other.Id, Text: "q2"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteDocument(ctx, "alice", doc.Id))

	assert.False(t, f.files.Exists(ingest.RawFilename(doc.Id, "report.pdf")))
	assert.False(t, f.files.Exists(doc.Images[0].Filename))
	history, err := f.svc.History(ctx, "alice", doc.Id)
	require.NoError(t, err)
	assert.Empty(t, history)

	// the other document keeps its files and chats
	assert.True(t, f.files.Exists(ingest.RawFilename(other.Id, "other.pdf")))
	history, err = f.svc.History(ctx, "alice", other.Id)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	err = f.svc.DeleteDocument(ctx, "alice", doc.Id)
	assert.Equal(t, commonModels.KindNotFound, commonModels.KindOf(err))
}

func TestIndexDocument_Validation(t *testing.T) {
	f := newFixture(t, &MockLLM{})
	_, err := f.svc.IndexDocument(context.Background(), "alice", "notes.txt", []byte("hi"))
	assert.Equal(t, commonModels.KindValidation, commonModels.KindOf(err))

	list, err := f.svc.ListDocuments(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistory_IsolatedBetweenUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &MockLLM{})

	doc, err := f.svc.IndexDocument(ctx, "a:b", "secret.pdf", samplePDF())
	require.NoError(t, err)
	_, err = f.svc.Ask(ctx, "a:b", rag.Question{DocumentId: doc.Id, Text: "what is the secret"})
	require.NoError(t, err)

	for _, id := range []string{doc.Id, "b:" + doc.Id, ""} {
		history, err := f.svc.History(ctx, "a", id)
		require.NoError(t, err)
		assert.Empty(t, history, "file_id %q", id)
		assert.NotNil(t, history)
	}

	history, err := f.svc.History(ctx, "a:b", doc.Id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "what is the secret", history[0].Question)
}

func TestAsk_DocumentWithoutChunks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &MockLLM{})

	doc, err := f.svc.IndexDocument(ctx, "alice", "blank.pdf", testpdf.Build(testpdf.Page{}))
	require.NoError(t, err)
	require.Empty(t, doc.Chunks)

	_, err = f.svc.Ask(ctx, "alice", rag.Question{DocumentId: doc.Id, Text: "anything"})
	assert.Equal(t, commonModels.KindNotFound, commonModels.KindOf(err))
	assert.Equal(t, "PDF not found or chunking failed.", commonModels.Message(err))
	assert.Empty(t, f.llm.Prompts)

	history, err := f.svc.History(ctx, "alice", doc.Id)
	require.NoError(t, err)
	assert.Empty(t, history)
}
