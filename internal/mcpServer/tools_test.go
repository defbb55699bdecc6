package mcpServer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRag struct {
	rag.Service
	owners    []string
	onList    func() ([]commonModels.DocumentSummary, error)
	onIndex   func(filename string, raw []byte) (commonModels.Document, error)
	onAsk     func(q rag.Question) (rag.Answer, error)
	onHistory func(id string) ([]commonModels.ChatRecord, error)
}

func (m *mockRag) ListDocuments(ctx context.Context, owner string) ([]commonModels.DocumentSummary, error) {
	m.owners = append(m.owners, owner)
	return m.onList()
}

func (m *mockRag) IndexDocument(ctx context.Context, owner string, filename string, raw []byte) (commonModels.Document, error) {
	m.owners = append(m.owners, owner)
	return m.onIndex(filename, raw)
}

func (m *mockRag) Ask(ctx context.Context, owner string, q rag.Question) (rag.Answer, error) {
	m.owners = append(m.owners, owner)
	return m.onAsk(q)
}

func (m *mockRag) History(ctx context.Context, owner string, id string) ([]commonModels.ChatRecord, error) {
	m.owners = append(m.owners, owner)
	return m.onHistory(id)
}

func newTestServer(t *testing.T, m *mockRag) *Server {
	t.Helper()
	s, err := NewServer(m, "alice")
	require.NoError(t, err)
	return s
}

func TestNewServer_Validates(t *testing.T) {
	_, err := NewServer(nil, "alice")
	assert.Error(t, err)
	_, err = NewServer(&mockRag{}, "")
	assert.Error(t, err)
}

func TestHandleListDocuments(t *testing.T) {
	m := &mockRag{onList: func() ([]commonModels.DocumentSummary, error) {
		return []commonModels.DocumentSummary{{Id: "d1", Filename: "a.pdf"}, {Id: "d2", Filename: "b.pdf"}}, nil
	}}
	s := newTestServer(t, m)

	_, out, err := s.handleListDocuments(context.Background(), nil, ListDocumentsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "d2", out.Documents[1].FileId)
	assert.Equal(t, []string{"alice"}, m.owners)
}

func TestHandleIndexDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	m := &mockRag{onIndex: func(filename string, raw []byte) (commonModels.Document, error) {
		assert.Equal(t, "report.pdf", filename)
		assert.Equal(t, []byte("%PDF-1.4"), raw)
		return commonModels.Document{Id: "d1", Filename: filename, Size: int64(len(raw)), Chunks: make([]commonModels.DocChunk, 2)}, nil
	}}
	s := newTestServer(t, m)

	_, out, err := s.handleIndexDocument(context.Background(), nil, IndexDocumentInput{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "d1", out.FileId)
	assert.Equal(t, 2, out.NumChunks)

	_, _, err = s.handleIndexDocument(context.Background(), nil, IndexDocumentInput{Path: filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, err)
}

func TestHandleAskDocument(t *testing.T) {
	m := &mockRag{onAsk: func(q rag.Question) (rag.Answer, error) {
		if q.DocumentId != "d1" {
			return rag.Answer{}, commonModels.NotFound("PDF not found or chunking failed.")
		}
		return rag.Answer{
			Question:   q.Text,
			Filename:   "a.pdf",
			Answer:     "forty two",
			DocumentId: q.DocumentId,
			Images:     []commonModels.ImageRef{{Page: 1, IndexInPage: 1, Filename: "d1_img_1_1.png"}},
		}, nil
	}}
	s := newTestServer(t, m)

	_, out, err := s.handleAskDocument(context.Background(), nil, AskDocumentInput{FileId: "d1", Question: "show the chart"})
	require.NoError(t, err)
	assert.Equal(t, "forty two", out.Answer)
	assert.Equal(t, []string{"/pdf-image?file_id=d1&image=d1_img_1_1.png"}, out.Images)

	_, _, err = s.handleAskDocument(context.Background(), nil, AskDocumentInput{FileId: "other", Question: "q"})
	assert.EqualError(t, err, "PDF not found or chunking failed.")
}

func TestHandleChatHistory_HidesInternalErrors(t *testing.T) {
	m := &mockRag{onHistory: func(id string) ([]commonModels.ChatRecord, error) {
		return nil, errors.New("redis: connection refused")
	}}
	s := newTestServer(t, m)

	_, _, err := s.handleChatHistory(context.Background(), nil, ChatHistoryInput{FileId: "d1"})
	assert.EqualError(t, err, "Internal Server Error")
}
