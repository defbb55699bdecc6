package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/akolanti/pdfchat/internal/adapter/utils"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRag struct {
	rag.Service
	onAsk    func(ctx context.Context, owner string, q rag.Question) (rag.Answer, error)
	onDelete func(ctx context.Context, owner string, id string) error
}

func (m *mockRag) Ask(ctx context.Context, owner string, q rag.Question) (rag.Answer, error) {
	return m.onAsk(ctx, owner, q)
}

func (m *mockRag) DeleteDocument(ctx context.Context, owner string, id string) error {
	return m.onDelete(ctx, owner, id)
}

func (m *mockRag) ImageFile(ctx context.Context, owner string, id string, image string) (io.ReadCloser, error) {
	return nil, commonModels.NotFound("Image not found for this PDF.")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(commonModels.Validation("x")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(commonModels.Conflict("x")))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(commonModels.ErrTokenInvalid))
	assert.Equal(t, http.StatusNotFound, StatusOf(commonModels.NotFound("x")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(commonModels.Processing("x", errors.New("y"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, logger_i.NewLogger("test"), errors.New("redis: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteError(rec, logger_i.NewLogger("test"), commonModels.Processing("Failed to delete file", errors.New("permission denied")))
	assert.JSONEq(t, `{"error":"Failed to delete file: permission denied"}`, rec.Body.String())
}

func authed(r *http.Request, user string) *http.Request {
	return r.WithContext(utils.WithUser(r.Context(), user))
}

func TestChatHandler(t *testing.T) {
	var got rag.Question
	h := NewHandler(&mockRag{onAsk: func(ctx context.Context, owner string, q rag.Question) (rag.Answer, error) {
		assert.Equal(t, "alice", owner)
		got = q
		return rag.Answer{Question: q.Text, Filename: "a.pdf", Answer: "42", AnswerFormat: "points", ResponseLanguage: "English", DocumentId: q.DocumentId}, nil
	}}, nil)

	form := url.Values{"question": {" what? "}, "file_id": {"d1"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, authed(req, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rag.Question{DocumentId: "d1", Text: "what?"}, got)
	assert.JSONEq(t, `{"question":"what?","pdf":"a.pdf","answer_format":"points","response_language":"English","answer":"42","images":[]}`, rec.Body.String())
}

func TestChatHandler_MissingFileId(t *testing.T) {
	h := NewHandler(&mockRag{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("question=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, authed(req, "alice"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedHandlersRequireUser(t *testing.T) {
	h := NewHandler(&mockRag{}, nil)
	rec := httptest.NewRecorder()
	h.UserPdfsHandler(rec, httptest.NewRequest(http.MethodGet, "/user-pdfs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Could not validate credentials"}`, rec.Body.String())
}

func TestDeletePdfHandler_FileFailure(t *testing.T) {
	h := NewHandler(&mockRag{onDelete: func(ctx context.Context, owner string, id string) error {
		return commonModels.Processing("Failed to delete file", errors.New("read-only file system"))
	}}, nil)
	rec := httptest.NewRecorder()
	h.DeletePdfHandler(rec, authed(httptest.NewRequest(http.MethodDelete, "/delete-pdf?file_id=d1", nil), "alice"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to delete file: read-only file system"}`, rec.Body.String())
}

func TestPdfImageHandler_NotFound(t *testing.T) {
	h := NewHandler(&mockRag{}, nil)
	rec := httptest.NewRecorder()
	h.PdfImageHandler(rec, authed(httptest.NewRequest(http.MethodGet, "/pdf-image?file_id=d1&image=x.png", nil), "alice"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Image not found for this PDF."}`, rec.Body.String())
}
