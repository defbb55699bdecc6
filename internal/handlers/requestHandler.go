package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/pdfchat/internal/adapter"
	"github.com/akolanti/pdfchat/internal/adapter/utils"
	"github.com/akolanti/pdfchat/internal/api"
	"github.com/akolanti/pdfchat/internal/auth"
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/internal/rag/ingest"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

type Accounts interface {
	Register(ctx context.Context, username string, password string) error
	Login(ctx context.Context, username string, password string) (string, error)
}

type Handler struct {
	rag      rag.Service
	accounts Accounts
	logger   *logger_i.Logger
}

func NewHandler(ragService rag.Service, accounts Accounts) *Handler {
	return &Handler{
		rag:      ragService,
		accounts: accounts,
		logger:   logger_i.NewLogger("RequestHandler"),
	}
}

// requestLogger carries the trace id and, on protected routes, the user.
func (h *Handler) requestLogger(r *http.Request) *logger_i.Logger {
	log := h.logger.WithTrace(r.Context())
	if user, ok := utils.UserFrom(r.Context()); ok {
		log = log.With("user", user)
	}
	return log
}

// currentUser is always set on protected routes, the check guards against routing mistakes.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request, log *logger_i.Logger) (string, bool) {
	user, ok := utils.UserFrom(r.Context())
	if !ok {
		WriteError(w, log, commonModels.Auth(msgCredentials, commonModels.ErrTokenInvalid))
		return "", false
	}
	return user, true
}

// RootHandler godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       / [get]
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "PDF Chat App backend is running!"})
}

// RegisterHandler godoc
// @Summary      Register a user
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  api.MsgResponse
// @Failure      400  {object}  api.ErrorResponse  "Username already registered"
// @Router       /register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	creds := readCredentials(r)
	if err := h.accounts.Register(r.Context(), creds.Username, creds.Password); err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MsgResponse{Msg: "User registered successfully"})
}

// TokenHandler godoc
// @Summary      Log in
// @Description  Exchanges a username and password for a bearer token.
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  api.TokenResponse
// @Failure      400  {object}  api.ErrorResponse  "Incorrect username or password"
// @Router       /token [post]
func (h *Handler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	creds := readCredentials(r)
	token, err := h.accounts.Login(r.Context(), creds.Username, creds.Password)
	if errors.Is(err, commonModels.ErrInvalidCredentials) {
		log.Warn("login rejected", "username", creds.Username)
		WriteErrorResponse(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}
	if err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: auth.TokenType})
}

// LanguagesHandler godoc
// @Summary      Supported answer languages
// @Tags         Options
// @Produce      json
// @Success      200  {array}  string
// @Router       /options/languages [get]
func (h *Handler) LanguagesHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, config.Languages)
}

// AnswerFormatsHandler godoc
// @Summary      Supported answer formats
// @Tags         Options
// @Produce      json
// @Success      200  {array}  string
// @Router       /options/answer-formats [get]
func (h *Handler) AnswerFormatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, config.AnswerFormats)
}

// UploadHandler godoc
// @Summary      Upload a PDF
// @Description  Stores the PDF, extracts its text and images and builds the chunk index.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "The PDF to index"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse  "Not a PDF or larger than 500MB"
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse  "PDF parsing failed"
// @Router       /upload-pdf [post]
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	user, ok := h.currentUser(w, r, log)
	if !ok || !validateContext(r.Context(), log) {
		return
	}

	// multipart framing needs a little room on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+config.MultipartMemoryLimit)
	if err := r.ParseMultipartForm(config.MultipartMemoryLimit); err != nil {
		if isTooLarge(err) {
			WriteError(w, log, commonModels.Validation("File size exceeds 500MB limit."))
			return
		}
		WriteError(w, log, commonModels.Validation("Could not read the upload"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, log, commonModels.Validation("file is required"))
		return
	}
	defer file.Close()

	if err := ingest.ValidateUpload(header.Filename, header.Size); err != nil {
		WriteError(w, log, err)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(file, config.MaxUploadSize+1))
	if err != nil {
		WriteError(w, log, commonModels.Processing("Failed to read upload", err))
		return
	}

	doc, err := h.rag.IndexDocument(r.Context(), user, header.Filename, raw)
	if err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(doc))
}

// UserPdfsHandler godoc
// @Summary      List my PDFs
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   api.DocumentItem
// @Failure      401  {object}  api.ErrorResponse
// @Router       /user-pdfs [get]
func (h *Handler) UserPdfsHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	user, ok := h.currentUser(w, r, log)
	if !ok {
		return
	}
	docs, err := h.rag.ListDocuments(r.Context(), user)
	if err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(docs))
}

// ChatHistoryHandler godoc
// @Summary      Chat history for a PDF
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        file_id  query     string  true  "Document id"
// @Success      200      {array}   api.HistoryItem
// @Failure      401      {object}  api.ErrorResponse
// @Router       /chat-history [get]
func (h *Handler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	user, ok := h.currentUser(w, r, log)
	if !ok {
		return
	}
	fileId := strings.TrimSpace(r.URL.Query().Get("file_id"))
	if fileId == "" {
		WriteError(w, log, commonModels.Validation("file_id is required"))
		return
	}
	records, err := h.rag.History(r.Context(), user, fileId)
	if err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToHistory(records))
}

// ChatHandler godoc
// @Summary      Ask a question about a PDF
// @Description  Retrieves matching chunks and images and asks the language model for an answer.
// @Tags         Chat
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        question           formData  string  true   "Question"
// @Param        file_id            formData  string  true   "Document id"
// @Param        answer_format      formData  string  false  "points, paragraph or summary"
// @Param        response_language  formData  string  false  "Answer language"
// @Success      200  {object}  api.ChatResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse  "PDF not found or chunking failed."
// @Router       /chat [post]
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	user, ok := h.currentUser(w, r, log)
	if !ok || !validateContext(r.Context(), log) {
		return
	}
	req := api.ChatRequest{
		Question:         strings.TrimSpace(r.FormValue("question")),
		FileId:           strings.TrimSpace(r.FormValue("file_id")),
		AnswerFormat:     r.FormValue("answer_format"),
		ResponseLanguage: r.FormValue("response_language"),
	}
	if req.FileId == "" {
		WriteError(w, log, commonModels.Validation("file_id is required"))
		return
	}

	answer, err := h.rag.Ask(r.Context(), user, rag.Question{
		DocumentId:       req.FileId,
		Text:             req.Question,
		AnswerFormat:     req.AnswerFormat,
		ResponseLanguage: req.ResponseLanguage,
	})
	if err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(answer))
}

// DeletePdfHandler godoc
// @Summary      Delete a PDF
// @Description  Removes the PDF, its images and its chat history.
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        file_id  query     string  true  "Document id"
// @Success      200      {object}  api.MsgResponse
// @Failure      404      {object}  api.ErrorResponse  "PDF not found or not owned by user."
// @Failure      500      {object}  api.ErrorResponse  "Failed to delete file"
// @Router       /delete-pdf [delete]
func (h *Handler) DeletePdfHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	user, ok := h.currentUser(w, r, log)
	if !ok {
		return
	}
	if err := h.rag.DeleteDocument(r.Context(), user, r.URL.Query().Get("file_id")); err != nil {
		WriteError(w, log, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MsgResponse{Msg: "PDF deleted successfully."})
}

// PdfImageHandler godoc
// @Summary      Download an extracted image
// @Tags         Documents
// @Produce      png
// @Security     BearerAuth
// @Param        file_id  query  string  true  "Document id"
// @Param        image    query  string  true  "Image file name"
// @Success      200  {file}    binary
// @Failure      404  {object}  api.ErrorResponse
// @Router       /pdf-image [get]
func (h *Handler) PdfImageHandler(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	user, ok := h.currentUser(w, r, log)
	if !ok {
		return
	}
	q := r.URL.Query()
	rc, err := h.rag.ImageFile(r.Context(), user, q.Get("file_id"), q.Get("image"))
	if err != nil {
		WriteError(w, log, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.Warn("image stream interrupted", "error", err)
	}
}

func readCredentials(r *http.Request) api.CredentialsRequest {
	return api.CredentialsRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
}
