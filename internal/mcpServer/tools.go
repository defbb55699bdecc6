package mcpServer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/pdfchat/internal/adapter"
	"github.com/akolanti/pdfchat/internal/api"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListDocumentsInput struct{}

type ListDocumentsOutput struct {
	Documents []api.DocumentItem `json:"documents"`
	Count     int                `json:"count"`
}

type IndexDocumentInput struct {
	Path string `json:"path" jsonschema:"local path of the PDF to index"`
}

type AskDocumentInput struct {
	FileId           string `json:"file_id" jsonschema:"id of an indexed PDF"`
	Question         string `json:"question" jsonschema:"the question to answer from the PDF"`
	AnswerFormat     string `json:"answer_format,omitempty" jsonschema:"points, paragraph or summary (default points)"`
	ResponseLanguage string `json:"response_language,omitempty" jsonschema:"language of the answer (default English)"`
}

type ChatHistoryInput struct {
	FileId string `json:"file_id" jsonschema:"id of an indexed PDF"`
}

type ChatHistoryOutput struct {
	History []api.HistoryItem `json:"history"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the PDFs indexed for the current user",
	}, s.handleListDocuments)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Index a local PDF file so it can be queried",
	}, s.handleIndexDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question using the content of an indexed PDF",
	}, s.handleAskDocument)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat_history",
		Description: "Previous questions and answers for an indexed PDF",
	}, s.handleChatHistory)
}

// toolError keeps client facing messages and hides internal errors.
func toolError(err error) error {
	return errors.New(commonModels.Message(err))
}

func (s *Server) handleListDocuments(ctx context.Context, _ *mcp.CallToolRequest, _ ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.rag.ListDocuments(ctx, s.owner)
	if err != nil {
		s.logger.Error("list documents", "error", err)
		return nil, ListDocumentsOutput{}, toolError(err)
	}
	items := adapter.ToDocumentList(docs)
	return nil, ListDocumentsOutput{Documents: items, Count: len(items)}, nil
}

func (s *Server) handleIndexDocument(ctx context.Context, _ *mcp.CallToolRequest, input IndexDocumentInput) (*mcp.CallToolResult, api.UploadResponse, error) {
	raw, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, api.UploadResponse{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}
	doc, err := s.rag.IndexDocument(ctx, s.owner, filepath.Base(input.Path), raw)
	if err != nil {
		s.logger.Error("index document", "path", input.Path, "error", err)
		return nil, api.UploadResponse{}, toolError(err)
	}
	return nil, adapter.ToUploadResponse(doc), nil
}

func (s *Server) handleAskDocument(ctx context.Context, _ *mcp.CallToolRequest, input AskDocumentInput) (*mcp.CallToolResult, api.ChatResponse, error) {
	answer, err := s.rag.Ask(ctx, s.owner, rag.Question{
		DocumentId:       input.FileId,
		Text:             input.Question,
		AnswerFormat:     input.AnswerFormat,
		ResponseLanguage: input.ResponseLanguage,
	})
	if err != nil {
		s.logger.Warn("ask document", "file_id", input.FileId, "error", err)
		return nil, api.ChatResponse{}, toolError(err)
	}
	return nil, adapter.ToChatResponse(answer), nil
}

func (s *Server) handleChatHistory(ctx context.Context, _ *mcp.CallToolRequest, input ChatHistoryInput) (*mcp.CallToolResult, ChatHistoryOutput, error) {
	records, err := s.rag.History(ctx, s.owner, input.FileId)
	if err != nil {
		return nil, ChatHistoryOutput{}, toolError(err)
	}
	return nil, ChatHistoryOutput{History: adapter.ToHistory(records)}, nil
}
