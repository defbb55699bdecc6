package adapter

import (
	"net/url"

	"github.com/akolanti/pdfchat/internal/api"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
)

func ImageURL(fileId string, image string) string {
	q := url.Values{}
	q.Set("file_id", fileId)
	q.Set("image", image)
	return "/pdf-image?" + q.Encode()
}

func ToUploadResponse(doc commonModels.Document) api.UploadResponse {
	return api.UploadResponse{
		Filename:  doc.Filename,
		FileId:    doc.Id,
		Size:      doc.Size,
		NumChunks: len(doc.Chunks),
		NumImages: len(doc.Images),
	}
}

func ToChatResponse(answer rag.Answer) api.ChatResponse {
	images := make([]string, 0, len(answer.Images))
	for _, img := range answer.Images {
		images = append(images, ImageURL(answer.DocumentId, img.Filename))
	}
	return api.ChatResponse{
		Question:         answer.Question,
		Pdf:              answer.Filename,
		AnswerFormat:     answer.AnswerFormat,
		ResponseLanguage: answer.ResponseLanguage,
		Answer:           answer.Answer,
		Images:           images,
	}
}

func ToDocumentList(docs []commonModels.DocumentSummary) []api.DocumentItem {
	out := make([]api.DocumentItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, api.DocumentItem{FileId: d.Id, Filename: d.Filename})
	}
	return out
}

func ToHistory(records []commonModels.ChatRecord) []api.HistoryItem {
	out := make([]api.HistoryItem, 0, len(records))
	for _, r := range records {
		out = append(out, api.HistoryItem{Question: r.Question, Answer: r.Answer})
	}
	return out
}

func ToError(message string) api.ErrorResponse {
	return api.ErrorResponse{Error: message}
}
