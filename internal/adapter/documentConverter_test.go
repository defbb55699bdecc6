package adapter

import (
	"testing"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/stretchr/testify/assert"
)

func TestImageURL(t *testing.T) {
	assert.Equal(t, "/pdf-image?file_id=abc&image=abc_img_2_1.png", ImageURL("abc", "abc_img_2_1.png"))
}

func TestToChatResponse_ImagesNeverNull(t *testing.T) {
	res := ToChatResponse(rag.Answer{Question: "q", Filename: "f.pdf", DocumentId: "d"})
	assert.NotNil(t, res.Images)
	assert.Empty(t, res.Images)

	res = ToChatResponse(rag.Answer{DocumentId: "d", Images: []commonModels.ImageRef{{Page: 1, IndexInPage: 1, Filename: "d_img_1_1.png"}}})
	assert.Equal(t, []string{"/pdf-image?file_id=d&image=d_img_1_1.png"}, res.Images)
}

func TestToDocumentList(t *testing.T) {
	assert.NotNil(t, ToDocumentList(nil))
	got := ToDocumentList([]commonModels.DocumentSummary{{Id: "1", Filename: "a.pdf"}})
	assert.Equal(t, "1", got[0].FileId)
	assert.Equal(t, "a.pdf", got[0].Filename)
}
