package ingest

import (
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/akolanti/pdfchat/internal/data/fileStore"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/testutil/testpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	onGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockProvider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return m.onGetEmbedding(ctx, text)
}

// fakeRenderer returns blank US Letter pages at the requested resolution.
type fakeRenderer struct {
	opened int32
}

func (f *fakeRenderer) Open(raw []byte) (RenderedDocument, error) {
	atomic.AddInt32(&f.opened, 1)
	return fakeDocument{}, nil
}

type fakeDocument struct{}

func (fakeDocument) RenderPage(page int, dpi float64) (image.Image, error) {
	scale := dpi / 72
	return image.NewRGBA(image.Rect(0, 0, int(612*scale), int(792*scale))), nil
}

func (fakeDocument) Close() error { return nil }

func twoPagePDF() []byte {
	return testpdf.Build(
		testpdf.Page{Text: "Alpha Beta"},
		testpdf.Page{Text: "Gamma Delta", Images: []testpdf.Placement{{X: 72, Y: 500, W: 100, H: 80}}},
	)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("report.PDF", 10))

	err := ValidateUpload("notes.txt", 10)
	assert.Equal(t, commonModels.KindValidation, commonModels.KindOf(err))
	assert.Equal(t, "Only PDF files are allowed.", commonModels.Message(err))

	err = ValidateUpload("big.pdf", 500<<20+1)
	assert.Equal(t, "File size exceeds 500MB limit.", commonModels.Message(err))
}

func TestIndex_TextChunksAndImages(t *testing.T) {
	files := fileStore.NewMemStore()
	renderer := &fakeRenderer{}
	indexer := NewIndexer(files, nil, NewImageExtractor(renderer, 150))

	doc, err := indexer.Index(context.Background(), "doc1", twoPagePDF(), "report.pdf", "alice")
	require.NoError(t, err)

	assert.Equal(t, "doc1", doc.Id)
	assert.Equal(t, "alice", doc.Owner)
	assert.Equal(t, "report.pdf", doc.Filename)
	assert.True(t, files.Exists("doc1_report.pdf"))

	assert.Contains(t, doc.RawText, "Alpha Beta")
	assert.Contains(t, doc.RawText, "Gamma Delta")
	assert.Less(t, strings.Index(doc.RawText, "Alpha"), strings.Index(doc.RawText, "Gamma"))
	require.Len(t, doc.Chunks, 1)
	assert.Nil(t, doc.Chunks[0].Embedding)

	require.Len(t, doc.Images, 1)
	assert.Equal(t, commonModels.ImageRef{Page: 2, IndexInPage: 1, Filename: "doc1_img_2_1.png"}, doc.Images[0])
	assert.EqualValues(t, 1, renderer.opened)

	rc, err := files.Open("doc1_img_2_1.png")
	require.NoError(t, err)
	defer rc.Close()
	img, err := png.Decode(rc)
	require.NoError(t, err)
	// 100x80 points at 150 dpi
	assert.InDelta(t, 208, img.Bounds().Dx(), 2)
	assert.InDelta(t, 167, img.Bounds().Dy(), 2)
}

func TestIndex_NoRendererSkipsImages(t *testing.T) {
	indexer := NewIndexer(fileStore.NewMemStore(), nil, nil)

	doc, err := indexer.Index(context.Background(), "doc2", twoPagePDF(), "report.pdf", "alice")
	require.NoError(t, err)
	assert.Empty(t, doc.Images)
	assert.NotEmpty(t, doc.Chunks)
}

func TestIndex_EmbedsEveryChunkInOrder(t *testing.T) {
	var text strings.Builder
	for i := 0; i < 40; i++ {
		text.WriteString("lorem ipsum dolor sit amet consectetur ")
	}
	raw := testpdf.Build(testpdf.Page{Text: text.String()})

	provider := &mockProvider{onGetEmbedding: func(ctx context.Context, s string) ([]float32, error) {
		if strings.HasPrefix(s, "lorem") {
			return []float32{float32(len(s))}, nil
		}
		return nil, errors.New("quota")
	}}
	indexer := NewIndexer(fileStore.NewMemStore(), embedding.NewEmbedder(provider), nil,
		WithChunking(300, 20), WithConcurrency(3))

	doc, err := indexer.Index(context.Background(), "doc3", raw, "long.pdf", "bob")
	require.NoError(t, err)
	require.Greater(t, len(doc.Chunks), 1)

	for _, c := range doc.Chunks {
		if strings.HasPrefix(c.Text, "lorem") {
			assert.Equal(t, []float32{float32(len(c.Text))}, c.Embedding)
		} else {
			assert.Nil(t, c.Embedding)
		}
	}
}

func TestIndex_RejectsAndFailures(t *testing.T) {
	files := fileStore.NewMemStore()
	indexer := NewIndexer(files, nil, nil)

	_, err := indexer.Index(context.Background(), "x", []byte("hello"), "notes.txt", "alice")
	assert.Equal(t, commonModels.KindValidation, commonModels.KindOf(err))
	assert.False(t, files.Exists("x_notes.txt"))

	_, err = indexer.Index(context.Background(), "y", []byte("not a pdf at all"), "broken.pdf", "alice")
	assert.Equal(t, commonModels.KindProcessing, commonModels.KindOf(err))
	assert.True(t, strings.HasPrefix(commonModels.Message(err), "PDF parsing failed"))
	// the raw upload is kept even when parsing fails
	assert.True(t, files.Exists("y_broken.pdf"))
}

func TestIndex_BlankDocumentHasNoChunks(t *testing.T) {
	raw := testpdf.Build(testpdf.Page{}, testpdf.Page{})
	doc, err := NewIndexer(fileStore.NewMemStore(), nil, nil).Index(context.Background(), "z", raw, "blank.pdf", "alice")
	require.NoError(t, err)
	assert.Empty(t, doc.RawText)
	assert.Empty(t, doc.Chunks)
}

func TestPixelRect(t *testing.T) {
	page := image.Rect(0, 0, 1224, 1584)
	box := rect{X0: 0, Y0: 0, X1: 612, Y1: 792}

	r := pixelRect(page, box, rect{X0: 0, Y0: 0, X1: 72, Y1: 72}, 2)
	assert.Equal(t, image.Rect(0, 1440, 144, 1584), r)

	// clipped to the page
	r = pixelRect(page, box, rect{X0: -100, Y0: 700, X1: 50, Y1: 900}, 2)
	assert.Equal(t, 0, r.Min.X)
	assert.Equal(t, 0, r.Min.Y)
}

func TestLocateImages(t *testing.T) {
	raw := testpdf.Build(testpdf.Page{Images: []testpdf.Placement{
		{X: 10, Y: 20, W: 30, H: 40},
		{X: 100, Y: 100, W: 50, H: 50},
	}})
	reader, err := openPDF(raw)
	require.NoError(t, err)

	placements, err := locateImages(reader.Page(1))
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assert.Equal(t, rect{X0: 10, Y0: 20, X1: 40, Y1: 60}, placements[0].Bounds)
	assert.Equal(t, "Im1", placements[1].Name)

}
