package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/dslipak/pdf"
)

// PageRenderer rasterizes PDF pages.
type PageRenderer interface {
	Open(raw []byte) (RenderedDocument, error)
}

type RenderedDocument interface {
	// RenderPage renders the 1-based page at dpi.
	RenderPage(page int, dpi float64) (image.Image, error)
	Close() error
}

type ExtractedImage struct {
	Page        int
	IndexInPage int
	PNG         []byte
}

func ImageFilename(documentId string, page int, index int) string {
	return fmt.Sprintf("%s_img_%d_%d.png", documentId, page, index)
}

type ImageExtractor struct {
	renderer PageRenderer
	dpi      float64
	logger   *logger_i.Logger
}

// NewImageExtractor with a nil renderer extracts nothing.
func NewImageExtractor(renderer PageRenderer, dpi float64) *ImageExtractor {
	if dpi <= 0 {
		dpi = config.ImageRenderDPI
	}
	return &ImageExtractor{
		renderer: renderer,
		dpi:      dpi,
		logger:   logger_i.NewLogger("image_extractor"),
	}
}

// Extract crops every placed image out of its rendered page. Failures on one page or image are
// logged and skipped.
func (e *ImageExtractor) Extract(ctx context.Context, reader *pdf.Reader, raw []byte) []ExtractedImage {
	log := e.logger.WithTrace(ctx)
	if e.renderer == nil {
		log.Warn("no page renderer configured, skipping image extraction")
		return nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("image_extract", time.Since(start)) }()

	var rendered RenderedDocument
	var results []ExtractedImage
	defer func() {
		if rendered != nil {
			if err := rendered.Close(); err != nil {
				log.Warn("closing rendered document", "error", err)
			}
		}
	}()

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if ctx.Err() != nil {
			log.Warn("image extraction cancelled", "error", ctx.Err())
			break
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		placements, err := locateImages(page)
		if err != nil {
			log.Warn("could not walk page content", "page", pageNum, "error", err)
			continue
		}
		if len(placements) == 0 {
			continue
		}
		box, err := pageBox(page)
		if err != nil {
			log.Warn("page box", "page", pageNum, "error", err)
			continue
		}

		// render lazily, most documents have no images
		if rendered == nil {
			rendered, err = e.renderer.Open(raw)
			if err != nil {
				log.Error("could not open document for rendering", "error", err)
				return results
			}
		}
		pageImage, err := rendered.RenderPage(pageNum, e.dpi)
		if err != nil {
			log.Warn("could not render page", "page", pageNum, "error", err)
			continue
		}

		for i, placement := range placements {
			encoded, err := e.crop(pageImage, box, placement.Bounds)
			if err != nil {
				log.Warn("could not crop image", "page", pageNum, "image", placement.Name, "error", err)
				continue
			}
			results = append(results, ExtractedImage{Page: pageNum, IndexInPage: i + 1, PNG: encoded})
		}
	}
	metrics.AddImagesExtracted(len(results))
	return results
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func (e *ImageExtractor) crop(pageImage image.Image, box rect, bounds rect) ([]byte, error) {
	rectangle := pixelRect(pageImage.Bounds(), box, bounds, e.dpi/72)
	if rectangle.Empty() {
		return nil, fmt.Errorf("image lies outside the page")
	}
	src, ok := pageImage.(subImager)
	if !ok {
		return nil, fmt.Errorf("rendered page of type %T cannot be cropped", pageImage)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src.SubImage(rectangle)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pixelRect converts a user space rectangle to raster coordinates (y grows downwards),
// clipped to the rendered page.
func pixelRect(pageBounds image.Rectangle, box rect, r rect, scale float64) image.Rectangle {
	x0 := int(math.Floor((r.X0 - box.X0) * scale))
	x1 := int(math.Ceil((r.X1 - box.X0) * scale))
	y0 := int(math.Floor((box.Y1 - r.Y1) * scale))
	y1 := int(math.Ceil((box.Y1 - r.Y0) * scale))
	return image.Rect(x0, y0, x1, y1).Add(pageBounds.Min).Intersect(pageBounds)
}
