package ocr

import (
	"fmt"
	"image"

	fitz "github.com/gen2brain/go-fitz"
)

// DefaultDPI is the rendering resolution used when none is configured.
const DefaultDPI = 300.0

// Rasterizer renders every page of a document with MuPDF.
type Rasterizer struct {
	DPI float64
}

// NewRasterizer returns a rasterizer at dpi (DefaultDPI when not positive).
func NewRasterizer(dpi float64) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{DPI: dpi}
}

// Rasterize returns one image per page in page order.
func (r *Rasterizer) Rasterize(path string) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document for rendering: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	images := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.ImageDPI(i, r.DPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}
