package extract

import (
	"image"
	"strings"

	"github.com/a3tai/component-analyzer/internal/component"
	"github.com/a3tai/component-analyzer/internal/pdf"
)

// Strategy names reported in outcomes and warnings.
const (
	StrategyTextLayer = "text_layer"
	StrategyOCR       = "rasterize_ocr"
	StrategyAltText   = "alternate_text"
)

// Strategy produces observations from the document at path.
type Strategy interface {
	Name() string
	Extract(path string, prefixes *component.PrefixSet) Result
}

// WordSource exposes positioned words page by page.
type WordSource interface {
	NumPages() int
	PageWords(pageNum int) ([]pdf.Word, error)
	Close() error
}

// TextLayerStrategy reads the native text layer, keeping positions.
type TextLayerStrategy struct {
	Open func(path string) (WordSource, error)
}

// NewTextLayerStrategy reads words with pdf.OpenTextLayer.
func NewTextLayerStrategy() *TextLayerStrategy {
	return &TextLayerStrategy{
		Open: func(path string) (WordSource, error) {
			layer, err := pdf.OpenTextLayer(path)
			if err != nil {
				return nil, err
			}
			return layer, nil
		},
	}
}

func (s *TextLayerStrategy) Name() string { return StrategyTextLayer }

func (s *TextLayerStrategy) Extract(path string, prefixes *component.PrefixSet) Result {
	src, err := s.Open(path)
	if err != nil {
		return Failed(err.Error())
	}
	defer src.Close()

	var observations []Observation
	for page := 1; page <= src.NumPages(); page++ {
		words, err := src.PageWords(page)
		if err != nil {
			return Failed(err.Error())
		}
		for _, w := range words {
			id := component.Normalize(w.Text)
			if !prefixes.IsValidIdentifier(id) {
				continue
			}
			box := w.Box
			observations = append(observations, Observation{ID: id, Page: page, Box: &box})
		}
	}
	return Succeeded(observations)
}

// Rasterizer renders one image per page in page order.
type Rasterizer interface {
	Rasterize(path string) ([]image.Image, error)
}

// Recognizer returns the text found in an image.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
	Close() error
}

// OCRStrategy renders pages and runs text recognition over them.
// The recognizer is created only when the strategy runs.
type OCRStrategy struct {
	Rasterizer    Rasterizer
	NewRecognizer func() (Recognizer, error)
}

func (s *OCRStrategy) Name() string { return StrategyOCR }

func (s *OCRStrategy) Extract(path string, prefixes *component.PrefixSet) Result {
	if s.Rasterizer == nil || s.NewRecognizer == nil {
		return Failed("no rasterizer or recognizer configured")
	}

	images, err := s.Rasterizer.Rasterize(path)
	if err != nil {
		return Failed(err.Error())
	}
	if len(images) == 0 {
		return Succeeded(nil)
	}

	recognizer, err := s.NewRecognizer()
	if err != nil {
		return Failed(err.Error())
	}
	defer recognizer.Close()

	var observations []Observation
	for i, img := range images {
		text, err := recognizer.Recognize(img)
		if err != nil {
			return Failedf("page %d: %v", i+1, err)
		}
		observations = append(observations, matchText(text, i+1, prefixes)...)
	}
	return Succeeded(observations)
}

// PlainTextSource returns the plain text of each page in page order.
type PlainTextSource interface {
	PageTexts(path string) ([]string, error)
}

// AltTextStrategy runs an independent text engine over the document.
type AltTextStrategy struct {
	Source PlainTextSource
}

// NewAltTextStrategy reads page text with pdf.ContentText.
func NewAltTextStrategy() *AltTextStrategy {
	return &AltTextStrategy{Source: pdf.ContentText{}}
}

func (s *AltTextStrategy) Name() string { return StrategyAltText }

func (s *AltTextStrategy) Extract(path string, prefixes *component.PrefixSet) Result {
	texts, err := s.Source.PageTexts(path)
	if err != nil {
		return Failed(err.Error())
	}

	var observations []Observation
	for i, text := range texts {
		observations = append(observations, matchText(text, i+1, prefixes)...)
	}
	return Succeeded(observations)
}

// matchText splits text on whitespace and keeps the words that are a
// configured prefix followed by digits once normalized. Positions are not
// available.
func matchText(text string, page int, prefixes *component.PrefixSet) []Observation {
	var observations []Observation
	for _, word := range strings.Fields(text) {
		id := component.Normalize(word)
		if !prefixes.IsValidIdentifier(id) {
			continue
		}
		observations = append(observations, Observation{ID: id, Page: page})
	}
	return observations
}
