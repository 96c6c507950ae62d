package pdf

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/font"
)

const (
	// defaultGlyphHeight is used when the text layer reports no font size.
	defaultGlyphHeight = 12.0

	// wordGapRatio is the horizontal gap, relative to the font size, that
	// splits two glyphs into separate words.
	wordGapRatio = 0.25

	// baselineRatio is the vertical shift, relative to the font size, that
	// starts a new word on a different line.
	baselineRatio = 0.5

	// avgGlyphRatio estimates a glyph's advance, relative to the font size,
	// for fonts without metrics.
	avgGlyphRatio = 0.5
)

// Rect is an axis-aligned region in PDF user space (origin bottom-left).
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{X0: r.X0 - margin, Y0: r.Y0 - margin, X1: r.X1 + margin, Y1: r.Y1 + margin}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Word is one positioned text token of the native text layer.
type Word struct {
	Text string `json:"text"`
	Page int    `json:"page"`
	Box  Rect   `json:"box"`
}

// TextLayer reads positioned words from a document's native text layer.
type TextLayer struct {
	file   *os.File
	reader *pdf.Reader
	path   string
}

// OpenTextLayer opens path with ledongthuc/pdf.
func OpenTextLayer(path string) (*TextLayer, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &DocumentError{Library: libLedongthuc, Op: "open", Path: path, Err: err}
	}
	return &TextLayer{file: f, reader: reader, path: path}, nil
}

// NumPages returns the number of pages in the document.
func (t *TextLayer) NumPages() int {
	return t.reader.NumPage()
}

// PageWords returns the words of page pageNum (1-based) in content order.
func (t *TextLayer) PageWords(pageNum int) (words []Word, err error) {
	if pageNum < 1 || pageNum > t.reader.NumPage() {
		return nil, &DocumentError{
			Library: libLedongthuc,
			Op:      "page_words",
			Path:    t.path,
			Err:     fmt.Errorf("invalid page number %d (document has %d pages)", pageNum, t.reader.NumPage()),
		}
	}

	// Malformed content streams make the parser panic.
	defer func() {
		if r := recover(); r != nil {
			words = nil
			err = &DocumentError{
				Library: libLedongthuc,
				Op:      "page_words",
				Path:    t.path,
				Err:     fmt.Errorf("panic on page %d: %v", pageNum, r),
			}
		}
	}()

	page := t.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	return GroupWords(page.Content().Text, pageNum), nil
}

// Close releases the underlying file.
func (t *TextLayer) Close() error {
	if t.file != nil {
		return t.file.Close()
	}
	return nil
}

// GroupWords joins consecutive glyphs into words. A word ends at whitespace,
// at a baseline change, at a backwards move, or at a horizontal gap wider
// than a quarter of the font size. A glyph carrying several runes is placed
// as a whole; whitespace inside it still splits words. Glyphs reported
// without an advance width are measured and laid out by pen.
func GroupWords(glyphs []pdf.Text, pageNum int) []Word {
	var (
		words   []Word
		current strings.Builder
		box     Rect
		lastY   float64
		size    float64
		open    bool
		p       pen
	)

	flush := func() {
		if open && current.Len() > 0 {
			words = append(words, Word{Text: current.String(), Page: pageNum, Box: box})
		}
		current.Reset()
		open = false
	}

	for _, g := range glyphs {
		x, w := p.place(g)

		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}

		height := glyphHeight(g)

		if open {
			scale := math.Max(size, height)
			gap := x - box.X1
			if math.Abs(g.Y-lastY) > scale*baselineRatio ||
				gap > scale*wordGapRatio ||
				x < box.X0-scale*wordGapRatio {
				flush()
			}
		}
		if startsWithSpace(g.S) {
			flush()
		}

		for i, piece := range strings.Fields(g.S) {
			if i > 0 {
				flush()
			}
			if !open {
				box = Rect{X0: x, Y0: g.Y, X1: x + w, Y1: g.Y + height}
				size = height
				open = true
			}
			current.WriteString(piece)
			box.X1 = math.Max(box.X1, x+w)
			box.Y0 = math.Min(box.Y0, g.Y)
			box.Y1 = math.Max(box.Y1, g.Y+height)
			size = math.Max(size, height)
		}
		lastY = g.Y

		if endsWithSpace(g.S) {
			flush()
		}
	}
	flush()

	return words
}

// pen follows the text position across glyphs whose width the text layer
// left at zero. Such glyphs also leave X unadvanced, so each one is placed
// after the measured width of its predecessor on the same baseline.
type pen struct {
	x, y  float64 // reported origin of the previous glyph
	width float64 // measured width of the previous glyph
	drift float64 // advance missing from the reported origins
	zero  bool    // previous glyph had no reported width
	used  bool
}

func (p *pen) place(g pdf.Text) (x, w float64) {
	w = g.W
	zero := w <= 0
	if zero {
		w = glyphWidth(g)
	}

	x = g.X
	advance := g.X - p.x
	if p.used && p.zero && math.Abs(g.Y-p.y) < 0.01 && advance >= 0 && advance < p.width {
		p.drift += p.width
		x = g.X + p.drift
	} else {
		p.drift = 0
	}

	p.x, p.y, p.width, p.zero, p.used = g.X, g.Y, w, zero, true
	return x, w
}

// glyphWidth measures g with the standard font metrics when g uses one of
// the 14 core fonts and estimates it from the font size otherwise.
func glyphWidth(g pdf.Text) float64 {
	size := glyphHeight(g)
	if font.IsCoreFont(g.Font) {
		units := 0
		for i := 0; i < len(g.S); i++ {
			units += font.CharWidth(g.Font, rune(g.S[i]))
		}
		return float64(units) / 1000 * size
	}
	return float64(utf8.RuneCountInString(g.S)) * size * avgGlyphRatio
}

func glyphHeight(g pdf.Text) float64 {
	if g.FontSize > 0 {
		return g.FontSize
	}
	return defaultGlyphHeight
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	return s != strings.TrimRightFunc(s, unicode.IsSpace)
}
