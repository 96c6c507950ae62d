package pdf

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphs(x, y, size, advance float64, s string) []pdf.Text {
	out := make([]pdf.Text, 0, len(s))
	for i, r := range s {
		out = append(out, pdf.Text{
			Font:     "Helvetica",
			FontSize: size,
			X:        x + float64(i)*advance,
			Y:        y,
			W:        advance,
			S:        string(r),
		})
	}
	return out
}

func wordTexts(words []Word) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w.Text)
	}
	return out
}

func TestGroupWords(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []pdf.Text
		want   []string
	}{
		{
			name:   "space separates words",
			glyphs: glyphs(10, 700, 10, 6, "R1 C2"),
			want:   []string{"R1", "C2"},
		},
		{
			name: "wide gap separates words",
			glyphs: append(
				glyphs(10, 700, 10, 6, "U7"),
				glyphs(40, 700, 10, 6, "D5")...,
			),
			want: []string{"U7", "D5"},
		},
		{
			name: "baseline change separates words",
			glyphs: append(
				glyphs(10, 700, 10, 6, "Q1"),
				glyphs(22, 680, 10, 6, "0")...,
			),
			want: []string{"Q1", "0"},
		},
		{
			name: "backwards move separates words",
			glyphs: append(
				glyphs(100, 700, 10, 6, "L3"),
				glyphs(10, 700, 10, 6, "L4")...,
			),
			want: []string{"L3", "L4"},
		},
		{
			name: "multi-rune glyph with inner space",
			glyphs: []pdf.Text{
				{FontSize: 10, X: 10, Y: 700, W: 30, S: "FB1 FB2"},
			},
			want: []string{"FB1", "FB2"},
		},
		{
			name:   "whitespace only",
			glyphs: glyphs(10, 700, 10, 6, "   "),
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupWords(tt.glyphs, 1)
			assert.Equal(t, tt.want, wordTexts(got))
		})
	}
}

func TestGroupWords_Box(t *testing.T) {
	words := GroupWords(glyphs(10, 700, 10, 6, "R12"), 3)
	require.Len(t, words, 1)

	w := words[0]
	assert.Equal(t, 3, w.Page)
	assert.InDelta(t, 10, w.Box.X0, 1e-9)
	assert.InDelta(t, 28, w.Box.X1, 1e-9)
	assert.InDelta(t, 700, w.Box.Y0, 1e-9)
	assert.InDelta(t, 710, w.Box.Y1, 1e-9)
}

func TestGroupWords_DefaultHeight(t *testing.T) {
	words := GroupWords([]pdf.Text{{X: 0, Y: 0, W: 5, S: "C"}, {X: 5, Y: 0, W: 5, S: "1"}}, 1)
	require.Len(t, words, 1)
	assert.Equal(t, "C1", words[0].Text)
	assert.InDelta(t, defaultGlyphHeight, words[0].Box.Height(), 1e-9)
}

// unadvanced mimics a text layer that reports neither widths nor advances
// within one shown string.
func unadvanced(x, y, size float64, fontName, s string) []pdf.Text {
	out := make([]pdf.Text, 0, len(s))
	for _, r := range s {
		out = append(out, pdf.Text{Font: fontName, FontSize: size, X: x, Y: y, S: string(r)})
	}
	return out
}

func wordByText(t *testing.T, words []Word, text string) Word {
	t.Helper()
	for _, w := range words {
		if w.Text == text {
			return w
		}
	}
	t.Fatalf("word %q not found in %v", text, wordTexts(words))
	return Word{}
}

func TestGroupWords_ZeroWidthCoreFont(t *testing.T) {
	words := GroupWords(unadvanced(72, 700, 12, "Helvetica", "R1 C2"), 1)
	require.Equal(t, []string{"R1", "C2"}, wordTexts(words))

	// Helvetica: R=722 1=556 space=278 C=722 2=556
	r1, c2 := words[0], words[1]
	assert.InDelta(t, 72, r1.Box.X0, 1e-6)
	assert.InDelta(t, 87.336, r1.Box.X1, 1e-6)
	assert.InDelta(t, 90.672, c2.Box.X0, 1e-6)
	assert.InDelta(t, 106.008, c2.Box.X1, 1e-6)
}

func TestGroupWords_ZeroWidthUnknownFont(t *testing.T) {
	words := GroupWords(unadvanced(10, 500, 10, "CustomSans", "U7 D5"), 1)
	require.Equal(t, []string{"U7", "D5"}, wordTexts(words))

	assert.InDelta(t, 10, words[0].Box.X0, 1e-9)
	assert.InDelta(t, 20, words[0].Box.X1, 1e-9)
	assert.InDelta(t, 25, words[1].Box.X0, 1e-9)
	assert.InDelta(t, 35, words[1].Box.X1, 1e-9)
}

func TestGroupWords_ZeroWidthNewLineResets(t *testing.T) {
	glyphs := append(
		unadvanced(72, 700, 12, "Helvetica", "R1"),
		unadvanced(72, 676, 12, "Helvetica", "C3")...,
	)
	words := GroupWords(glyphs, 1)
	require.Equal(t, []string{"R1", "C3"}, wordTexts(words))
	assert.InDelta(t, 72, words[1].Box.X0, 1e-6)
}

func TestRect_Expand(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 30, Y1: 25}.Expand(2)
	assert.Equal(t, Rect{X0: 8, Y0: 18, X1: 32, Y1: 27}, r)
	assert.InDelta(t, 24, r.Width(), 1e-9)
	assert.InDelta(t, 9, r.Height(), 1e-9)
}

func TestTextLayer_PageWords(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), "board.pdf",
		[]string{"R1 C2", "U7"},
		[]string{"LED3"},
	)

	layer, err := OpenTextLayer(path)
	require.NoError(t, err)
	defer layer.Close()

	require.Equal(t, 2, layer.NumPages())

	first, err := layer.PageWords(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"R1", "C2", "U7"}, wordTexts(first))

	r1 := wordByText(t, first, "R1")
	c2 := wordByText(t, first, "C2")
	u7 := wordByText(t, first, "U7")
	for _, w := range []Word{r1, c2, u7} {
		assert.Greater(t, w.Box.Width(), 0.0, "word %s has no width", w.Text)
		assert.Greater(t, w.Box.Height(), 0.0, "word %s has no height", w.Text)
	}
	assert.InDelta(t, 72, r1.Box.X0, 0.01)
	assert.InDelta(t, 87.336, r1.Box.X1, 0.01)
	assert.InDelta(t, 90.672, c2.Box.X0, 0.01)
	assert.Greater(t, c2.Box.X0, r1.Box.X1)
	assert.InDelta(t, 72, u7.Box.X0, 0.01)
	assert.Less(t, u7.Box.Y1, r1.Box.Y1, "second line sits below the first")

	second, err := layer.PageWords(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"LED3"}, wordTexts(second))
	assert.Equal(t, 2, second[0].Page)

	_, err = layer.PageWords(3)
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Contains(t, docErr.Error(), "invalid page number 3")
}

func TestTextLayer_PageWordsDistinctBoxes(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), "board.pdf",
		[]string{"R1, C3 (U7) R12A", "SWITCH3   LED10"},
	)

	layer, err := OpenTextLayer(path)
	require.NoError(t, err)
	defer layer.Close()

	words, err := layer.PageWords(1)
	require.NoError(t, err)
	require.Equal(t, []string{"R1,", "C3", "(U7)", "R12A", "SWITCH3", "LED10"}, wordTexts(words))

	lines := [][]Word{words[:4], words[4:]}
	for _, line := range lines {
		for i, w := range line {
			assert.Greater(t, w.Box.Width(), 1.0, "word %s", w.Text)
			if i > 0 {
				assert.Greater(t, w.Box.X0, line[i-1].Box.X1, "%s must follow %s", w.Text, line[i-1].Text)
			}
		}
	}
}

func TestOpenTextLayer_Missing(t *testing.T) {
	_, err := OpenTextLayer("/non/existent/board.pdf")
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, libLedongthuc, docErr.Library)
}
