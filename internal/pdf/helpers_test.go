package pdf

import (
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

// writeTestPDF renders one page per entry, each line of text on its own row.
func writeTestPDF(t *testing.T, dir, name string, pages ...[]string) string {
	t.Helper()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, lines := range pages {
		doc.AddPage()
		y := 72.0
		for _, line := range lines {
			doc.Text(72, y, line)
			y += 24
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}
