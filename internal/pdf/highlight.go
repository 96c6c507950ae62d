package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// HighlightOpacity is the constant opacity of every highlight annotation.
const HighlightOpacity = 0.5

// annotPrintFlag marks an annotation as printable.
const annotPrintFlag = 4

// Highlight is a colored marker over one region of one page.
type Highlight struct {
	Page     int
	Box      Rect
	Color    [3]float64
	Contents string
}

// WriteHighlights copies the document at in to out with one highlight
// annotation added per entry. Entries pointing at pages the document does
// not have are rejected.
func WriteHighlights(in, out string, highlights []Highlight) (err error) {
	f, err := os.Open(in)
	if err != nil {
		return &DocumentError{Library: libPDFCPU, Op: "open", Path: in, Err: err}
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = &DocumentError{Library: libPDFCPU, Op: "highlight", Path: in, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return &DocumentError{Library: libPDFCPU, Op: "read_context", Path: in, Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return &DocumentError{Library: libPDFCPU, Op: "page_count", Path: in, Err: err}
	}

	byPage := make(map[int][]Highlight)
	for _, h := range highlights {
		if h.Page < 1 || h.Page > ctx.PageCount {
			return &DocumentError{
				Library: libPDFCPU,
				Op:      "highlight",
				Path:    in,
				Err:     fmt.Errorf("invalid page number %d (document has %d pages)", h.Page, ctx.PageCount),
			}
		}
		byPage[h.Page] = append(byPage[h.Page], h)
	}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		list := byPage[pageNr]
		if len(list) == 0 {
			continue
		}
		if err := addPageHighlights(ctx, pageNr, list); err != nil {
			return &DocumentError{Library: libPDFCPU, Op: "highlight", Path: in, Err: err}
		}
	}

	if err := api.WriteContextFile(ctx, out); err != nil {
		return &DocumentError{Library: libPDFCPU, Op: "write", Path: out, Err: err}
	}
	return nil
}

func addPageHighlights(ctx *model.Context, pageNr int, list []Highlight) error {
	pageDict, pageRef, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return err
	}
	if pageDict == nil {
		return fmt.Errorf("page %d has no page dictionary", pageNr)
	}

	var annots types.Array
	if obj, found := pageDict.Find("Annots"); found {
		existing, err := ctx.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("page %d annotations: %w", pageNr, err)
		}
		annots = append(annots, existing...)
	}

	for _, h := range list {
		d := highlightDict(h)
		if pageRef != nil {
			d["P"] = *pageRef
		}
		ref, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return err
		}
		annots = append(annots, *ref)
	}

	pageDict.Update("Annots", annots)
	return nil
}

func highlightDict(h Highlight) types.Dict {
	b := h.Box
	return types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Highlight"),
		"Rect":    floatArray(b.X0, b.Y0, b.X1, b.Y1),
		// upper-left, upper-right, lower-left, lower-right
		"QuadPoints": floatArray(b.X0, b.Y1, b.X1, b.Y1, b.X0, b.Y0, b.X1, b.Y0),
		"C":          floatArray(h.Color[0], h.Color[1], h.Color[2]),
		"CA":         types.Float(HighlightOpacity),
		"F":          types.Integer(annotPrintFlag),
		"Contents":   types.StringLiteral(h.Contents),
	}
}

func floatArray(values ...float64) types.Array {
	arr := make(types.Array, 0, len(values))
	for _, v := range values {
		arr = append(arr, types.Float(v))
	}
	return arr
}
