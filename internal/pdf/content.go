package pdf

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// kerningSpace is the TJ adjustment, in thousandths of a text space unit,
// beyond which a gap is read as a word break.
const kerningSpace = -200.0

// ContentText extracts unpositioned page text by interpreting each page's
// content stream as decoded by pdfcpu.
type ContentText struct{}

// PageTexts returns one string per page in page order. A page whose content
// cannot be decoded yields an empty string.
func (ContentText) PageTexts(path string) (texts []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DocumentError{Library: libPDFCPU, Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = &DocumentError{Library: libPDFCPU, Op: "page_texts", Path: path, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, &DocumentError{Library: libPDFCPU, Op: "read_context", Path: path, Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &DocumentError{Library: libPDFCPU, Op: "page_count", Path: path, Err: err}
	}

	texts = make([]string, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		r, err := pdfcpu.ExtractPageContent(ctx, i)
		if err != nil || r == nil {
			continue
		}
		texts[i-1] = ContentStreamText(r)
	}
	return texts, nil
}

// ContentStreamText interprets the text-showing operators of a decoded
// content stream. Text positioning operators and large TJ gaps become
// whitespace; inline image data is skipped.
func ContentStreamText(r io.Reader) string {
	var (
		out      strings.Builder
		lexer    = newContentLexer(r)
		operands []contentToken
		array    []contentToken
		inArray  bool
	)

	newline := func() {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
	}
	lastString := func() (string, bool) {
		for i := len(operands) - 1; i >= 0; i-- {
			if operands[i].kind == tokenString {
				return operands[i].value, true
			}
		}
		return "", false
	}

	for {
		tok := lexer.next()
		if tok.kind == tokenEOF {
			break
		}

		if inArray {
			if tok.kind == tokenArrayEnd {
				inArray = false
			} else {
				array = append(array, tok)
			}
			continue
		}

		switch tok.kind {
		case tokenArrayStart:
			inArray = true
			array = array[:0]
			continue
		case tokenOperator:
		default:
			operands = append(operands, tok)
			continue
		}

		switch tok.value {
		case "Tj":
			if s, ok := lastString(); ok {
				out.WriteString(s)
			}
		case "'", "\"":
			newline()
			if s, ok := lastString(); ok {
				out.WriteString(s)
			}
		case "TJ":
			for _, el := range array {
				switch el.kind {
				case tokenString:
					out.WriteString(el.value)
				case tokenNumber:
					if v, err := strconv.ParseFloat(el.value, 64); err == nil && v < kerningSpace {
						out.WriteByte(' ')
					}
				}
			}
		case "Td", "TD", "T*", "Tm", "BT", "ET":
			newline()
		case "ID":
			lexer.skipInlineImage()
		}

		operands = operands[:0]
		array = array[:0]
	}

	return out.String()
}

// skipInlineImage consumes binary image data up to and including the EI
// operator that terminates it.
func (l *contentLexer) skipInlineImage() {
	// one whitespace byte follows ID
	l.advance()
	prevSpace := true
	for l.hasNext {
		if prevSpace && l.current == 'E' && l.peek() == 'I' {
			l.advance()
			l.advance()
			if !l.hasNext || isWhitespace(l.current) {
				return
			}
			prevSpace = false
			continue
		}
		prevSpace = isWhitespace(l.current)
		l.advance()
	}
}
