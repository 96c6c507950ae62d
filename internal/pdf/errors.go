package pdf

import "fmt"

// DocumentError wraps a failure from one of the underlying PDF libraries
// with the library and operation that produced it.
type DocumentError struct {
	Library string `json:"library"`
	Op      string `json:"operation"`
	Path    string `json:"path,omitempty"`
	Err     error  `json:"error"`
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("PDF %s error in %s (%s): %v", e.Library, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("PDF %s error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

const (
	libLedongthuc = "ledongthuc"
	libPDFCPU     = "pdfcpu"
	libFPDF       = "fpdf"
)
