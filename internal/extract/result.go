// Package extract finds component identifiers printed on a document by
// trying a fixed chain of extraction strategies.
package extract

import (
	"fmt"

	"github.com/a3tai/component-analyzer/internal/pdf"
)

// Observation is one sighting of an identifier on a page. Box is nil when
// the producing strategy has no positional metadata.
type Observation struct {
	ID   string    `json:"id"`
	Page int       `json:"page"`
	Box  *pdf.Rect `json:"box,omitempty"`
}

// Result is the outcome of running one strategy: either a list of
// observations (possibly empty) or a failure reason.
type Result struct {
	observations []Observation
	reason       string
	failed       bool
}

// Succeeded returns a successful result holding observations.
func Succeeded(observations []Observation) Result {
	return Result{observations: observations}
}

// Failed returns a failed result carrying reason.
func Failed(reason string) Result {
	return Result{reason: reason, failed: true}
}

// Failedf is Failed with formatting.
func Failedf(format string, args ...any) Result {
	return Failed(fmt.Sprintf(format, args...))
}

// OK reports whether the strategy completed.
func (r Result) OK() bool { return !r.failed }

// Observations returns the observations of a successful result.
func (r Result) Observations() []Observation { return r.observations }

// Reason returns the failure reason of a failed result.
func (r Result) Reason() string { return r.reason }

// Warning records a strategy that degraded to zero observations.
type Warning struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s extraction failed: %s", w.Strategy, w.Reason)
}
