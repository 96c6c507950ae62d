package analyzer

import "fmt"

// Kind classifies a fatal run failure.
type Kind int

const (
	// KindValidation means the inputs were rejected and the run did not start.
	KindValidation Kind = iota + 1
	// KindParse means an input could not be opened or read.
	KindParse
	// KindOutput means writing one of the outputs failed. Outputs written
	// by earlier stages are left in place.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// RunError is returned for every failure that stops a run.
type RunError struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func validationError(stage string, err error) error {
	return &RunError{Kind: KindValidation, Stage: stage, Err: err}
}

func parseError(stage string, err error) error {
	return &RunError{Kind: KindParse, Stage: stage, Err: err}
}

func outputError(stage string, err error) error {
	return &RunError{Kind: KindOutput, Stage: stage, Err: err}
}
