package extract

import (
	"fmt"
	"log"

	"github.com/a3tai/component-analyzer/internal/component"
)

// Outcome is the result of a full extraction pass. Strategy names the
// strategy whose observations were kept and is empty when none found any.
type Outcome struct {
	Observations []Observation `json:"observations"`
	Strategy     string        `json:"strategy,omitempty"`
	Warnings     []Warning     `json:"warnings,omitempty"`
}

// Extractor runs strategies in order and stops at the first one that
// yields observations.
type Extractor struct {
	strategies []Strategy
}

// New creates an extractor over strategies, tried in the given order.
func New(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// NewDefault chains the text layer, OCR and alternate text strategies.
func NewDefault(rasterizer Rasterizer, newRecognizer func() (Recognizer, error)) *Extractor {
	return New(
		NewTextLayerStrategy(),
		&OCRStrategy{Rasterizer: rasterizer, NewRecognizer: newRecognizer},
		NewAltTextStrategy(),
	)
}

// Extract never fails: a strategy error becomes a warning and the chain
// moves on. The worst case is an outcome with no observations.
func (e *Extractor) Extract(path string, prefixes *component.PrefixSet) Outcome {
	var outcome Outcome

	for _, s := range e.strategies {
		result := run(s, path, prefixes)
		if !result.OK() {
			w := Warning{Strategy: s.Name(), Reason: result.Reason()}
			log.Printf("Warning: %s", w)
			outcome.Warnings = append(outcome.Warnings, w)
			continue
		}

		found := result.Observations()
		if len(found) == 0 {
			log.Printf("Extraction strategy %s found no identifiers", s.Name())
			continue
		}

		log.Printf("Extraction strategy %s found %d identifiers", s.Name(), len(found))
		outcome.Observations = found
		outcome.Strategy = s.Name()
		return outcome
	}

	return outcome
}

func run(s Strategy, path string, prefixes *component.PrefixSet) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failed(fmt.Sprintf("panic: %v", r))
		}
	}()
	return s.Extract(path, prefixes)
}

// Counter builds the document identifier multiset from observations.
func Counter(observations []Observation) component.Counter {
	c := component.NewCounter()
	for _, o := range observations {
		c.Add(o.ID)
	}
	return c
}
