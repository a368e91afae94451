// Package gotcha detects known training misconfigurations. Each gotcha is
// an independent predicate over the config tree; the catalogue is an
// immutable value injected into the engine.
package gotcha

import (
	"fmt"

	"github.com/primetrain/primetrain/internal/domain"
)

// Detector reports whether a gotcha applies to a config. Detectors must
// treat missing keys as "does not apply".
type Detector func(cfg domain.ConfigTree) bool

// Gotcha is one catalogued misconfiguration with its fix.
type Gotcha struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
	Severity       domain.Severity `json:"severity"`
	// HoursLost records how much time the gotcha cost when first hit.
	HoursLost float64  `json:"hours_lost"`
	Detect    Detector `json:"-"`
}

func (g Gotcha) severity() domain.Severity {
	if g.Severity == "" {
		return domain.SeverityWarning
	}
	return g.Severity
}

// Result converts the gotcha into the finding emitted when it triggers.
func (g Gotcha) Result() domain.ValidationResult {
	return domain.ValidationResult{
		Check:    g.ID,
		Severity: g.severity(),
		Message:  g.Name,
		Details:  g.Description,
		Fix:      g.Recommendation,
	}
}

// Catalogue is an ordered, read-only list of gotchas. Order is evaluation
// and presentation order.
type Catalogue struct {
	entries []Gotcha
}

// NewCatalogue copies entries into a new catalogue.
func NewCatalogue(entries ...Gotcha) Catalogue {
	c := Catalogue{entries: make([]Gotcha, len(entries))}
	copy(c.entries, entries)
	return c
}

// Entries returns a copy of the catalogue's gotchas.
func (c Catalogue) Entries() []Gotcha {
	out := make([]Gotcha, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c Catalogue) Len() int { return len(c.entries) }

// Lookup finds a gotcha by id.
func (c Catalogue) Lookup(id string) (Gotcha, bool) {
	for _, g := range c.entries {
		if g.ID == id {
			return g, true
		}
	}
	return Gotcha{}, false
}

// With returns a new catalogue with extra gotchas appended. The receiver
// is left untouched.
func (c Catalogue) With(extra ...Gotcha) Catalogue {
	return NewCatalogue(append(c.Entries(), extra...)...)
}

// Without returns a new catalogue lacking the given ids.
func (c Catalogue) Without(ids ...string) Catalogue {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []Gotcha
	for _, g := range c.entries {
		if !drop[g.ID] {
			kept = append(kept, g)
		}
	}
	return NewCatalogue(kept...)
}

// Engine evaluates a catalogue against configs.
type Engine struct {
	catalogue Catalogue
}

func NewEngine(c Catalogue) *Engine {
	return &Engine{catalogue: c}
}

func (e *Engine) Catalogue() Catalogue { return e.catalogue }

// Evaluate returns one finding per triggered gotcha, in catalogue order.
func (e *Engine) Evaluate(cfg domain.ConfigTree) []domain.ValidationResult {
	var results []domain.ValidationResult
	for _, g := range e.catalogue.entries {
		if detect(g, cfg) {
			results = append(results, g.Result())
		}
	}
	return results
}

// detect runs a detector, treating a panic or a nil detector as a miss.
func detect(g Gotcha, cfg domain.ConfigTree) (hit bool) {
	if g.Detect == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			hit = false
		}
	}()
	return g.Detect(cfg)
}

func (g Gotcha) String() string {
	return fmt.Sprintf("%s (%s)", g.ID, g.severity())
}
