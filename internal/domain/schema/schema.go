// Package schema checks the structure of a training config: required
// sections, required fields and unknown top-level keys.
package schema

import (
	"fmt"
	"sort"

	"github.com/primetrain/primetrain/internal/domain"
)

// Section describes one top-level table of a training config.
type Section struct {
	Name     string
	Required bool
	// Fields that must be present when the section exists.
	RequiredFields []string
	OptionalFields []string
}

// Schema is an ordered set of sections. Required sections are reported in
// declaration order.
type Schema struct {
	sections []Section
}

// New builds a schema from sections. The slice is copied.
func New(sections ...Section) Schema {
	s := Schema{sections: make([]Section, len(sections))}
	copy(s.sections, sections)
	return s
}

// Default returns the prime-rl config schema.
func Default() Schema {
	return New(
		Section{
			Name:           "orchestrator",
			Required:       true,
			RequiredFields: []string{"seq_len"},
			OptionalFields: []string{"sampling", "env", "model", "lora_name"},
		},
		Section{
			Name:           "trainer",
			Required:       true,
			RequiredFields: []string{"model"},
			OptionalFields: []string{"optimizer", "scheduler"},
		},
		Section{Name: "inference", OptionalFields: []string{"model", "gpu_memory_utilization"}},
		Section{Name: "ckpt"},
		Section{Name: "config"},
	)
}

func (s Schema) Sections() []Section {
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Known reports whether name is a declared top-level section.
func (s Schema) Known(name string) bool {
	for _, sec := range s.sections {
		if sec.Name == name {
			return true
		}
	}
	return false
}

// Validate emits, in order: one result per required section, one error per
// missing required field, then one warning per unknown top-level key.
// Unknown keys are sorted since map order carries no meaning.
func (s Schema) Validate(cfg domain.ConfigTree) []domain.ValidationResult {
	var results []domain.ValidationResult

	for _, sec := range s.sections {
		if !sec.Required {
			continue
		}
		if cfg.Has(sec.Name) {
			results = append(results, domain.Success("required_section",
				fmt.Sprintf("Section [%s] present", sec.Name)))
		} else {
			results = append(results, domain.Error("required_section",
				fmt.Sprintf("Missing required section: [%s]", sec.Name), "", ""))
		}
	}

	for _, sec := range s.sections {
		if !sec.Required || !cfg.Has(sec.Name) {
			continue
		}
		for _, field := range sec.RequiredFields {
			if !cfg.Has(sec.Name + "." + field) {
				results = append(results, domain.Error("required_field",
					fmt.Sprintf("Missing required field: %s.%s", sec.Name, field), "", ""))
			}
		}
	}

	unknown := make([]string, 0)
	for _, key := range cfg.Keys() {
		if !s.Known(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		results = append(results, domain.Warning("unknown_section",
			fmt.Sprintf("Unknown top-level section: [%s]", key),
			"This may be a typo or unsupported config", ""))
	}

	return results
}
