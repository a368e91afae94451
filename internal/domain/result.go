package domain

// Severity labels a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Rank orders severities so that ERROR > WARNING > INFO > SUCCESS.
// Unknown labels rank below SUCCESS.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	case SeveritySuccess:
		return 0
	}
	return -1
}

// ValidationResult is a single finding produced by a checker.
type ValidationResult struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Details  string   `json:"details,omitempty"`
	Fix      string   `json:"fix,omitempty"`
}

func Success(check, message string) ValidationResult {
	return ValidationResult{Check: check, Severity: SeveritySuccess, Message: message}
}

func Info(check, message, details, fix string) ValidationResult {
	return ValidationResult{Check: check, Severity: SeverityInfo, Message: message, Details: details, Fix: fix}
}

func Warning(check, message, details, fix string) ValidationResult {
	return ValidationResult{Check: check, Severity: SeverityWarning, Message: message, Details: details, Fix: fix}
}

func Error(check, message, details, fix string) ValidationResult {
	return ValidationResult{Check: check, Severity: SeverityError, Message: message, Details: details, Fix: fix}
}

// WithDetails returns a copy of r carrying details.
func (r ValidationResult) WithDetails(details string) ValidationResult {
	r.Details = details
	return r
}

// Report accumulates validation results in the order they were produced.
// Results are only ever appended.
type Report struct {
	ConfigPath string             `json:"config_path,omitempty"`
	RunID      string             `json:"run_id,omitempty"`
	CommitHash string             `json:"commit_hash,omitempty"`
	Results    []ValidationResult `json:"results"`

	// Config is the parsed tree, nil when loading failed.
	Config ConfigTree `json:"-"`
}

// NewReport returns an empty report for the given config path.
func NewReport(configPath string) *Report {
	return &Report{ConfigPath: configPath, Results: []ValidationResult{}}
}

func (r *Report) Add(results ...ValidationResult) {
	r.Results = append(r.Results, results...)
}

func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

func (r *Report) HasWarnings() bool {
	return r.Count(SeverityWarning) > 0
}

// Count returns how many results carry the given severity.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, res := range r.Results {
		if res.Severity == sev {
			n++
		}
	}
	return n
}

// Find returns the results with the given check id, in order.
func (r *Report) Find(check string) []ValidationResult {
	var out []ValidationResult
	for _, res := range r.Results {
		if res.Check == check {
			out = append(out, res)
		}
	}
	return out
}

// Failed reports whether the run should be treated as a failure. In strict
// mode warnings count as failures too.
func (r *Report) Failed(strict bool) bool {
	if r.HasErrors() {
		return true
	}
	return strict && r.HasWarnings()
}
