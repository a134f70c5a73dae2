package validator

// ValidationResult is the outcome of one validation. Valid is true iff
// Errors is empty; warnings and suggestions are advisory.
type ValidationResult struct {
	Valid       bool                   `json:"valid"`
	Level       Level                  `json:"level"`
	Errors      []string               `json:"errors,omitempty"`
	Warnings    []string               `json:"warnings,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func newResult(level Level) *ValidationResult {
	return &ValidationResult{Level: level, Metadata: make(map[string]interface{})}
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *ValidationResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *ValidationResult) suggest(msg string) {
	r.Suggestions = append(r.Suggestions, msg)
}

func (r *ValidationResult) finish() ValidationResult {
	r.Valid = len(r.Errors) == 0
	return *r
}

// clone returns a copy whose slices and metadata can be modified freely.
func (r ValidationResult) clone() ValidationResult {
	out := r
	out.Errors = append([]string(nil), r.Errors...)
	out.Warnings = append([]string(nil), r.Warnings...)
	out.Suggestions = append([]string(nil), r.Suggestions...)
	out.Metadata = make(map[string]interface{}, len(r.Metadata))
	for k, v := range r.Metadata {
		out.Metadata[k] = v
	}
	return out
}
