package domain

import "github.com/google/uuid"

// GenerationResult is the outcome of one generation call. Prompt and Error
// are mutually meaningful: a failed result carries an error and, usually,
// an empty prompt.
type GenerationResult struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Error  string `json:"error,omitempty"`
	Cached bool   `json:"cached,omitempty"`

	// Err is the typed cause behind Error.
	Err error `json:"-"`
}

// NewResult builds a successful result with a fresh id.
func NewResult(prompt string) GenerationResult {
	return GenerationResult{ID: uuid.NewString(), Prompt: prompt}
}

// NewErrorResult builds a failed result with a fresh id.
func NewErrorResult(err error) GenerationResult {
	return GenerationResult{ID: uuid.NewString(), Error: err.Error(), Err: err}
}

// Failed reports whether the result carries an error.
func (r GenerationResult) Failed() bool {
	return r.Error != "" || r.Err != nil
}

// BatchReport aggregates the results of one Generate call.
type BatchReport struct {
	BatchID string             `json:"batchId,omitempty"`
	Model   ModelDefinition    `json:"model"`
	Results []GenerationResult `json:"results"`
}

// Succeeded returns the results without an error.
func (b BatchReport) Succeeded() []GenerationResult {
	var ok []GenerationResult
	for _, r := range b.Results {
		if !r.Failed() {
			ok = append(ok, r)
		}
	}
	return ok
}

// Failures returns the failed results.
func (b BatchReport) Failures() []GenerationResult {
	var failed []GenerationResult
	for _, r := range b.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// AllSucceeded reports whether the batch produced results and none failed.
func (b BatchReport) AllSucceeded() bool {
	return len(b.Results) > 0 && len(b.Failures()) == 0
}
