package inference

import (
	"errors"
	"strings"
)

const (
	DefaultModel     = "gpt2"
	DefaultMaxTokens = 128
)

// Request is one prompt for one model. It is built once and never mutated.
type Request struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// WithDefaults fills an empty model and a zero token bound.
func (r Request) WithDefaults() Request {
	if strings.TrimSpace(r.Model) == "" {
		r.Model = DefaultModel
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// Validate checks the fields a backend cannot do without. MaxTokens is not
// checked here; backends receive it unchanged and reject bounds they cannot use.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return errors.New("model is required")
	}
	return nil
}
