package inference

import "context"

// Adapter abstracts the model runtime used by the local backend.
type Adapter interface {
	// Start prepares a session bound to the given model with fixed parameters.
	Start(model string, params Params) (Session, error)
}

// Session is one loaded model (or one server binding) used for a single generation.
type Session interface {
	// Generate streams tokens for prompt to onToken and returns the aggregate.
	// Implementations must return when ctx is canceled.
	Generate(ctx context.Context, prompt string, onToken func(string) error) (FinalResult, error)
	// Close releases any resources associated with the session.
	Close() error
}

// Params are generation parameters passed to the adapter.
type Params struct {
	MaxTokens   int
	Temperature float32
	TopK        int
	Threads     int
}

// GreedyParams bounds generation to maxTokens with sampling disabled.
func GreedyParams(maxTokens, threads int) Params {
	return Params{MaxTokens: maxTokens, Temperature: 0, TopK: 1, Threads: threads}
}

// FinalResult summarizes the generation after streaming.
type FinalResult struct {
	Content      string
	FinishReason string
}

// InProcessAvailable reports whether this binary carries the go-llama.cpp runtime.
func InProcessAvailable() bool { return llamaBuilt }
