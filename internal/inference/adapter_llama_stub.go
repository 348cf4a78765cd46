//go:build !llama

package inference

import "context"

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = false

const llamaMissing = "llama support not built (missing 'llama' build tag)"

// llamaAdapter satisfies Adapter but refuses to load anything. It keeps default
// builds CGO-free.
type llamaAdapter struct {
	ctxSize int
	threads int
}

// NewLlamaAdapter returns the in-process adapter.
func NewLlamaAdapter(ctxSize, threads int) Adapter {
	return &llamaAdapter{ctxSize: ctxSize, threads: threads}
}

type llamaSession struct{}

func (a *llamaAdapter) Start(modelPath string, params Params) (Session, error) {
	return nil, ErrDependencyUnavailable(llamaMissing)
}

func (s *llamaSession) Generate(ctx context.Context, prompt string, onToken func(string) error) (FinalResult, error) {
	if err := ctx.Err(); err != nil {
		return FinalResult{}, err
	}
	return FinalResult{}, ErrDependencyUnavailable(llamaMissing)
}

func (s *llamaSession) Close() error { return nil }
