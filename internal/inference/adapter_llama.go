//go:build llama

package inference

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// llamaAdapter loads GGUF files in-process. It never offloads layers to a GPU.
type llamaAdapter struct {
	ctxSize int
	threads int
}

// NewLlamaAdapter returns the in-process adapter.
func NewLlamaAdapter(ctxSize, threads int) Adapter {
	return &llamaAdapter{ctxSize: ctxSize, threads: threads}
}

type llamaSession struct {
	model  *llama.LLama
	params Params
}

func (a *llamaAdapter) Start(modelPath string, params Params) (Session, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	// CPU only: no layers are offloaded.
	mo := []llama.ModelOption{
		llama.SetContext(zn(a.ctxSize, 2048)),
		llama.SetGPULayers(0),
	}
	m, err := llama.New(modelPath, mo...)
	if err != nil {
		return nil, err
	}
	// Threads: per-call value, then adapter default, then all cores.
	if params.Threads <= 0 {
		params.Threads = zn(a.threads, runtime.NumCPU())
	}
	return &llamaSession{model: m, params: params}, nil
}

func (s *llamaSession) Generate(ctx context.Context, prompt string, onToken func(string) error) (FinalResult, error) {
	if s.model == nil {
		return FinalResult{}, errors.New("llama model not initialized")
	}
	if s.params.MaxTokens < 1 {
		return FinalResult{}, fmt.Errorf("max new tokens must be positive, got %d", s.params.MaxTokens)
	}
	// Bridge token streaming to onToken; returning false stops Predict early
	// on cancellation or a sink error.
	var cbErr error
	s.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if err := onToken(tok); err != nil {
			cbErr = err
			return false
		}
		return true
	})
	text, err := s.model.Predict(prompt, predictOptions(s.params)...)
	// Cancellation wins over whatever Predict returned after the callback stopped.
	if ctx.Err() != nil {
		return FinalResult{}, ctx.Err()
	}
	if err != nil {
		return FinalResult{}, err
	}
	if cbErr != nil {
		return FinalResult{}, cbErr
	}
	return FinalResult{Content: text, FinishReason: "stop"}, nil
}

func (s *llamaSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// predictOptions maps Params to go-llama.cpp options. Zero temperature and
// top-k 1 are passed through as-is: that is greedy decoding.
func predictOptions(p Params) []llama.PredictOption {
	return []llama.PredictOption{
		llama.SetTokens(p.MaxTokens),
		llama.SetThreads(max(1, p.Threads)),
		llama.SetTemperature(p.Temperature),
		llama.SetTopK(max(1, p.TopK)),
	}
}
