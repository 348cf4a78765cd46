package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"promptctl/pkg/types"
)

// ModelResolver maps a model identifier to whatever the adapter's Start expects
// (a GGUF path for the in-process adapter, a model name for a server).
type ModelResolver func(id string) (string, error)

// PassThrough is a ModelResolver that returns the id unchanged.
func PassThrough(id string) (string, error) { return id, nil }

// localBackend runs one greedy generation through an Adapter.
type localBackend struct {
	name    string
	adapter Adapter
	resolve ModelResolver
	threads int
}

// NewLocal builds a local-family backend. name labels logs and metrics.
func NewLocal(name string, adapter Adapter, resolve ModelResolver, threads int) Backend {
	if resolve == nil {
		resolve = PassThrough
	}
	return &localBackend{name: name, adapter: adapter, resolve: resolve, threads: threads}
}

func (b *localBackend) Name() string { return b.name }

// Generate returns a pipeline-shaped result: [{"generated_text": prompt+continuation}].
func (b *localBackend) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	target, err := b.resolve(req.Model)
	if err != nil {
		return nil, fmt.Errorf("local pipeline unavailable: %w", err)
	}
	sess, err := b.adapter.Start(target, GreedyParams(req.MaxTokens, b.threads))
	if err != nil {
		return nil, fmt.Errorf("local pipeline unavailable: %w", err)
	}
	defer func() { _ = sess.Close() }()

	var sb strings.Builder
	res, err := sess.Generate(ctx, req.Prompt, func(tok string) error {
		sb.WriteString(tok)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local generation failed: %w", err)
	}
	text := res.Content
	if text == "" {
		text = sb.String()
	}
	return json.Marshal([]types.GeneratedText{{GeneratedText: req.Prompt + text}})
}
