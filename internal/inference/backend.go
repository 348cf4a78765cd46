package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"promptctl/internal/metrics"
)

// Backend performs one generation and returns the response as raw JSON.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
}

// Dispatcher runs requests against the single backend chosen for its mode.
type Dispatcher struct {
	mode    Mode
	backend Backend
	log     zerolog.Logger
}

// NewDispatcher binds a resolved mode to its backend.
func NewDispatcher(mode Mode, backend Backend, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{mode: mode, backend: backend, log: log}
}

// Mode returns the resolved mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// Generate validates req, calls the backend once and classifies any failure as
// an *Error of the mode's kind. There is no retry.
func (d *Dispatcher) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	kind := d.mode.Kind()
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: kind, Err: err}
	}
	if d.backend == nil {
		return nil, &Error{Kind: kind, Err: errors.New("no backend configured")}
	}
	start := time.Now()
	d.log.Debug().Str("backend", d.backend.Name()).Str("model", req.Model).Int("max_tokens", req.MaxTokens).Msg("generate start")
	out, err := d.backend.Generate(ctx, req)
	dur := time.Since(start)
	if err != nil {
		metrics.ObserveGeneration(d.backend.Name(), "error", dur)
		d.log.Debug().Str("backend", d.backend.Name()).Dur("dur", dur).Err(err).Msg("generate end")
		return nil, &Error{Kind: kind, Err: err}
	}
	if !json.Valid(out) {
		metrics.ObserveGeneration(d.backend.Name(), "error", dur)
		return nil, &Error{Kind: kind, Err: fmt.Errorf("%s backend returned invalid JSON", d.backend.Name())}
	}
	metrics.ObserveGeneration(d.backend.Name(), "ok", dur)
	d.log.Debug().Str("backend", d.backend.Name()).Dur("dur", dur).Int("bytes", len(out)).Msg("generate end")
	return out, nil
}
