package inference

import (
	"context"
	"testing"
	"time"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// fakeAdapter records what Start received and replays fixed tokens.
type fakeAdapter struct {
	startErr  error
	genErr    error
	tokens    []string
	gotModel  string
	gotParams Params
	closed    bool
}

func (a *fakeAdapter) Start(model string, params Params) (Session, error) {
	a.gotModel = model
	a.gotParams = params
	if a.startErr != nil {
		return nil, a.startErr
	}
	return &fakeSession{a: a}, nil
}

type fakeSession struct{ a *fakeAdapter }

func (s *fakeSession) Generate(ctx context.Context, prompt string, onToken func(string) error) (FinalResult, error) {
	if s.a.genErr != nil {
		return FinalResult{}, s.a.genErr
	}
	for _, tok := range s.a.tokens {
		if err := onToken(tok); err != nil {
			return FinalResult{}, err
		}
	}
	return FinalResult{FinishReason: "length"}, nil
}

func (s *fakeSession) Close() error {
	s.a.closed = true
	return nil
}
