package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetShutdownContext_NilRestoresDefault(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetShutdownContext(ctx)
	cancel()
	// nolint:staticcheck // SA1012: nil is the documented reset
	SetShutdownContext(nil)
	if shutdownCtx.Err() != nil {
		t.Fatalf("shutdown context should be Background after reset")
	}
}

func TestGenerationContext_EndsOnShutdown(t *testing.T) {
	down, shutdown := context.WithCancel(context.Background())
	SetShutdownContext(down)
	t.Cleanup(func() { SetShutdownContext(nil) })

	ctx, done := generationContext(httptest.NewRequest("POST", "/generate", nil))
	defer done()
	shutdown()
	select {
	case <-ctx.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("generation context survived shutdown")
	}
}

func TestGenerationContext_EndsWithClient(t *testing.T) {
	reqCtx, hangUp := context.WithCancel(context.Background())
	r := httptest.NewRequest("POST", "/generate", nil).WithContext(reqCtx)
	ctx, done := generationContext(r)
	defer done()
	hangUp()
	if ctx.Err() == nil {
		t.Fatal("generation context should end with the request")
	}
}

func TestSetMaxBodyBytes(t *testing.T) {
	t.Cleanup(func() { SetMaxBodyBytes(0) })
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}
