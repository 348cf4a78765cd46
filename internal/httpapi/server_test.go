package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptctl/internal/inference"
	"promptctl/pkg/types"
)

type mockService struct {
	models   []types.Model
	modelErr error
	out      json.RawMessage
	genErr   error
	got      types.GenerateRequest
	calls    int
}

func (m *mockService) ListModels() ([]types.Model, error) { return m.models, m.modelErr }

func (m *mockService) Generate(ctx context.Context, req types.GenerateRequest) (json.RawMessage, error) {
	m.calls++
	m.got = req
	if m.genErr != nil {
		return nil, m.genErr
	}
	return m.out, nil
}

func postGenerate(t *testing.T, h http.Handler, body, ct string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(body))
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGenerate_OK(t *testing.T) {
	svc := &mockService{out: json.RawMessage(`[{"generated_text":"hi there"}]`)}
	w := postGenerate(t, NewMux(svc), `{"model":"gpt2","prompt":"hi","max_tokens":5}`, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `[{"generated_text":"hi there"}]` {
		t.Fatalf("body=%s", w.Body.String())
	}
	if svc.got.Model != "gpt2" || svc.got.Prompt != "hi" || svc.got.MaxTokens != 5 {
		t.Fatalf("request not forwarded: %+v", svc.got)
	}
}

func TestGenerate_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		ct   string
		want int
	}{
		{"media type", `{"prompt":"hi"}`, "text/plain", http.StatusUnsupportedMediaType},
		{"no content type", `{"prompt":"hi"}`, "", http.StatusUnsupportedMediaType},
		{"bad json", "not-json", "application/json", http.StatusBadRequest},
		{"blank prompt", `{"prompt":"   "}`, "application/json", http.StatusBadRequest},
		{"negative tokens", `{"prompt":"hi","max_tokens":-1}`, "application/json", http.StatusBadRequest},
	}
	for _, c := range cases {
		svc := &mockService{}
		w := postGenerate(t, NewMux(svc), c.body, c.ct)
		if w.Code != c.want {
			t.Fatalf("%s: status=%d want %d", c.name, w.Code, c.want)
		}
		if svc.calls != 0 {
			t.Fatalf("%s: service should not be called", c.name)
		}
	}
}

func TestGenerate_BodyTooLarge(t *testing.T) {
	big := `{"prompt":"` + strings.Repeat("a", (1<<20)+10) + `"}`
	w := postGenerate(t, NewMux(&mockService{}), big, "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
}

func TestGenerate_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&inference.Error{Kind: inference.KindRemote, Err: &inference.StatusError{Code: 503, URL: "u"}}, http.StatusBadGateway},
		{&inference.Error{Kind: inference.KindLocal, Err: inference.ErrModelNotFound("gpt2")}, http.StatusNotFound},
		{&inference.Error{Kind: inference.KindLocal, Err: inference.ErrDependencyUnavailable("no llama")}, http.StatusServiceUnavailable},
		{&inference.Error{Kind: inference.KindLocal, Err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := postGenerate(t, NewMux(&mockService{genErr: c.err}), `{"prompt":"hi"}`, "application/json")
		if w.Code != c.want {
			t.Fatalf("%v: status=%d want %d", c.err, w.Code, c.want)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Code != c.want || body.Error == "" {
			t.Fatalf("unexpected error body: %+v", body)
		}
	}
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "a.gguf"}, {ID: "b.gguf"}}}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models=%+v", body.Models)
	}
}

func TestModelsHandler_EmptyAndError(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"models":[]`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	NewMux(&mockService{modelErr: errors.New("read dir: denied")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	SetCORSOrigins([]string{"http://localhost:3000"})
	t.Cleanup(func() { SetCORSOrigins(nil) })
	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}
}
