package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultRemoteBaseURL is prefixed to the model id to build the endpoint URL.
	DefaultRemoteBaseURL = "https://api-inference.huggingface.co/models"
	// DefaultRemoteTimeout bounds the whole remote call.
	DefaultRemoteTimeout = 60 * time.Second
)

// remoteBackend calls the hosted inference endpoint.
type remoteBackend struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRemote constructs the hosted-endpoint backend. Empty baseURL and a
// non-positive timeout select the defaults.
func NewRemote(baseURL, apiKey string, timeout time.Duration) Backend {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultRemoteBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &remoteBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (b *remoteBackend) Name() string { return "remote" }

type remoteRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters remoteParameters `json:"parameters"`
}

type remoteParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

// Endpoint returns the URL for model. Path separators inside the id are kept.
func (b *remoteBackend) Endpoint(model string) string {
	segs := strings.Split(strings.Trim(model, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return b.baseURL + "/" + strings.Join(segs, "/")
}

func (b *remoteBackend) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	if b.apiKey == "" {
		return nil, ErrCredentialMissing
	}
	body, err := json.Marshal(remoteRequest{
		Inputs:     req.Prompt,
		Parameters: remoteParameters{MaxNewTokens: req.MaxTokens},
	})
	if err != nil {
		return nil, err
	}
	endpoint := b.Endpoint(req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint, Body: string(excerpt)}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("decode response: invalid JSON from %s", endpoint)
	}
	return json.RawMessage(raw), nil
}
