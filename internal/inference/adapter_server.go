package inference

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultServerURL is Ollama's default listen address; llama-server users pass --server-url.
const DefaultServerURL = "http://127.0.0.1:11434"

// serverAdapter implements Adapter by talking to a running OpenAI-compatible
// completion server (llama-server, Ollama) over HTTP.
type serverAdapter struct {
	baseURL    string
	apiKey     string
	reqTimeout time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

// NewServerAdapter constructs a server-backed adapter. reqTimeout bounds each
// generation through its context; zero disables it.
func NewServerAdapter(baseURL, apiKey string, reqTimeout, connectTimeout time.Duration, log zerolog.Logger) Adapter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultServerURL
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0: deadlines come from the request context.
	return &serverAdapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		reqTimeout: reqTimeout,
		httpClient: &http.Client{Transport: tr},
		log:        log,
	}
}

type serverSession struct {
	adapter *serverAdapter
	modelID string
	params  Params
}

// Start binds a model name; the server owns the weights so nothing is loaded here.
func (a *serverAdapter) Start(model string, params Params) (Session, error) {
	return &serverSession{adapter: a, modelID: strings.TrimSpace(model), params: params}, nil
}

// completionRequest is the payload for /v1/completions.
type completionRequest struct {
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	TopK        int     `json:"top_k,omitempty"`
	Stream      bool    `json:"stream"`
}

// completionChunk covers both the completions (text) and chat (delta.content)
// streaming shapes.
type completionChunk struct {
	Choices []struct {
		Text  string `json:"text"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (s *serverSession) Generate(ctx context.Context, prompt string, onToken func(string) error) (FinalResult, error) {
	if s.adapter == nil || s.adapter.httpClient == nil {
		return FinalResult{}, errors.New("server adapter not initialized")
	}
	if s.adapter.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.adapter.reqTimeout)
		defer cancel()
	}
	payload := completionRequest{
		Model:       s.modelID,
		Prompt:      prompt,
		MaxTokens:   s.params.MaxTokens,
		Temperature: s.params.Temperature,
		TopK:        s.params.TopK,
		Stream:      true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return FinalResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.adapter.baseURL+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return FinalResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if s.adapter.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.adapter.apiKey)
	}
	resp, err := s.adapter.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, ErrDependencyUnavailable("completion server unreachable at " + s.adapter.baseURL + ": " + err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return FinalResult{}, errors.New("completion server http error: " + resp.Status + ": " + strings.TrimSpace(string(b)))
	}

	// Servers emit SSE lines prefixed with "data: "; some emit bare JSON lines.
	var (
		final FinalResult
		sb    strings.Builder
	)
	r := bufio.NewReader(resp.Body)
	for {
		line, err := r.ReadString('\n')
		if data, ok := streamPayload(line); ok {
			if data == "[DONE]" {
				break
			}
			var chunk completionChunk
			if jerr := json.Unmarshal([]byte(data), &chunk); jerr != nil || len(chunk.Choices) == 0 {
				s.adapter.log.Debug().Str("adapter", "server").Str("line", data).Msg("unknown stream line")
			} else {
				c := chunk.Choices[0]
				frag := c.Text
				if frag == "" {
					frag = c.Delta.Content
				}
				if frag != "" {
					sb.WriteString(frag)
					if cbErr := onToken(frag); cbErr != nil {
						final.Content = sb.String()
						return final, cbErr
					}
				}
				if c.FinishReason != "" {
					final.FinishReason = c.FinishReason
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				return final, ctx.Err()
			}
			return final, err
		}
	}
	final.Content = sb.String()
	return final, nil
}

func (s *serverSession) Close() error { return nil }

// streamPayload strips the SSE framing from one line. Blank lines, comments and
// non-data fields report false.
func streamPayload(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(line), "data:") {
		return strings.TrimSpace(line[len("data:"):]), true
	}
	if strings.HasPrefix(line, "{") {
		return line, true
	}
	return "", false
}
