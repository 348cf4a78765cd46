package config

import (
	"os"
	"strings"
)

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Model:          "gpt2",
		MaxTokens:      128,
		Backend:        "auto",
		APIBaseURL:     "https://api-inference.huggingface.co/models",
		TimeoutSeconds: 60,
		ModelsDir:      "~/models/llm",
		CtxSize:        2048,
		ServerURL:      "http://127.0.0.1:11434",
		LogLevel:       "info",
		Addr:           ":8080",
	}
}

// Merge overlays every non-zero field of over onto base.
func Merge(base, over Config) Config {
	if over.Model != "" {
		base.Model = over.Model
	}
	if over.MaxTokens != 0 {
		base.MaxTokens = over.MaxTokens
	}
	if over.Backend != "" {
		base.Backend = over.Backend
	}
	if over.APIBaseURL != "" {
		base.APIBaseURL = over.APIBaseURL
	}
	if over.TimeoutSeconds != 0 {
		base.TimeoutSeconds = over.TimeoutSeconds
	}
	if over.ModelsDir != "" {
		base.ModelsDir = over.ModelsDir
	}
	if over.Threads != 0 {
		base.Threads = over.Threads
	}
	if over.CtxSize != 0 {
		base.CtxSize = over.CtxSize
	}
	if over.ServerURL != "" {
		base.ServerURL = over.ServerURL
	}
	if over.LogLevel != "" {
		base.LogLevel = over.LogLevel
	}
	if over.MetricsFile != "" {
		base.MetricsFile = over.MetricsFile
	}
	if over.Addr != "" {
		base.Addr = over.Addr
	}
	if len(over.CORSOrigins) > 0 {
		base.CORSOrigins = append([]string(nil), over.CORSOrigins...)
	}
	return base
}

// FromEnv reads the environment overrides. The credential (HF_API_KEY) is not
// part of Config and is never written to a file.
func FromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }
	return Config{
		Model:     get("HF_MODEL"),
		LogLevel:  get("PROMPTCTL_LOG_LEVEL"),
		ModelsDir: get("PROMPTCTL_MODELS_DIR"),
		ServerURL: get("PROMPTCTL_SERVER_URL"),
	}
}
