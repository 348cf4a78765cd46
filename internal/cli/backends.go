package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"promptctl/internal/config"
	"promptctl/internal/inference"
	"promptctl/internal/registry"
)

const (
	apiKeyEnv       = "HF_API_KEY"
	serverAPIKeyEnv = "PROMPTCTL_SERVER_API_KEY"
	connectTimeout  = 5 * time.Second
)

// Backend constructors; tests replace them to observe which path was taken.
var (
	newRemoteBackend = func(cfg config.Config, apiKey string) inference.Backend {
		return inference.NewRemote(cfg.APIBaseURL, apiKey, requestTimeout(cfg))
	}
	newLocalBackend = func(cfg config.Config) inference.Backend {
		return inference.NewLocal("local", inference.NewLlamaAdapter(cfg.CtxSize, cfg.Threads), registry.Resolver(cfg.ModelsDir), cfg.Threads)
	}
	newServerBackend = func(cfg config.Config, log zerolog.Logger) inference.Backend {
		adapter := inference.NewServerAdapter(cfg.ServerURL, os.Getenv(serverAPIKeyEnv), requestTimeout(cfg), connectTimeout, log)
		return inference.NewLocal("server", adapter, inference.PassThrough, cfg.Threads)
	}
)

func requestTimeout(cfg config.Config) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return inference.DefaultRemoteTimeout
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// selectBackend resolves the mode against the credential and constructs only
// the backend for that mode.
func selectBackend(cfg config.Config, apiKey string, log zerolog.Logger) (*inference.Dispatcher, error) {
	mode, err := inference.ParseMode(cfg.Backend)
	if err != nil {
		return nil, err
	}
	mode = mode.Resolve(apiKey)
	var b inference.Backend
	switch mode {
	case inference.ModeRemote:
		log.Info().Str("model", cfg.Model).Msg("Using Hugging Face Inference API")
		b = newRemoteBackend(cfg, apiKey)
	case inference.ModeLocal:
		if apiKey == "" {
			log.Info().Msg("HF_API_KEY not set; attempting local inference")
		} else {
			log.Info().Msg("Using local inference")
		}
		if !inference.InProcessAvailable() {
			log.Debug().Msg("binary built without the llama tag")
		}
		b = newLocalBackend(cfg)
	case inference.ModeServer:
		log.Info().Str("url", cfg.ServerURL).Msg("Using local completion server")
		b = newServerBackend(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported backend %q", mode)
	}
	return inference.NewDispatcher(mode, b, log), nil
}
