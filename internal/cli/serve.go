package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"promptctl/internal/config"
	"promptctl/internal/httpapi"
	"promptctl/internal/inference"
	"promptctl/internal/registry"
	"promptctl/pkg/types"
)

const shutdownTimeout = 5 * time.Second

// service adapts a Dispatcher to httpapi.Service, filling request defaults
// from the resolved configuration.
type service struct {
	d   *inference.Dispatcher
	cfg config.Config
}

func (s *service) Generate(ctx context.Context, req types.GenerateRequest) (json.RawMessage, error) {
	r := inference.Request{Model: req.Model, Prompt: req.Prompt, MaxTokens: req.MaxTokens}
	if r.Model == "" {
		r.Model = s.cfg.Model
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = s.cfg.MaxTokens
	}
	return s.d.Generate(ctx, r.WithDefaults())
}

// ListModels returns the GGUF files in the models directory; a missing
// directory is an empty list.
func (s *service) ListModels() ([]types.Model, error) {
	models, err := registry.LoadDir(s.cfg.ModelsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Model{}, nil
	}
	return models, err
}

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Expose single-call generation over HTTP",
		Example: "  promptctl serve --addr :8080\n  curl -s localhost:8080/generate -H 'Content-Type: application/json' -d '{\"prompt\":\"Hi\"}'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, o)
		},
	}
	cmd.Flags().StringVar(&o.addr, "addr", config.Defaults().Addr, "HTTP listen address, e.g. :8080")
	return cmd
}

func runServe(cmd *cobra.Command, o *options) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	d, err := selectBackend(cfg, os.Getenv(apiKeyEnv), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	httpapi.SetLogger(log)
	httpapi.SetShutdownContext(ctx)
	httpapi.SetCORSOrigins(cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(&service{d: d, cfg: cfg}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", string(d.Mode())).Msg("promptctl listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("promptctl stopped")
	return nil
}
