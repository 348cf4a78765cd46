package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"promptctl/internal/config"
	"promptctl/internal/inference"
	"promptctl/internal/metrics"
)

// Exit codes.
const (
	exitOK     = 0
	exitUsage  = 1
	exitRemote = 2
	exitLocal  = 3
)

// exitError carries a process exit code whose message has already been printed.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// options holds raw flag values; resolveConfig layers them over file and env.
type options struct {
	configPath  string
	model       string
	prompt      string
	maxTokens   int
	backend     string
	text        bool
	modelsDir   string
	serverURL   string
	threads     int
	logLevel    string
	metricsFile string
	addr        string
}

// Main runs promptctl with os.Args and returns the process exit code.
func Main() int { return MainWithArgs(os.Args[1:]) }

// MainWithArgs runs promptctl with the given arguments and returns the exit code.
func MainWithArgs(args []string) int { return run(args, os.Stdout, os.Stderr) }

func run(args []string, stdout, stderr io.Writer) int {
	root := buildRootCmd(&options{})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitUsage
}

func buildRootCmd(o *options) *cobra.Command {
	def := config.Defaults()
	root := &cobra.Command{
		Use:   "promptctl --prompt TEXT [--model ID] [--max-tokens N]",
		Short: "Send one prompt to the Hugging Face Inference API or a local model",
		Long: "promptctl sends a prompt to the Hugging Face Inference API when HF_API_KEY is set,\n" +
			"and otherwise runs one greedy CPU-only generation with a local GGUF model.\n" +
			"Exit codes: 0 ok, 1 usage, 2 remote failure, 3 local failure.",
		Example:       "  promptctl --prompt 'Once upon a time'\n  HF_API_KEY=hf_xxx promptctl --model gpt2 --prompt 'Hello' --max-tokens 32",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Config file (.yaml/.yml/.json/.toml); defaults to PROMPTCTL_CONFIG")
	pf.StringVar(&o.model, "model", def.Model, "Model id (remote) or GGUF name/path (local); defaults to HF_MODEL or gpt2")
	pf.IntVar(&o.maxTokens, "max-tokens", def.MaxTokens, "Maximum number of new tokens to generate")
	pf.StringVar(&o.backend, "backend", def.Backend, "Backend: auto|remote|local|server")
	pf.StringVar(&o.modelsDir, "models-dir", def.ModelsDir, "Directory scanned for *.gguf model files")
	pf.StringVar(&o.serverURL, "server-url", def.ServerURL, "Base URL of a local OpenAI-compatible completion server")
	pf.IntVar(&o.threads, "threads", 0, "CPU threads for local inference (0 = library default)")
	pf.StringVar(&o.logLevel, "log-level", def.LogLevel, "Log level: debug|info|warn|error")
	pf.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	root.Flags().StringVar(&o.prompt, "prompt", "", "Prompt text (required)")
	root.Flags().BoolVar(&o.text, "text", false, "Print only the generated text when the result carries one")
	_ = root.MarkFlagRequired("prompt")

	root.AddCommand(newServeCmd(o), newModelsCmd(o))
	return root
}

// resolveConfig layers defaults < config file < environment < changed flags.
// Changed flags are assigned directly, so an explicit zero survives.
func resolveConfig(cmd *cobra.Command, o *options) (config.Config, error) {
	cfg := config.Defaults()
	path := o.configPath
	if path == "" {
		path = os.Getenv("PROMPTCTL_CONFIG")
	}
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	cfg = config.Merge(cfg, config.FromEnv(os.Getenv))

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = o.model
	}
	if flags.Changed("max-tokens") {
		cfg.MaxTokens = o.maxTokens
	}
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("models-dir") {
		cfg.ModelsDir = o.modelsDir
	}
	if flags.Changed("server-url") {
		cfg.ServerURL = o.serverURL
	}
	if flags.Changed("threads") {
		cfg.Threads = o.threads
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = o.addr
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, o *options) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	req := inference.Request{Model: cfg.Model, Prompt: o.prompt, MaxTokens: cfg.MaxTokens}
	if err := req.Validate(); err != nil {
		return err
	}
	apiKey := os.Getenv(apiKeyEnv)
	d, err := selectBackend(cfg, apiKey, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	out, genErr := d.Generate(ctx, req)
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("write metrics file")
		}
	}
	if genErr != nil {
		return reportFailure(cmd.OutOrStdout(), genErr)
	}

	stdout := cmd.OutOrStdout()
	if o.text {
		if s, ok := inference.ExtractText(out); ok {
			_, err := fmt.Fprintln(stdout, s)
			return err
		}
	}
	return inference.WritePretty(stdout, out)
}

// reportFailure prints the one-line failure message for the error's path and
// returns the matching exit code.
func reportFailure(w io.Writer, err error) error {
	if inference.KindOf(err) == inference.KindRemote {
		fmt.Fprintln(w, "HF API call failed:", err)
		return &exitError{code: exitRemote}
	}
	fmt.Fprintln(w, "Local inference failed:", err)
	return &exitError{code: exitLocal}
}
