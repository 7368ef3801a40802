// Command personas fills in name and persona for every character of a
// character file by asking the configured provider, then writes the file back.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/charlietlamb/openai-hack/internal/adapter/llm"
	"github.com/charlietlamb/openai-hack/internal/adapter/registry"
	"github.com/charlietlamb/openai-hack/internal/service/persona"
	"github.com/charlietlamb/openai-hack/internal/wire"
)

type options struct {
	configFile  string
	in          string
	out         string
	count       int
	attempts    int
	concurrency int
	temperature float64
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "Generate character names and personas",
		Long: `Reads the character file, asks the inference provider for a name and a short
persona for characters 1..count, and writes the file back. Characters whose every
attempt fails get the "Unknown" fallback profile.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", os.Getenv("CONFIG_FILE"), "config file (default $CONFIG_FILE)")
	f.StringVar(&opts.in, "in", "", "character file to read (default REGISTRY_PATH)")
	f.StringVar(&opts.out, "out", "", "file to write (default: overwrite --in)")
	f.IntVar(&opts.count, "count", 0, "characters to generate, ids 1..count (default REGISTRY_SIZE)")
	f.IntVar(&opts.attempts, "attempts", persona.DefaultAttempts, "attempts per character before the fallback profile is used")
	f.IntVar(&opts.concurrency, "concurrency", persona.DefaultConcurrency, "characters generated in parallel")
	f.Float64Var(&opts.temperature, "temperature", 0, "sampling temperature (0 = provider default)")
	return cmd
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("persona generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := wire.LoadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if opts.in == "" {
		opts.in = cfg.RegistryPath
	}
	if opts.out == "" {
		opts.out = opts.in
	}
	if opts.count <= 0 {
		opts.count = cfg.RegistrySize
	}

	provider, err := llm.New(llm.Config{
		Provider: cfg.InferenceProvider,
		Model:    cfg.InferenceModel,
		APIKey:   cfg.APIKey(),
		BaseURL:  cfg.InferenceBaseURL,
		RPS:      cfg.InferenceRPS,
	})
	if err != nil {
		return err
	}
	svc, err := persona.NewService(provider, persona.Config{
		Attempts:    opts.attempts,
		Concurrency: opts.concurrency,
		Temperature: opts.temperature,
	})
	if err != nil {
		return err
	}

	f, err := registry.ReadFile(opts.in)
	if err != nil {
		return err
	}
	fallbacks, err := svc.GenerateAll(ctx, f, opts.count)
	if err != nil {
		return err
	}
	if err := registry.WriteFile(opts.out, f); err != nil {
		return err
	}

	slog.Info("personas written", "path", opts.out, "count", opts.count, "fallbacks", fallbacks)
	return nil
}
