package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/policedraft/internal/api"
	"github.com/MikeSquared-Agency/policedraft/internal/bus"
	"github.com/MikeSquared-Agency/policedraft/internal/completion"
	"github.com/MikeSquared-Agency/policedraft/internal/config"
	"github.com/MikeSquared-Agency/policedraft/internal/drafter"
	"github.com/MikeSquared-Agency/policedraft/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	policy, err := completion.ParsePolicy(cfg.CredentialPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params := completion.DefaultParams()
	if cfg.Model != "" {
		params.Model = cfg.Model
	}
	llm := completion.NewClient(completion.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Params:  params,
		Policy:  policy,
		Timeout: cfg.UpstreamTimeout,
	}, logger)

	mode := "upstream"
	if llm.Offline() {
		mode = "offline"
		if policy == completion.PolicyStrict {
			logger.Warn().Msg("LLM_API_KEY not set: drafts will fail under strict policy")
		} else {
			logger.Warn().Msg("LLM_API_KEY not set: serving locally normalized drafts")
		}
	} else {
		logger.Info().Str("model", llm.Model()).Msg("completion client ready")
	}

	// Events are optional; the service runs without NATS.
	var events drafter.Publisher
	if cfg.NatsURL != "" {
		// Drained by Close after the HTTP server stops, so in-flight drafts
		// still publish.
		client, err := bus.NewClient(cmd.Context(), cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer client.Close()
		events = client
		logger.Info().Str("url", cfg.NatsURL).Msg("NATS connected")
	}

	opts := drafter.DefaultOptions()
	opts.MinParagraphs = cfg.MinParagraphs
	d := drafter.New(llm, events, opts, logger)

	srv := api.NewServer(cfg.Port, d, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Status: api.Status{
			Mode:   mode,
			Policy: string(llm.Policy()),
			Model:  llm.Model(),
		},
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info().Int("port", cfg.Port).Str("mode", mode).Str("policy", string(policy)).Msg("policedraft ready")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("policedraft stopped")
	return nil
}
