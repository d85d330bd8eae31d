package main

import (
	"fmt"

	"github.com/germanamz/tasksolver/pkg/config"
	"github.com/germanamz/tasksolver/pkg/credential"
	"github.com/germanamz/tasksolver/pkg/providers/openrouter"
	"github.com/germanamz/tasksolver/pkg/relay"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay between clients and OpenRouter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a.cfg)
		},
	}

	f := cmd.Flags()
	f.String(config.KeyListen, config.DefaultListen, "address to listen on")
	f.String(config.KeyBasePath, "", "route prefix, e.g. /make-server")
	f.String(config.KeyStore, credential.BackendMemory, "credential store: memory, bolt or sqlite")
	f.String(config.KeyStorePath, "", "credential store file (default: user config dir)")
	f.String(config.KeyUpstreamURL, openrouter.DefaultBaseURL, "OpenRouter API base URL")
	f.String(config.KeyModel, openrouter.DefaultModel, "model id")
	f.String(config.KeyTimeout, config.DefaultTimeout, "upstream request timeout")
	f.Int(config.KeyRatePerMinute, 0, "solve requests per user per minute (0 = unlimited)")
	f.Int(config.KeyRateBurst, 0, "rate limit burst (default: rate-per-minute)")
	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	storePath := ""
	if cfg.Store.Backend != credential.BackendMemory {
		p, err := cfg.StorePath()
		if err != nil {
			return err
		}
		storePath = p
	}

	store, err := credential.OpenBackend(cfg.Store.Backend, storePath)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close credential store")
		}
	}()

	logger := log.Logger.With().Str("component", "relay").Logger()

	creds := credential.New(store,
		credential.WithEnvKey(cfg.Upstream.APIKey),
		credential.WithLogger(logger),
	)

	timeout, err := cfg.UpstreamTimeout()
	if err != nil {
		return err
	}
	upstream := openrouter.New(openrouter.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Model:   cfg.Upstream.Model,
		Referer: cfg.Upstream.Referer,
		Title:   cfg.Upstream.Title,
		Timeout: timeout,
	})

	gin.SetMode(gin.ReleaseMode)
	srv := relay.New(upstream, creds, relay.Config{
		BasePath:      cfg.BasePath,
		RatePerMinute: cfg.RateLimit.PerMinute,
		RateBurst:     cfg.RateLimit.Burst,
		Logger:        &logger,
	})

	log.Info().
		Str("store", cfg.Store.Backend).
		Str("store_path", storePath).
		Str("model", upstream.Model()).
		Bool("env_key", cfg.Upstream.APIKey != "").
		Msg("starting relay")

	return srv.ListenAndServe(cmd.Context(), cfg.Listen)
}
