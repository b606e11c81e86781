package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/d7mtg/AlephTools/internal/nikud"
	"github.com/d7mtg/AlephTools/internal/onnx"
	"github.com/d7mtg/AlephTools/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve vocalization over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			loader := onnx.NewLoader(predictorConfig(cfg))
			defer loader.Close()

			// The model loads lazily on the first request; a broken model
			// path surfaces as a prediction failure, not a startup crash.
			svc := &lazyVocalizer{loader: loader}

			h := server.NewHandler(svc,
				server.WithWorkers(workers),
				server.WithMaxTextBytes(cfg.Server.MaxTextBytes),
				server.WithRequestTimeout(cfg.Server.RequestTimeout),
				server.WithRateLimit(cfg.Server.RatePerSecond, cfg.Server.RateBurst),
				server.WithLogger(slog.Default()),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("listening", "addr", cfg.Server.ListenAddr)
			return server.New(cfg.Server.ListenAddr, h).Start(ctx)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 2, "Max concurrent vocalization requests")

	return cmd
}

// lazyVocalizer defers model acquisition to the first request.
type lazyVocalizer struct {
	loader *onnx.Loader
}

func (l *lazyVocalizer) Vocalize(ctx context.Context, text string) (string, error) {
	predictor, err := l.loader.Get()
	if err != nil {
		return "", err
	}
	return nikud.NewService(predictor).Vocalize(ctx, text)
}
