package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/d7mtg/AlephTools/internal/nikud"
	"github.com/d7mtg/AlephTools/internal/onnx"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var file string
	var out string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a text file and keep a vocalized copy up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			loader := onnx.NewLoader(predictorConfig(cfg))
			defer loader.Close()

			// The model loads on the first generation; a broken model path
			// shows up as a failed snapshot, not a startup crash.
			gateway := &lazyGateway{loader: loader, seqLen: cfg.Engine.SequenceLength}

			controller := nikud.NewController(
				nikud.NewService(gateway),
				nikud.ControllerConfig{Debounce: cfg.Engine.Debounce},
			)
			defer controller.Cancel()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: editors replace files on save, which
			// drops a watch registered on the file itself.
			if err := watcher.Add(filepath.Dir(file)); err != nil {
				return fmt.Errorf("watch %s: %w", file, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			feed := func() {
				b, err := os.ReadFile(file)
				if err != nil {
					slog.Warn("read watched file", "path", file, "error", err)
					return
				}
				controller.Generate(string(b))
			}
			feed()

			slog.Info("watching", "file", file)
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(ev.Name) != filepath.Clean(file) {
						continue
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					feed()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn("watcher error", "error", err)
				case snap := <-controller.Updates():
					if snap.Err != nil {
						slog.Error("vocalization failed", "request", snap.RequestID, "error", snap.Err)
						continue
					}
					if err := deliverWatchOutput(out, snap.Text); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Text file to watch")
	cmd.Flags().StringVar(&out, "out", "-", "Where to write vocalized text ('-' for stdout)")

	return cmd
}

// lazyGateway defers model acquisition to the first prediction.
type lazyGateway struct {
	loader *onnx.Loader
	seqLen int
}

func (g *lazyGateway) SequenceLength() int { return g.seqLen }

func (g *lazyGateway) Predict(ctx context.Context, indices []int64) ([][]float32, [][]float32, [][]float32, error) {
	predictor, err := g.loader.Get()
	if err != nil {
		return nil, nil, nil, err
	}
	return predictor.Predict(ctx, indices)
}

func deliverWatchOutput(outPath, text string) error {
	if outPath == "-" {
		_, err := fmt.Println(text)
		return err
	}
	return os.WriteFile(outPath, []byte(text+"\n"), 0o644)
}
