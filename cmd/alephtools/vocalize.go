package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/d7mtg/AlephTools/internal/config"
	"github.com/d7mtg/AlephTools/internal/nikud"
	"github.com/d7mtg/AlephTools/internal/onnx"
	"github.com/spf13/cobra"
)

func newVocalizeCmd() *cobra.Command {
	var text string
	var out string

	cmd := &cobra.Command{
		Use:   "vocalize",
		Short: "Restore niqqud to Hebrew text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readInputText(text, os.Stdin)
			if err != nil {
				return err
			}

			loader := onnx.NewLoader(predictorConfig(cfg))
			defer loader.Close()

			predictor, err := loader.Get()
			if err != nil {
				return err
			}

			svc := nikud.NewService(predictor)
			result, err := svc.Vocalize(cmd.Context(), input)
			if err != nil {
				return err
			}

			return writeOutputText(out, result, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to vocalize (if empty, read from stdin)")
	cmd.Flags().StringVar(&out, "out", "-", "Output path ('-' for stdout)")

	return cmd
}

func predictorConfig(cfg config.Config) onnx.PredictorConfig {
	return onnx.PredictorConfig{
		ModelPath:      cfg.Paths.ModelPath,
		LibraryPath:    cfg.Runtime.ORTLibraryPath,
		APIVersion:     cfg.Runtime.ORTAPIVersion,
		SequenceLength: cfg.Engine.SequenceLength,
	}
}

func readInputText(text string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}

func writeOutputText(outPath, result string, stdout io.Writer) error {
	if outPath == "-" {
		_, err := fmt.Fprintln(stdout, result)
		return err
	}
	return os.WriteFile(outPath, []byte(result+"\n"), 0o644)
}
