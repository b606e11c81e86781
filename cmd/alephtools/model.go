package main

import (
	"os"

	"github.com/d7mtg/AlephTools/internal/model"
	"github.com/spf13/cobra"
)

const defaultModelRepo = "elazarg/nakdimon"

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the niqqud model artifact",
	}

	cmd.AddCommand(newModelDownloadCmd())
	cmd.AddCommand(newModelVerifyCmd())

	return cmd
}

func newModelDownloadCmd() *cobra.Command {
	var repo string
	var outDir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download and checksum-verify the model",
		RunE: func(_ *cobra.Command, _ []string) error {
			return model.Download(model.DownloadOptions{
				Repo:   repo,
				OutDir: outDir,
				Stdout: os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&repo, "repo", defaultModelRepo, "Model repository")
	cmd.Flags().StringVar(&outDir, "out-dir", "models", "Destination directory")

	return cmd
}

func newModelVerifyCmd() *cobra.Command {
	var repo string
	var dir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify downloaded model files against recorded checksums",
		RunE: func(_ *cobra.Command, _ []string) error {
			return model.Verify(model.VerifyOptions{
				Repo:   repo,
				Dir:    dir,
				Stdout: os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&repo, "repo", defaultModelRepo, "Model repository")
	cmd.Flags().StringVar(&dir, "dir", "models", "Directory holding downloaded files")

	return cmd
}
