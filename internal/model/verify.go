package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type VerifyOptions struct {
	Repo   string
	Dir    string
	Stdout io.Writer
}

// Verify checks the downloaded model files against the pinned manifest
// and the local lock manifest. A file passes when it exists and its
// sha256 matches the recorded checksum.
func Verify(opts VerifyOptions) error {
	if opts.Repo == "" {
		return errors.New("repo is required")
	}
	if opts.Dir == "" {
		return errors.New("dir is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	manifest, err := PinnedManifest(opts.Repo)
	if err != nil {
		return err
	}

	lock := readLockManifest(filepath.Join(opts.Dir, lockFilename))

	var failures []string
	for _, f := range manifest.Files {
		expected := strings.ToLower(f.SHA256)
		if expected == "" {
			if lr, ok := lock.Files[f.Filename]; ok && isSHA256Hex(lr.SHA256) {
				expected = strings.ToLower(lr.SHA256)
			}
		}
		if expected == "" {
			fmt.Fprintf(opts.Stdout, "SKIP %s (no recorded checksum; run model download first)\n", f.Filename)
			failures = append(failures, f.Filename)
			continue
		}

		localPath := filepath.Join(opts.Dir, filepath.FromSlash(f.Filename))
		if _, err := os.Stat(localPath); err != nil {
			fmt.Fprintf(opts.Stdout, "FAIL %s: %v\n", f.Filename, err)
			failures = append(failures, f.Filename)
			continue
		}

		actual, err := fileSHA256(localPath)
		if err != nil {
			return err
		}
		if actual != expected {
			fmt.Fprintf(opts.Stdout, "FAIL %s: checksum mismatch\n", f.Filename)
			failures = append(failures, f.Filename)
			continue
		}
		fmt.Fprintf(opts.Stdout, "PASS %s\n", f.Filename)
	}

	if len(failures) > 0 {
		return fmt.Errorf("verify failed for %d file(s): %s", len(failures), strings.Join(failures, ", "))
	}
	return nil
}
