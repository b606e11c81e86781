package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type DownloadOptions struct {
	Repo   string
	OutDir string
	Stdout io.Writer
}

// lockManifest records, per downloaded file, the revision and sha256 the
// artifact had when it was first fetched. Later downloads and verify runs
// enforce the locked checksum, so an upstream change to a floating
// revision is detected instead of silently accepted.
type lockManifest struct {
	Repo      string                `json:"repo"`
	Generated string                `json:"generated"`
	Files     map[string]lockRecord `json:"files"`
}

type lockRecord struct {
	Revision string `json:"revision"`
	SHA256   string `json:"sha256"`
}

const lockFilename = "download-manifest.lock.json"

// hubBaseURL is a variable so tests can point downloads at a local server.
var hubBaseURL = "https://huggingface.co"

var shaHexPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// Download fetches the pinned model files into OutDir. The expected
// sha256 comes from the manifest pin, from an earlier lock record, or
// from hub metadata on the first ever download; each fetched file is
// hashed while streaming and moved into place only when the hash
// matches. Files already present with a matching checksum are skipped.
func Download(opts DownloadOptions) error {
	if opts.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if opts.OutDir == "" {
		return fmt.Errorf("out dir is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	manifest, err := PinnedManifest(opts.Repo)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	lockPath := filepath.Join(opts.OutDir, lockFilename)
	lock := readLockManifest(lockPath)
	lock.Repo = opts.Repo
	lock.Generated = time.Now().UTC().Format(time.RFC3339)

	client := &http.Client{}

	for _, f := range manifest.Files {
		expected, err := expectedChecksum(client, opts.Repo, f, lock)
		if err != nil {
			return err
		}

		localPath := filepath.Join(opts.OutDir, filepath.FromSlash(f.Filename))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("create local subdir: %w", err)
		}

		ok, err := existingMatches(localPath, expected)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(opts.Stdout, "skip %s (checksum match)\n", f.Filename)
		} else {
			fmt.Fprintf(opts.Stdout, "download %s@%s -> %s\n", f.Filename, f.Revision, localPath)
			if err := fetchArtifact(client, opts.Repo, f, localPath, expected, opts.Stdout); err != nil {
				return err
			}
			fmt.Fprintf(opts.Stdout, "verified %s (sha256=%s)\n", f.Filename, expected)
		}
		lock.Files[f.Filename] = lockRecord{Revision: f.Revision, SHA256: expected}
	}

	if err := writeLockManifest(lockPath, lock); err != nil {
		return err
	}
	fmt.Fprintf(opts.Stdout, "wrote lock manifest: %s\n", lockPath)
	return nil
}

// expectedChecksum picks the checksum to enforce: a manifest pin wins,
// then an earlier lock record for the same revision, then hub metadata.
// Metadata resolution happens at most once per file; the lock pins the
// result for every later run.
func expectedChecksum(client *http.Client, repo string, f ModelFile, lock lockManifest) (string, error) {
	if isSHA256Hex(f.SHA256) {
		return strings.ToLower(f.SHA256), nil
	}
	if lr, ok := lock.Files[f.Filename]; ok && lr.Revision == f.Revision && isSHA256Hex(lr.SHA256) {
		return strings.ToLower(lr.SHA256), nil
	}
	return checksumFromHub(client, repo, f)
}

// checksumFromHub resolves the artifact's sha256 from hub HEAD metadata.
// Hugging Face exposes the blob hash of LFS files in X-Linked-Etag, and
// of plain files in Etag.
func checksumFromHub(client *http.Client, repo string, f ModelFile) (string, error) {
	resp, err := client.Head(artifactURL(repo, f))
	if err != nil {
		return "", fmt.Errorf("metadata request failed for %s: %w", f.Filename, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%s is not a public repo; place %s under the model dir manually", repo, f.Filename)
	case resp.StatusCode < 200 || resp.StatusCode > 399:
		return "", fmt.Errorf("metadata request failed for %s: %s", f.Filename, resp.Status)
	}

	for _, key := range []string{"X-Linked-Etag", "Etag"} {
		if v := normalizeETag(resp.Header.Get(key)); isSHA256Hex(v) {
			return strings.ToLower(v), nil
		}
	}
	return "", fmt.Errorf("hub metadata for %s carries no sha256", f.Filename)
}

// fetchArtifact streams the artifact into a temp file next to outPath,
// hashing as it writes, and moves it into place only when the hash
// matches expected. A mismatch leaves no partial file behind.
func fetchArtifact(client *http.Client, repo string, f ModelFile, outPath, expected string, stdout io.Writer) error {
	resp, err := client.Get(artifactURL(repo, f))
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download failed for %s: %s", f.Filename, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), filepath.Base(outPath)+".download.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	progress := &progressWriter{out: stdout, total: resp.ContentLength, lastPrint: time.Now()}
	if _, err := io.Copy(io.MultiWriter(tmp, h, progress), resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download read failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s got %s", f.Filename, expected, actual)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("move verified file into place: %w", err)
	}
	return nil
}

// progressWriter prints coarse download progress at most every 700ms.
type progressWriter struct {
	out       io.Writer
	total     int64
	written   int64
	lastPrint time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if time.Since(p.lastPrint) > 700*time.Millisecond {
		if p.total > 0 {
			pct := float64(p.written) * 100 / float64(p.total)
			fmt.Fprintf(p.out, "  progress: %.1f%% (%d/%d bytes)\n", pct, p.written, p.total)
		} else {
			fmt.Fprintf(p.out, "  progress: %d bytes\n", p.written)
		}
		p.lastPrint = time.Now()
	}
	return len(b), nil
}

func artifactURL(repo string, f ModelFile) string {
	return fmt.Sprintf("%s/%s/resolve/%s/%s", hubBaseURL, repo, f.Revision, f.Filename)
}

// existingMatches reports whether path already holds a file with the
// expected sha256.
func existingMatches(path, expected string) (bool, error) {
	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat existing file: %w", err)
	case fi.IsDir():
		return false, fmt.Errorf("expected file at %s, found directory", path)
	}
	actual, err := fileSHA256(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

func normalizeETag(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "W/")
	return strings.Trim(v, `"`)
}

func isSHA256Hex(v string) bool {
	return shaHexPattern.MatchString(v)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readLockManifest(path string) lockManifest {
	empty := lockManifest{Files: map[string]lockRecord{}}
	b, err := os.ReadFile(path)
	if err != nil {
		return empty
	}
	var lock lockManifest
	if err := json.Unmarshal(b, &lock); err != nil {
		return empty
	}
	if lock.Files == nil {
		lock.Files = map[string]lockRecord{}
	}
	return lock
}

func writeLockManifest(path string, lock lockManifest) error {
	b, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lock manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write lock manifest: %w", err)
	}
	return nil
}
