package model

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModelDir(t *testing.T, content []byte, checksum string) string {
	t.Helper()
	dir := t.TempDir()
	if content != nil {
		if err := os.WriteFile(filepath.Join(dir, "nakdimon.onnx"), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if checksum != "" {
		lock := lockManifest{
			Repo: "elazarg/nakdimon",
			Files: map[string]lockRecord{
				"nakdimon.onnx": {Revision: "main", SHA256: checksum},
			},
		}
		if err := writeLockManifest(filepath.Join(dir, "download-manifest.lock.json"), lock); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestVerifyPass(t *testing.T) {
	content := []byte("fake model bytes")
	sum := sha256.Sum256(content)
	dir := writeModelDir(t, content, hex.EncodeToString(sum[:]))

	var out strings.Builder
	err := Verify(VerifyOptions{Repo: "elazarg/nakdimon", Dir: dir, Stdout: &out})
	if err != nil {
		t.Fatalf("Verify: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "PASS nakdimon.onnx") {
		t.Errorf("output missing PASS line:\n%s", out.String())
	}
}

func TestVerifyChecksumMismatch(t *testing.T) {
	other := sha256.Sum256([]byte("different bytes"))
	dir := writeModelDir(t, []byte("fake model bytes"), hex.EncodeToString(other[:]))

	err := Verify(VerifyOptions{Repo: "elazarg/nakdimon", Dir: dir, Stdout: io.Discard})
	if err == nil {
		t.Fatal("Verify passed despite checksum mismatch")
	}
}

func TestVerifyMissingFile(t *testing.T) {
	sum := sha256.Sum256([]byte("never written"))
	dir := writeModelDir(t, nil, hex.EncodeToString(sum[:]))

	err := Verify(VerifyOptions{Repo: "elazarg/nakdimon", Dir: dir, Stdout: io.Discard})
	if err == nil {
		t.Fatal("Verify passed despite missing file")
	}
}

func TestVerifyWithoutLockManifest(t *testing.T) {
	dir := writeModelDir(t, []byte("fake model bytes"), "")

	var out strings.Builder
	err := Verify(VerifyOptions{Repo: "elazarg/nakdimon", Dir: dir, Stdout: &out})
	if err == nil {
		t.Fatal("Verify passed with no recorded checksum")
	}
	if !strings.Contains(out.String(), "SKIP") {
		t.Errorf("output missing SKIP line:\n%s", out.String())
	}
}

func TestVerifyValidatesOptions(t *testing.T) {
	if err := Verify(VerifyOptions{Dir: "x"}); err == nil {
		t.Error("missing repo did not fail")
	}
	if err := Verify(VerifyOptions{Repo: "elazarg/nakdimon"}); err == nil {
		t.Error("missing dir did not fail")
	}
}
