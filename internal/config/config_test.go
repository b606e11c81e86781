package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Paths.ModelPath != "models/nakdimon.onnx" {
		t.Errorf("ModelPath = %q", cfg.Paths.ModelPath)
	}
	if cfg.Engine.SequenceLength != 126 {
		t.Errorf("SequenceLength = %d, want 126", cfg.Engine.SequenceLength)
	}
	if cfg.Engine.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", cfg.Engine.Debounce)
	}
	if cfg.Runtime.ORTAPIVersion != 23 {
		t.Errorf("ORTAPIVersion = %d, want 23", cfg.Runtime.ORTAPIVersion)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
}

func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterFlags(cmd.Flags(), DefaultConfig())
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cmd := newTestCmd(t)

	cfg, err := Load(LoadOptions{Cmd: cmd, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load with no overrides = %+v, want defaults", cfg)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cmd := newTestCmd(t)
	args := []string{
		"--log-level=debug",
		"--paths-model-path=/tmp/other.onnx",
		"--engine-sequence-length=64",
		"--engine-debounce=150ms",
		"--server-listen-addr=:9000",
	}
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: cmd, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Paths.ModelPath != "/tmp/other.onnx" {
		t.Errorf("ModelPath = %q", cfg.Paths.ModelPath)
	}
	if cfg.Engine.SequenceLength != 64 {
		t.Errorf("SequenceLength = %d, want 64", cfg.Engine.SequenceLength)
	}
	if cfg.Engine.Debounce != 150*time.Millisecond {
		t.Errorf("Debounce = %v, want 150ms", cfg.Engine.Debounce)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.Server.ListenAddr)
	}
}

func TestLoadORTLibShorthand(t *testing.T) {
	cmd := newTestCmd(t)
	if err := cmd.Flags().Parse([]string{"--ort-lib=/opt/ort/libonnxruntime.so"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: cmd, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runtime.ORTLibraryPath != "/opt/ort/libonnxruntime.so" {
		t.Errorf("ORTLibraryPath = %q", cfg.Runtime.ORTLibraryPath)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alephtools.yaml")
	content := "log_level: warn\nengine:\n  sequence_length: 80\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Engine.SequenceLength != 80 {
		t.Errorf("SequenceLength = %d, want 80", cfg.Engine.SequenceLength)
	}
	// Untouched keys keep their defaults.
	if cfg.Paths.ModelPath != DefaultConfig().Paths.ModelPath {
		t.Errorf("ModelPath = %q, want default", cfg.Paths.ModelPath)
	}
}

func TestLoadZeroSequenceLengthFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alephtools.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  sequence_length: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := DefaultConfig().Engine.SequenceLength; cfg.Engine.SequenceLength != want {
		t.Errorf("SequenceLength = %d, want fallback %d", cfg.Engine.SequenceLength, want)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: "/nonexistent/alephtools.yaml", Defaults: DefaultConfig()})
	if err == nil {
		t.Error("Load with an explicit missing config file did not fail")
	}
}
