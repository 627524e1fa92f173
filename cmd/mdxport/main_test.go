package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
`, filepath.Join(base, "exports"), filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "mdxport") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No export runs recorded") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestExportCommandRejectsInvalidSettings(t *testing.T) {
	configPath := writeTestConfig(t)
	_, err := executeCommand(t, "--config", configPath, "export", "--fps", "0")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "fps") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExportCommandRejectsUnknownPreset(t *testing.T) {
	configPath := writeTestConfig(t)
	_, err := executeCommand(t, "--config", configPath, "export", "--preset", "imax")
	if err == nil {
		t.Fatal("expected preset error")
	}
	if !strings.Contains(err.Error(), "preset") {
		t.Fatalf("unexpected error: %v", err)
	}
}
