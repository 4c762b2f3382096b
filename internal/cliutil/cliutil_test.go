package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("NASGATE_TEST_STR", "  value  ")
	if got := EnvString("NASGATE_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	t.Setenv("NASGATE_TEST_STR", "   ")
	if got := EnvString("NASGATE_TEST_STR", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("NASGATE_TEST_DUR", "45s")
	d, err := EnvDuration("NASGATE_TEST_DUR", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 45*time.Second {
		t.Fatalf("expected 45s, got %v", d)
	}

	t.Setenv("NASGATE_TEST_DUR", "not-a-duration")
	if _, err := EnvDuration("NASGATE_TEST_DUR", time.Minute); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]int{"n": 1}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "{\"n\":1}\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRefuseOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out.json")
	if err := os.WriteFile(existing, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := RefuseOverwrite(existing, false)
	if err == nil || !IsUsage(err) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := RefuseOverwrite(existing, true); err != nil {
		t.Fatalf("overwrite=true must pass: %v", err)
	}
	if err := RefuseOverwrite(filepath.Join(dir, "missing.json"), false); err != nil {
		t.Fatalf("missing file must pass: %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")

	if err := WriteFileAtomic(path, []byte("first"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Fatalf("unexpected content: %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}
