package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSilentByDefault(t *testing.T) {
	log := Get("silent-test")
	// Must not panic or write anywhere before Enable is called.
	log.Warningf("dropped message")
}

func TestEnableRoutesToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Disable()

	Get("route-test").Infof("hello %s", "world")
	out := buf.String()
	if !strings.Contains(out, "hello world") {
		t.Fatalf("message not routed, got %q", out)
	}
	if !strings.Contains(out, "route-test") {
		t.Fatalf("module name missing, got %q", out)
	}
}

func TestEnableRejectsBadLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "LOUD"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDisableSilences(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Disable()
	Get("disable-test").Errorf("must not appear")
	if strings.Contains(buf.String(), "must not appear") {
		t.Fatalf("backend still active: %q", buf.String())
	}
}
