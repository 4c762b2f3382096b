package prom

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/quayside/nasgate/observability"
)

func TestSessionObserverMetrics(t *testing.T) {
	reg := NewRegistry()
	o := NewSessionObserver(reg)

	o.Login(observability.LoginResultOK)
	o.Connected()
	o.BeforeRequest("SYNO.FileStation.List", "list")
	o.AfterResponse("SYNO.FileStation.List", "list", 50*time.Millisecond)
	o.BeforeRequest("SYNO.FileStation.List", "list")
	o.Error("SYNO.FileStation.List", observability.RequestResultAPIError)
	o.Disconnected()

	if got := testutil.ToFloat64(o.connectedGauge); got != 0 {
		t.Fatalf("connected gauge = %v, want 0 after disconnect", got)
	}
	if got := testutil.ToFloat64(o.requestTotal.WithLabelValues("SYNO.FileStation.List", "list")); got != 2 {
		t.Fatalf("request total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(o.requestErrors.WithLabelValues("SYNO.FileStation.List", "api_error")); got != 1 {
		t.Fatalf("request errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.loginTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("login total = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := NewRegistry()
	o := NewSessionObserver(reg)
	o.Connected()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	for _, want := range []string{
		"nasgate_session_connected 1",
		"nasgate_request_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("scrape output missing %q:\n%s", want, body)
		}
	}
}
