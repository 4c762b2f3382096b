package observability

import (
	"testing"
	"time"
)

type recorder struct {
	events []string
}

func (r *recorder) Connected()                         { r.events = append(r.events, "connected") }
func (r *recorder) Disconnected()                      { r.events = append(r.events, "disconnected") }
func (r *recorder) Login(res LoginResult)              { r.events = append(r.events, "login:"+string(res)) }
func (r *recorder) BeforeRequest(api, method string)   { r.events = append(r.events, "before:"+api) }
func (r *recorder) AfterResponse(api, m string, d time.Duration) {
	r.events = append(r.events, "after:"+api)
}
func (r *recorder) Error(api string, res RequestResult) {
	r.events = append(r.events, "error:"+string(res))
}

func TestMultiFansOut(t *testing.T) {
	a := &recorder{}
	b := &recorder{}
	m := NewMulti(a, nil, b)

	m.Connected()
	m.BeforeRequest("SYNO.API.Info", "query")
	m.AfterResponse("SYNO.API.Info", "query", time.Millisecond)
	m.Error("SYNO.API.Info", RequestResultDecode)
	m.Disconnected()

	if len(a.events) != 5 || len(b.events) != 5 {
		t.Fatalf("fan-out mismatch: a=%d b=%d", len(a.events), len(b.events))
	}
	if a.events[0] != "connected" || a.events[4] != "disconnected" {
		t.Fatalf("unexpected order: %v", a.events)
	}
}

func TestAtomicObserver(t *testing.T) {
	a := NewAtomicSessionObserver()

	// No delegate installed: events go to the no-op observer.
	a.Connected()
	a.Login(LoginResultFailed)

	rec := &recorder{}
	a.Set(rec)
	a.Connected()
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event after Set, got %v", rec.events)
	}

	a.Set(nil)
	a.Disconnected()
	if len(rec.events) != 1 {
		t.Fatal("events after Set(nil) must not reach the old delegate")
	}
}
