// Package observability defines the lifecycle and request event surface of the
// client. Events carry small typed payloads; the client owns emission order and
// observers must not block.
package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// RequestResult classifies how a dispatched request ended.
type RequestResult string

const (
	RequestResultOK         RequestResult = "ok"
	RequestResultAPIError   RequestResult = "api_error"
	RequestResultConnection RequestResult = "connection_error"
	RequestResultDecode     RequestResult = "decode_error"
)

// LoginResult classifies a login attempt.
type LoginResult string

const (
	LoginResultOK     LoginResult = "ok"
	LoginResultFailed LoginResult = "failed"
)

// SessionObserver receives session lifecycle and request events.
type SessionObserver interface {
	// Connected fires after a login succeeds and the registry is populated.
	Connected()
	// Disconnected fires after a disconnect, whatever the logout call returned.
	Disconnected()
	// Login fires once per connect attempt.
	Login(result LoginResult)
	// BeforeRequest fires before a request is encoded and sent.
	BeforeRequest(api, method string)
	// AfterResponse fires after a successful envelope is decoded.
	AfterResponse(api, method string, d time.Duration)
	// Error fires when a request or lifecycle operation fails.
	Error(api string, result RequestResult)
}

type noopSessionObserver struct{}

func (noopSessionObserver) Connected()                                  {}
func (noopSessionObserver) Disconnected()                               {}
func (noopSessionObserver) Login(LoginResult)                           {}
func (noopSessionObserver) BeforeRequest(string, string)                {}
func (noopSessionObserver) AfterResponse(string, string, time.Duration) {}
func (noopSessionObserver) Error(string, RequestResult)                 {}

// NoopSessionObserver is a zero-cost observer used when events are unwanted.
var NoopSessionObserver SessionObserver = noopSessionObserver{}

// Multi fans every event out to each registered observer in order.
type Multi struct {
	obs []SessionObserver
}

// NewMulti builds a fan-out observer; nil entries are skipped.
func NewMulti(obs ...SessionObserver) *Multi {
	m := &Multi{}
	for _, o := range obs {
		if o != nil {
			m.obs = append(m.obs, o)
		}
	}
	return m
}

func (m *Multi) Connected() {
	for _, o := range m.obs {
		o.Connected()
	}
}

func (m *Multi) Disconnected() {
	for _, o := range m.obs {
		o.Disconnected()
	}
}

func (m *Multi) Login(result LoginResult) {
	for _, o := range m.obs {
		o.Login(result)
	}
}

func (m *Multi) BeforeRequest(api, method string) {
	for _, o := range m.obs {
		o.BeforeRequest(api, method)
	}
}

func (m *Multi) AfterResponse(api, method string, d time.Duration) {
	for _, o := range m.obs {
		o.AfterResponse(api, method, d)
	}
}

func (m *Multi) Error(api string, result RequestResult) {
	for _, o := range m.obs {
		o.Error(api, result)
	}
}

// AtomicSessionObserver swaps its delegate at runtime.
type AtomicSessionObserver struct {
	once sync.Once
	v    atomic.Value
}

type sessionObserverHolder struct {
	obs SessionObserver
}

// NewAtomicSessionObserver returns an initialized atomic observer.
func NewAtomicSessionObserver() *AtomicSessionObserver {
	a := &AtomicSessionObserver{}
	a.once.Do(func() { a.v.Store(&sessionObserverHolder{obs: NoopSessionObserver}) })
	return a
}

// Set replaces the delegate, falling back to the no-op observer on nil.
func (a *AtomicSessionObserver) Set(obs SessionObserver) {
	if obs == nil {
		obs = NoopSessionObserver
	}
	a.once.Do(func() { a.v.Store(&sessionObserverHolder{obs: NoopSessionObserver}) })
	a.v.Store(&sessionObserverHolder{obs: obs})
}

func (a *AtomicSessionObserver) load() SessionObserver {
	a.once.Do(func() { a.v.Store(&sessionObserverHolder{obs: NoopSessionObserver}) })
	return a.v.Load().(*sessionObserverHolder).obs
}

func (a *AtomicSessionObserver) Connected()          { a.load().Connected() }
func (a *AtomicSessionObserver) Disconnected()       { a.load().Disconnected() }
func (a *AtomicSessionObserver) Login(r LoginResult) { a.load().Login(r) }
func (a *AtomicSessionObserver) BeforeRequest(api, method string) {
	a.load().BeforeRequest(api, method)
}
func (a *AtomicSessionObserver) AfterResponse(api, method string, d time.Duration) {
	a.load().AfterResponse(api, method, d)
}
func (a *AtomicSessionObserver) Error(api string, result RequestResult) {
	a.load().Error(api, result)
}
